package cli

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"

	"github.com/ddrutch/AWSInfoGraphic/pkg/bedrock"
	"github.com/ddrutch/AWSInfoGraphic/pkg/cache"
	"github.com/ddrutch/AWSInfoGraphic/pkg/config"
	"github.com/ddrutch/AWSInfoGraphic/pkg/novacanvas"
	"github.com/ddrutch/AWSInfoGraphic/pkg/pipeline"
	"github.com/ddrutch/AWSInfoGraphic/pkg/storage"
)

// runnerOpts selects how the pipeline collaborators are wired.
type runnerOpts struct {
	offline bool // skip AWS entirely: extractive analysis, placeholder images, local storage
	noCache bool // bypass the image cache for this invocation
}

// buildRunner wires a pipeline runner from configuration. The returned
// closer releases the cache backend and must be called when the runner is
// no longer needed.
func buildRunner(ctx context.Context, cfg config.Config, opts runnerOpts, logger *log.Logger) (*pipeline.Runner, func() error, error) {
	images, err := buildImageCache(ctx, cfg, opts.noCache)
	if err != nil {
		return nil, nil, err
	}

	var (
		analyzer pipeline.Analyzer
		sourcer  pipeline.Sourcer
		store    pipeline.Store
	)

	if opts.offline {
		store, err = storage.NewLocal(cfg.Output.Dir)
		if err != nil {
			images.Close()
			return nil, nil, err
		}
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			images.Close()
			return nil, nil, fmt.Errorf("load aws config: %w", err)
		}

		brc := bedrockruntime.NewFromConfig(awsCfg)
		analyzer = bedrock.New(brc, bedrock.WithModelID(cfg.AWS.BedrockModelID))
		sourcer = novacanvas.New(brc, novacanvas.WithModelID(cfg.AWS.NovaCanvasModelID))

		if cfg.AWS.S3Bucket != "" {
			store, err = storage.NewS3(s3.NewFromConfig(awsCfg), cfg.AWS.S3Bucket, cfg.AWS.Region)
		} else {
			store, err = storage.NewLocal(cfg.Output.Dir)
		}
		if err != nil {
			images.Close()
			return nil, nil, err
		}
	}

	runner, err := pipeline.NewRunner(analyzer, sourcer, store, images, logger)
	if err != nil {
		images.Close()
		return nil, nil, err
	}
	runner.Policy = pipeline.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay(),
		MaxDelay:    cfg.Retry.MaxDelay(),
		Jitter:      pipeline.DefaultJitter,
	}

	return runner, images.Close, nil
}

// buildImageCache selects the cache backend: Redis when configured, a file
// cache otherwise, nothing when disabled.
func buildImageCache(ctx context.Context, cfg config.Config, noCache bool) (*cache.Group, error) {
	if noCache || cfg.Cache.Disabled {
		return cache.NewGroup(nil), nil
	}

	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, "", 0)
		if err != nil {
			return nil, fmt.Errorf("connect image cache: %w", err)
		}
		return cache.NewGroup(rc), nil
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return nil, err
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open image cache: %w", err)
	}
	return cache.NewGroup(fc), nil
}
