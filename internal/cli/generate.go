package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ddrutch/AWSInfoGraphic/pkg/config"
	"github.com/ddrutch/AWSInfoGraphic/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	file       string // read input text from this file instead of the argument
	platform   string // target platform id
	format     string // output format: png or jpeg
	configPath string // optional TOML config file
	offline    bool   // no AWS: extractive analysis, placeholder image, local output
	noCache    bool   // bypass the image cache
	timeout    int    // overall timeout in seconds
}

// newGenerateCmd creates the generate command, the primary entry point of
// the tool. Input text comes from the argument or --file; the finished
// infographic lands in S3 or the local output directory depending on
// configuration.
func newGenerateCmd() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Generate an infographic from text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(args, opts.file)
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), text, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read input text from file")
	cmd.Flags().StringVarP(&opts.platform, "platform", "p", "general", "target platform (see 'infographic platforms')")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: png or jpeg (default: platform preference)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (TOML)")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "run without AWS: extractive analysis and placeholder imagery")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the generated-image cache")
	cmd.Flags().IntVar(&opts.timeout, "timeout", 300, "overall timeout in seconds")

	return cmd
}

// inputText resolves the input from the positional argument or --file.
func inputText(args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	return "", fmt.Errorf("no input: pass text as an argument or use --file")
}

func runGenerate(ctx context.Context, text string, opts *generateOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	runner, closeCache, err := buildRunner(ctx, cfg, runnerOpts{offline: opts.offline, noCache: opts.noCache}, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.timeout)*time.Second)
		defer cancel()
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %s infographic...", opts.platform))
	spinner.Start()

	result, err := runner.Run(ctx, pipeline.Request{
		Text:     text,
		Platform: opts.platform,
		Format:   opts.format,
	})
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			spinner.StopWithError(fmt.Sprintf("Generation failed during %s: %v", stageErr.Stage, stageErr.Err))
			if stageErr.RetryAfter > 0 {
				printDetail("Service asked to retry after %s", stageErr.RetryAfter)
			}
			return err
		}
		spinner.StopWithError(fmt.Sprintf("Generation failed: %v", err))
		return err
	}

	spinner.StopWithSuccess(fmt.Sprintf("%s %dx%d (%s)",
		result.Platform, result.CanvasWidth, result.CanvasHeight, strings.ToLower(result.Format)))
	prog.done("Generated infographic")

	printFile(result.URL)
	printStats(result.Counts.Text, result.Counts.Image, result.Degraded.Analysis || result.Degraded.Images)

	if result.Degraded.Analysis {
		printWarning("Content analysis was unavailable; used extractive summary")
	}
	if result.Degraded.Images {
		printWarning("Image generation was unavailable; used placeholder imagery")
	}
	if result.Truncated {
		printDetail("Some key points were folded to fit the platform's element budget")
	}
	return nil
}
