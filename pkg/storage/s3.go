package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
)

// putObjectAPI is the slice of the S3 client we call. Satisfied by
// *s3.Client; tests substitute a fake.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores objects in a bucket and returns virtual-hosted-style URLs.
type S3 struct {
	api    putObjectAPI
	bucket string
	region string
}

// NewS3 constructs an S3 store for the given bucket and region.
func NewS3(api putObjectAPI, bucket, region string) (*S3, error) {
	if bucket == "" {
		return nil, apperrors.New(apperrors.Validation, apperrors.CodeInvalidInput,
			"s3 bucket name is required")
	}
	return &S3{api: api, bucket: bucket, region: region}, nil
}

// Put uploads data under key. S3 object puts are atomic, so the contract
// holds without any staging on our side.
func (s *S3) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", classifyUpload(err)
	}
	return s.URL(key), nil
}

// URL returns the virtual-hosted-style URL for a key.
func (s *S3) URL(key string) string {
	if s.region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// classifyUpload maps S3 failures onto the pipeline's error categories.
// Unknown failures default to transient: uploads are network operations and
// the retry policy bounds the attempts either way.
func classifyUpload(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "SlowDown", "RequestTimeout", "InternalError", "ServiceUnavailable":
			return apperrors.Wrap(apperrors.Transient, apperrors.CodeUploadFailed, err,
				"s3 upload throttled").WithRetryAfter(time.Second)
		case "NoSuchBucket", "AccessDenied", "InvalidBucketName":
			return apperrors.Wrap(apperrors.Validation, apperrors.CodeUploadFailed, err,
				"s3 bucket rejected upload")
		}
	}
	return apperrors.Wrap(apperrors.Transient, apperrors.CodeUploadFailed, err, "s3 upload failed")
}
