// Package artifact uploads report files to S3-compatible object storage
// so CI systems can archive validation results next to build artifacts.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// Uploader wraps an S3 client for report uploads.
type Uploader struct {
	s3 *s3.Client
}

// Options configures the S3 endpoint and credentials. Endpoint may point
// at any S3-compatible service; empty means AWS proper.
type Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// NewUploader creates an uploader from static credentials.
func NewUploader(ctx context.Context, opts Options) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
		awsconfig.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return &Uploader{s3: client}, nil
}

// Upload writes one report body to bucket/key.
func (u *Uploader) Upload(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	_, err := u.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		if code, ok := apiErrorCode(err); ok {
			return fmt.Errorf("failed to upload %s/%s (%s): %w", bucket, key, code, err)
		}
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// ParseURL splits an s3://bucket/key/prefix destination.
func ParseURL(raw string) (bucket, key string, err error) {
	trimmed, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", fmt.Errorf("invalid S3 URL %q: must start with s3://", raw)
	}

	bucket, key, ok = strings.Cut(trimmed, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 URL %q: want s3://bucket/key", raw)
	}
	return bucket, key, nil
}

// apiErrorCode extracts the service error code when the S3-compatible
// backend returned one.
func apiErrorCode(err error) (string, bool) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode(), true
	}
	return "", false
}
