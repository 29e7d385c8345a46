package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3Config configures the S3 mirror.
type S3Config struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string // for S3-compatible stores; enables path-style addressing
}

// Validate checks required fields.
func (c S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("s3 bucket is required")
	}
	return nil
}

// putObjectAPI is the subset of *s3.Client the mirror needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Mirror uploads downloads to an S3 bucket.
type S3Mirror struct {
	api    putObjectAPI
	bucket string
	prefix string
	logger *zap.Logger
}

var _ Mirror = (*S3Mirror)(nil)

// NewS3Mirror builds a mirror using the default AWS credential chain.
func NewS3Mirror(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3Mirror, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid s3 config: %w", err)
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Mirror(client, cfg, logger), nil
}

func newS3Mirror(api putObjectAPI, cfg S3Config, logger *zap.Logger) *S3Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Mirror{
		api:    api,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger.With(zap.String("component", "s3-mirror")),
	}
}

// Put uploads data and returns its s3:// location.
func (m *S3Mirror) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	objectKey := m.prefix + strings.TrimPrefix(key, "/")

	_, err := m.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		m.logger.Error("mirror upload failed",
			zap.String("bucket", m.bucket),
			zap.String("key", objectKey),
			zap.Error(err))
		return "", fmt.Errorf("put s3 object %s: %w", objectKey, err)
	}

	m.logger.Info("mirrored download",
		zap.String("bucket", m.bucket),
		zap.String("key", objectKey),
		zap.Int("bytes", len(data)))
	return fmt.Sprintf("s3://%s/%s", m.bucket, objectKey), nil
}
