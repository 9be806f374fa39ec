package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config agrupa los parámetros de acceso al bucket de rosters.
type S3Config struct {
	Region      string
	Endpoint    string
	AccessKeyID string
	SecretKey   string
}

// S3Source abre rosters alojados en S3 con rutas s3://bucket/key.
type S3Source struct {
	client *s3.Client
}

func NewS3Source(ctx context.Context, cfg S3Config) (*S3Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Source{client: client}, nil
}

func (s *S3Source) Open(ctx context.Context, sourcePath string) (io.ReadCloser, error) {
	bucket, key, err := splitS3Path(sourcePath)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", sourcePath, err)
	}
	return out.Body, nil
}

func splitS3Path(sourcePath string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(sourcePath, "s3://")
	bucket, key, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 path %q", sourcePath)
	}
	return bucket, key, nil
}
