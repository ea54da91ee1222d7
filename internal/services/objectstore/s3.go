package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"

	"github.com/driftml/sweep-runner/internal/config"
)

type S3ObjectStore struct {
	client *s3.Client
	cfg    *config.S3Config
}

func NewS3ObjectStore(cfg *config.Config) (*S3ObjectStore, error) {
	if cfg.S3 == nil {
		return nil, fmt.Errorf("s3 config is not set")
	}

	credentialsProvider := credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, "")
	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.TODO(),
		awsConfig.WithRegion(cfg.S3.Region),
		awsConfig.WithCredentialsProvider(credentialsProvider),
	)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.EndpointUrl != "" {
			o.BaseEndpoint = &cfg.S3.EndpointUrl
		}
	})

	return &S3ObjectStore{
		client: s3Client,
		cfg:    cfg.S3,
	}, nil
}

func (s *S3ObjectStore) Upload(ctx context.Context, key string, content []byte) (string, error) {
	mtype := mimetype.Detect(content).String()

	input := s3.PutObjectInput{
		Key:         &key,
		ContentType: &mtype,
		Bucket:      &s.cfg.Bucket,
		Body:        bytes.NewReader(content),
	}
	if _, err := s.client.PutObject(ctx, &input); err != nil {
		return "", err
	}

	return s.BaseUri(key), nil
}

func (s *S3ObjectStore) BaseUri(keyPrefix string) string {
	return fmt.Sprintf("s3://%s/%s", s.cfg.Bucket, strings.TrimPrefix(keyPrefix, "/"))
}
