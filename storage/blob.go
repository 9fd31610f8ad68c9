package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BlobStore holds uploaded file contents. Metadata stays in the
// KeyValueStore; only the raw bytes go here.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// S3Config carries the settings for the S3-compatible blob backing
type S3Config struct {
	Region       string
	BaseEndpoint string
	Bucket       string
	AccessKey    string
	SecretKey    string
}

// S3BlobStore is a BlobStore over any S3-compatible endpoint
type S3BlobStore struct {
	client *s3.Client
	bucket string
}

// NewS3BlobStore builds a client from the static credentials in cfg
func NewS3BlobStore(ctx context.Context, cfg S3Config) (*S3BlobStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%w: aws config: %v", ErrUnavailable, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
	})

	return &S3BlobStore{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads body under key
func (b *S3BlobStore) Put(ctx context.Context, key string, body io.Reader) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("%w: put object %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Delete removes the object under key
func (b *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("%w: delete object %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

// PresignGet returns a short-lived download URL for key
func (b *S3BlobStore) PresignGet(ctx context.Context, key string) (string, error) {
	presign := s3.NewPresignClient(b.client)
	req, err := presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("%w: presign %s: %v", ErrUnavailable, key, err)
	}
	return req.URL, nil
}
