package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Presigner issues presigned GET URLs for document previews.
type S3Presigner struct {
	presign *s3.PresignClient
	expiry  time.Duration
}

// NewS3Presigner creates a presigner using the default AWS credential chain.
func NewS3Presigner(ctx context.Context, region string, expiry time.Duration) (*S3Presigner, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Presigner{
		presign: s3.NewPresignClient(client),
		expiry:  expiry,
	}, nil
}

// PresignGet returns a time-limited URL for one object.
func (p *S3Presigner) PresignGet(ctx context.Context, bucket, key string) (string, error) {
	out, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.expiry))
	if err != nil {
		return "", err
	}
	return out.URL, nil
}
