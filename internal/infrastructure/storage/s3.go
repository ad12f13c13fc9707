package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"customizer-shopify-layer/internal/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Uploader stores images in an S3 bucket.
type S3Uploader struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Uploader creates an S3 uploader. When accessKey is empty the default
// credential chain is used.
func NewS3Uploader(ctx context.Context, region, accessKey, secretKey, bucket string) (ports.Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Uploader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// Upload writes the payload under <folder>/<timestamp>-<random>.<ext> with a
// public-read ACL and returns the object URL.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, fileName string, folder string) (string, error) {
	key := fmt.Sprintf("%s/%d-%s.%s", folder, time.Now().UnixMilli(), randomSuffix(), extensionOf(fileName))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/" + extensionOf(fileName)),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 putobject failed: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key), nil
}
