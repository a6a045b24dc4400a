package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/domain"
)

// S3API is the subset of *s3.Client used here.
type S3API interface {
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Client implements ObjectStorage on top of the AWS SDK.
type S3Client struct {
	api S3API
}

// NewS3Client loads the default AWS configuration (the Lambda execution role
// when deployed). Static credentials and a custom endpoint are honoured when set.
func NewS3Client(ctx context.Context, cfg config.StorageConfig) (*S3Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region := strings.TrimSpace(cfg.Region); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(normalizeEndpoint(cfg.Endpoint, cfg.UseSSL))
			o.UsePathStyle = true
		}
	})

	return NewS3ClientWithAPI(client), nil
}

// NewS3ClientWithAPI wraps an existing S3 API implementation.
func NewS3ClientWithAPI(api S3API) *S3Client {
	return &S3Client{api: api}
}

func (c *S3Client) CopyObject(ctx context.Context, srcBucket, key, dstBucket string) error {
	copySource := EncodeCopySource(srcBucket, key)
	log.Debug().Str("copy_source", copySource).Str("bucket", dstBucket).Str("key", key).Msg("s3 copy object")

	_, err := c.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		CopySource: aws.String(copySource),
		Key:        aws.String(key),
	})
	if err != nil {
		return domain.NewStorageError("copy "+key, err)
	}
	return nil
}

func (c *S3Client) ListObjects(ctx context.Context, bucket string) ([]domain.ObjectInfo, error) {
	out, err := c.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(listPageSize),
	})
	if err != nil {
		return nil, domain.NewStorageError("list "+bucket, err)
	}

	results := make([]domain.ObjectInfo, 0, len(out.Contents))
	for _, object := range out.Contents {
		results = append(results, domain.ObjectInfo{
			Key:          aws.ToString(object.Key),
			Size:         aws.ToInt64(object.Size),
			LastModified: aws.ToTime(object.LastModified),
			ETag:         aws.ToString(object.ETag),
			StorageClass: string(object.StorageClass),
		})
	}
	if aws.ToBool(out.IsTruncated) {
		log.Warn().Str("bucket", bucket).Int("returned", len(results)).Msg("listing truncated, only the first page is returned")
	}
	return results, nil
}

var _ ObjectStorage = (*S3Client)(nil)

func normalizeEndpoint(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	scheme := "https"
	if !useSSL {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s", scheme, strings.TrimPrefix(endpoint, "//"))
}
