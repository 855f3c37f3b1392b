package clients

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3Config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emzola/bookmarket/config"
)

// NewS3Client configures a new AWS S3 object storage client.
func NewS3Client(cfg config.Config) (*s3.Client, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, "")
	awsCfg, err := s3Config.LoadDefaultConfig(context.TODO(), s3Config.WithCredentialsProvider(creds), s3Config.WithRegion(cfg.S3.Region))
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg), nil
}

// S3Store uploads and deletes book images in a single bucket.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	region   string
}

// NewS3Store wraps client for the configured bucket.
func NewS3Store(client *s3.Client, bucket, region string) *S3Store {
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		region:   region,
	}
}

// Upload stores body under key and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return ObjectURL(s.bucket, s.region, key), nil
}

// Delete removes the object stored under key.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// KeyFromURL returns the object key of a URL produced by Upload.
func (s *S3Store) KeyFromURL(url string) (string, bool) {
	return KeyFromObjectURL(s.bucket, s.region, url)
}

// ObjectURL builds the virtual-hosted style URL of an object.
func ObjectURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

// KeyFromObjectURL is the inverse of ObjectURL.
func KeyFromObjectURL(bucket, region, url string) (string, bool) {
	prefix := ObjectURL(bucket, region, "")
	key, ok := strings.CutPrefix(url, prefix)
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
