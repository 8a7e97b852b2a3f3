package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Config holds the settings for an S3-compatible bucket (AWS or minio).
type S3Config struct {
	Region        string
	Bucket        string
	Endpoint      string // empty for AWS; minio needs the base endpoint
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // prefix of the URLs handed out for stored objects
}

// s3API is the slice of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	client  s3API
	bucket  string
	baseURL string
}

var _ ObjectStore = (*S3Store)(nil)

// NewS3Store builds an S3-backed object store from static credentials.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // minio serves buckets by path
		}
	})

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// objectKey builds a date-partitioned, collision-free key that keeps
// the original file name readable at the tail.
func objectKey(filename string) string {
	d := time.Now().UTC()
	name := strings.ReplaceAll(path.Base(filename), " ", "_")
	return fmt.Sprintf("covers/%d/%d/%d/%v-%s", d.Year(), d.Month(), d.Day(), uuid.New(), name)
}

func (s *S3Store) Put(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	key := objectKey(filename)

	in := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   r,
	}
	if contentType != "" {
		in.ContentType = &contentType
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}

	return s.baseURL + "/" + key, nil
}

// keyFromURL recovers the object key from a public URL. The second
// return is false when the URL was not issued by this store.
func (s *S3Store) keyFromURL(url string) (string, bool) {
	key := strings.TrimPrefix(url, s.baseURL+"/")
	if key == url || key == "" {
		return "", false
	}
	return key, true
}

func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, ok := s.keyFromURL(url)
	if !ok {
		// Nothing of ours behind that URL; treat as already gone.
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noKey) || errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}
