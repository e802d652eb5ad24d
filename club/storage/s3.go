package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Client is the subset of the minio client the store depends on.
type S3Client interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type S3Store struct {
	client  S3Client
	bucket  string
	baseUrl string
}

const defaultContentType = "application/octet-stream"

type S3Args struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// NewS3Store connects to AWS S3. Static credentials are optional; when absent
// the client falls back to ambient instance credentials.
func NewS3Store(args S3Args) (*S3Store, error) {
	endpoint := fmt.Sprintf("s3.%s.amazonaws.com", args.Region)

	var creds *credentials.Credentials
	if args.AccessKey != "" {
		creds = credentials.NewStaticV4(args.AccessKey, args.SecretKey, "")
	} else {
		creds = credentials.NewIAM("")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: true,
		Region: args.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	slog.Info("created s3 object store", "bucket", args.Bucket, "region", args.Region)

	return &S3Store{
		client:  client,
		bucket:  args.Bucket,
		baseUrl: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", args.Bucket, args.Region),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = defaultContentType
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, data, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		slog.Error("error uploading object", "key", key, "error", err)
		return "", fmt.Errorf("error uploading object %v: %w", key, err)
	}

	return s.baseUrl + key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		slog.Error("error deleting object", "key", key, "error", err)
		return fmt.Errorf("error deleting object %v: %w", key, err)
	}
	return nil
}

func (s *S3Store) DeleteURL(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseUrl)
	if !ok || key == "" {
		return nil
	}
	return s.Delete(ctx, key)
}
