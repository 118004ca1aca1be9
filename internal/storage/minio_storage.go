package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinIOConfig holds connection settings for an S3-compatible object store
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Timeout   time.Duration
}

// minioStorage implements the object store on MinIO or any S3-compatible service
type minioStorage struct {
	client  *minio.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewMinIOStorage connects to the object store
func NewMinIOStorage(cfg MinIOConfig, logger *zap.Logger) (*minioStorage, error) {
	logger.Info("connecting to minio", zap.String("endpoint", cfg.Endpoint))

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	return newMinIOStorageWithClient(client, cfg.Timeout, logger), nil
}

func newMinIOStorageWithClient(client *minio.Client, timeout time.Duration, logger *zap.Logger) *minioStorage {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &minioStorage{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// EnsureBuckets creates the given buckets when they do not exist yet
func (s *minioStorage) EnsureBuckets(ctx context.Context, buckets ...string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for _, bucket := range buckets {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
		}
		if exists {
			continue
		}
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		s.logger.Info("created bucket", zap.String("bucket", bucket))
	}
	return nil
}

// Put uploads an object
func (s *minioStorage) Put(ctx context.Context, bucket, objectPath string, reader io.Reader, size int64, contentType string) error {
	cleaned, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err = s.client.PutObject(ctx, bucket, cleaned, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// Open returns a seekable reader over the object.
// No timeout is applied here because the object is streamed to the client afterwards.
func (s *minioStorage) Open(ctx context.Context, bucket, objectPath string) (io.ReadSeekCloser, ObjectInfo, error) {
	cleaned, err := cleanObjectPath(objectPath)
	if err != nil {
		return nil, ObjectInfo{}, err
	}

	object, err := s.client.GetObject(ctx, bucket, cleaned, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("failed to get object: %w", err)
	}

	stat, err := object.Stat()
	if err != nil {
		object.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ObjectInfo{}, ErrObjectNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("failed to stat object: %w", err)
	}

	info := ObjectInfo{
		Name:        path.Base(stat.Key),
		Path:        stat.Key,
		Size:        stat.Size,
		ContentType: stat.ContentType,
		ModTime:     stat.LastModified,
	}
	return object, info, nil
}

// List returns the direct children of prefix
func (s *minioStorage) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prefix = strings.TrimLeft(prefix, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	objects := []ObjectInfo{}
	for object := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		isDir := strings.HasSuffix(object.Key, "/")
		objects = append(objects, ObjectInfo{
			Name:        path.Base(strings.TrimSuffix(object.Key, "/")),
			Path:        strings.TrimSuffix(object.Key, "/"),
			Size:        object.Size,
			ContentType: object.ContentType,
			ModTime:     object.LastModified,
			IsDir:       isDir,
		})
	}
	return objects, nil
}

// Remove deletes an object
func (s *minioStorage) Remove(ctx context.Context, bucket, objectPath string) error {
	cleaned, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.RemoveObject(ctx, bucket, cleaned, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}
