package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/util"
	"physics_edu_backend/pkg/logger"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// ObjectStore 媒体文件存储后端
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	PutFile(ctx context.Context, key, localPath, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

// LocalStore 本地磁盘存储，通过 /uploads 静态路由访问
type LocalStore struct {
	Root string
}

func (s *LocalStore) path(key string) (string, error) {
	dst := filepath.Join(s.Root, filepath.FromSlash(key))
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	if abs != root && !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: invalid object key %q", util.ErrInvalidParameter, key)
	}
	return dst, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	dst, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return s.URL(key), nil
}

func (s *LocalStore) PutFile(ctx context.Context, key, localPath, contentType string) (string, error) {
	dst, err := s.path(key)
	if err != nil {
		return "", err
	}
	// 文件已在存储目录中
	if filepath.Clean(localPath) == filepath.Clean(dst) {
		return s.URL(key), nil
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer src.Close()
	return s.Put(ctx, key, src, -1, contentType)
}

func (s *LocalStore) Remove(ctx context.Context, key string) error {
	dst, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	return "/uploads/" + key
}

// MinioStore MinIO 对象存储
type MinioStore struct {
	Bucket   string
	Endpoint string
	Secure   bool
	Client   *minio.Client
}

func NewMinioStore(cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{
		Bucket:   cfg.MinioBucket,
		Endpoint: cfg.MinioEndpoint,
		Secure:   cfg.MinioUseSSL,
		Client:   client,
	}, nil
}

// EnsureBucket 存储桶不存在时创建
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.Client.BucketExists(ctx, s.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.Client.MakeBucket(ctx, s.Bucket, minio.MakeBucketOptions{})
}

func (s *MinioStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.Client.PutObject(ctx, s.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s.URL(key), nil
}

func (s *MinioStore) PutFile(ctx context.Context, key, localPath, contentType string) (string, error) {
	_, err := s.Client.FPutObject(ctx, s.Bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s.URL(key), nil
}

func (s *MinioStore) Remove(ctx context.Context, key string) error {
	return s.Client.RemoveObject(ctx, s.Bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinioStore) URL(key string) string {
	scheme := "http"
	if s.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.Endpoint, s.Bucket, key)
}

// OSSStore 阿里云 OSS
type OSSStore struct {
	Endpoint string
	Bucket   *oss.Bucket
}

func NewOSSStore(cfg *config.StorageConfig) (*OSSStore, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSStore{Endpoint: cfg.OSSEndpoint, Bucket: bucket}, nil
}

func (s *OSSStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if err := s.Bucket.PutObject(key, reader, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", err
	}
	return s.URL(key), nil
}

func (s *OSSStore) PutFile(ctx context.Context, key, localPath, contentType string) (string, error) {
	if err := s.Bucket.PutObjectFromFile(key, localPath, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", err
	}
	return s.URL(key), nil
}

func (s *OSSStore) Remove(ctx context.Context, key string) error {
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSStore) URL(key string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.Bucket.BucketName, host, key)
}

// NewObjectStore 按配置创建存储后端
func NewObjectStore(ctx context.Context, cfg *config.StorageConfig) (ObjectStore, error) {
	switch cfg.Type {
	case util.StorageMinio:
		store, err := NewMinioStore(cfg)
		if err != nil {
			return nil, fmt.Errorf("init minio storage: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure minio bucket: %w", err)
		}
		return store, nil
	case util.StorageOSS:
		store, err := NewOSSStore(cfg)
		if err != nil {
			return nil, fmt.Errorf("init oss storage: %w", err)
		}
		return store, nil
	case util.StorageLocal, "":
		return &LocalStore{Root: cfg.LocalPath}, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}

// NewStorageFromConfig 初始化失败时退回本地存储
func NewStorageFromConfig(ctx context.Context, cfg *config.StorageConfig) ObjectStore {
	store, err := NewObjectStore(ctx, cfg)
	if err != nil {
		logger.Log.Error("storage init failed, falling back to local storage",
			zap.String("type", cfg.Type), zap.Error(err))
		return &LocalStore{Root: cfg.LocalPath}
	}
	return store
}
