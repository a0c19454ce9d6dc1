package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"ats-filter-go/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrObjectNotFound 对象不存在
var ErrObjectNotFound = errors.New("object not found")

// ErrObjectTooLarge 对象超过允许的大小
var ErrObjectTooLarge = errors.New("object too large")

// ObjectStorage 简历对象存储接口
type ObjectStorage interface {
	// GetResumeFile 读取简历对象，maxBytes<=0 表示不限制
	GetResumeFile(ctx context.Context, objectKey string, maxBytes int64) ([]byte, error)

	// UploadResumeFile 上传待评估的简历，返回对象键
	UploadResumeFile(ctx context.Context, objectKey string, reader io.Reader, size int64) (string, error)
}

var _ ObjectStorage = (*MinIO)(nil)

// MinIO 提供简历对象的读写
type MinIO struct {
	client       *minio.Client
	cfg          *config.MinIOConfig
	resumeBucket string
	logger       *log.Logger
}

// NewMinIO 创建MinIO客户端
func NewMinIO(cfg *config.MinIOConfig, logger *log.Logger) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	bucket := cfg.ResumeBucket
	if bucket == "" {
		bucket = "resumes"
	}
	logger.Printf("[MinIO] Initializing MinIO client with endpoint: %s, resumeBucket: %s", cfg.Endpoint, bucket)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{
		client:       client,
		cfg:          cfg,
		resumeBucket: bucket,
		logger:       logger,
	}

	if err := m.ensureBucketExists(context.Background(), bucket); err != nil {
		return nil, fmt.Errorf("确保简历存储桶 %s 存在失败: %w", bucket, err)
	}

	logger.Printf("[MinIO] Client initialized successfully for endpoint: %s", cfg.Endpoint)
	return m, nil
}

// ensureBucketExists 确保存储桶存在
func (m *MinIO) ensureBucketExists(ctx context.Context, bucketName string) error {
	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在失败: %w", bucketName, err)
	}
	if exists {
		return nil
	}
	m.logger.Printf("[MinIO] Bucket %s does not exist, creating", bucketName)
	if err := m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("创建存储桶 %s 失败: %w", bucketName, err)
	}
	return nil
}

// GetResumeFile 从简历存储桶读取对象
func (m *MinIO) GetResumeFile(ctx context.Context, objectKey string, maxBytes int64) ([]byte, error) {
	bucket, key := m.splitObjectKey(objectKey)
	m.logger.Printf("[MinIO] Getting resume file: Bucket=%s, ObjectKey=%s", bucket, key)

	stat, err := m.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, key)
		}
		return nil, fmt.Errorf("获取对象 %s/%s 状态失败: %w", bucket, key, err)
	}
	if maxBytes > 0 && stat.Size > maxBytes {
		return nil, fmt.Errorf("%w: %s/%s 大小 %d 超过上限 %d", ErrObjectTooLarge, bucket, key, stat.Size, maxBytes)
	}

	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取对象 %s/%s 失败: %w", bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("读取对象 %s/%s 数据失败: %w", bucket, key, err)
	}
	m.logger.Printf("[MinIO] Downloaded %d bytes from %s/%s", len(data), bucket, key)
	return data, nil
}

// UploadResumeFile 上传简历到简历存储桶
func (m *MinIO) UploadResumeFile(ctx context.Context, objectKey string, reader io.Reader, size int64) (string, error) {
	bucket, key := m.splitObjectKey(objectKey)
	info, err := m.client.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentTypeForKey(key),
	})
	if err != nil {
		return "", fmt.Errorf("上传对象 %s/%s 失败: %w", bucket, key, err)
	}
	m.logger.Printf("[MinIO] Uploaded %s/%s (%d bytes)", bucket, key, info.Size)
	return key, nil
}

// splitObjectKey 支持 "bucket/key" 形式，指定的桶必须是简历桶以外的已知桶时才切分
func (m *MinIO) splitObjectKey(objectKey string) (string, string) {
	objectKey = strings.TrimPrefix(objectKey, "/")
	if prefix := m.resumeBucket + "/"; strings.HasPrefix(objectKey, prefix) {
		return m.resumeBucket, strings.TrimPrefix(objectKey, prefix)
	}
	return m.resumeBucket, objectKey
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}

func contentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".html", ".htm":
		return "text/html"
	case ".txt", ".md":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
