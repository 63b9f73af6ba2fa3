package filepool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"notebook/internal/notebook/ports/storage"
	"notebook/pkg/logger"
)

// S3API - используемое подмножество клиента S3.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options - параметры подключения к бакету.
type S3Options struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	KeyPrefix    string
	UsePathStyle bool
}

// S3 хранит файлы пула как объекты бакета под общим префиксом ключа.
type S3 struct {
	client    S3API
	bucket    string
	keyPrefix string
}

// NewS3Client строит клиент S3 со статическими учетными данными.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey, opts.SecretKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	}), nil
}

// NewS3 создает пул поверх клиента.
func NewS3(client S3API, bucket, keyPrefix string) *S3 {
	return &S3{client: client, bucket: bucket, keyPrefix: keyPrefix}
}

func (p *S3) Write(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(p.key(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		logger.Log(ctx).Error(ctx, "failed to put object", zap.String("name", name), zap.Error(err))
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// Remove удаляет объект. S3 не сообщает об отсутствии ключа при удалении.
func (p *S3) Remove(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key(name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil
		}
		logger.Log(ctx).Error(ctx, "failed to delete object", zap.String("name", name), zap.Error(err))
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// FindByPrefix возвращает первый ключ с префиксом; S3 отдает ключи по возрастанию.
func (p *S3) FindByPrefix(ctx context.Context, prefix string) (string, bool, error) {
	out, err := p.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(p.bucket),
		Prefix:  aws.String(p.key(prefix)),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to list objects: %w", err)
	}
	for _, obj := range out.Contents {
		name := strings.TrimPrefix(aws.ToString(obj.Key), p.keyPrefix)
		if name != "" && !strings.Contains(name, "/") {
			return name, true, nil
		}
	}
	return "", false, nil
}

func (p *S3) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.key(name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, storage.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return out.Body, nil
}

func (p *S3) key(name string) string {
	return p.keyPrefix + name
}
