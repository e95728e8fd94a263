// Package media реализует работу с удаленным хранилищем изображений курсов
// поверх S3-совместимого API (AWS S3, MinIO).
//
// Upload загружает изображение и возвращает публичную ссылку, Destroy удаляет
// объект по сохраненной ссылке. Вызывающая сторона трактует ошибки Destroy
// как некритичные: они логируются и не прерывают основную операцию.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/course-catalog/internal/config"
)

// ImageFolder префикс, под которым хранятся все изображения курсов.
const ImageFolder = "course-images"

// Storage клиент удаленного хранилища изображений.
type Storage struct {
	client   *s3.Client
	endpoint string
	bucket   string
}

// New создает клиент S3 по настройкам из конфига.
func New(cfg config.S3Storage) (*Storage, error) {
	const op = "media.New"

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &Storage{
		client:   client,
		endpoint: cfg.S3Endpoint,
		bucket:   cfg.S3Bucket,
	}, nil
}

// Upload загружает изображение в хранилище и возвращает публичную ссылку.
// Объект хранится под ключом course-images/<uuid> без расширения,
// расширение присутствует только в ссылке.
func (s *Storage) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	const op = "media.Upload"

	key := fmt.Sprintf("%s/%s", ImageFolder, uuid.New())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	locator := fmt.Sprintf("%s/%s/%s%s", s.endpoint, s.bucket, key, path.Ext(filename))
	return locator, nil
}

// Destroy удаляет изображение по сохраненной ссылке.
func (s *Storage) Destroy(ctx context.Context, locator string) error {
	const op = "media.Destroy"

	key := KeyFromLocator(locator)
	if key == "" {
		return fmt.Errorf("%s: cannot derive storage key from %q", op, locator)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// KeyFromLocator выделяет ключ объекта из сохраненной ссылки:
// последний сегмент пути без расширения, под префиксом course-images.
func KeyFromLocator(locator string) string {
	if locator == "" {
		return ""
	}
	parts := strings.Split(locator, "/")
	filename := parts[len(parts)-1]
	if filename == "" {
		return ""
	}
	name := strings.SplitN(filename, ".", 2)[0]
	return fmt.Sprintf("%s/%s", ImageFolder, name)
}
