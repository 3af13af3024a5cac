package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/coupleswish/wishes-backend/config"
	"github.com/coupleswish/wishes-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	WishImageFolder = "wishes"
	presignExpiry   = 15 * time.Minute
)

// AllowedImageTypes lists the content types accepted for wish images.
var AllowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	region  string
	baseURL string
}

type PresignedURLResponse struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewS3Storage builds the uploader. Static credentials are used when both
// keys are set, otherwise the default AWS credential chain.
func NewS3Storage(ctx context.Context, cfg *config.S3Config) *S3Storage {
	var awsCfg aws.Config
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			),
		}
	} else {
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Falling back to region-only AWS config", map[string]interface{}{
				"error": err.Error(),
			})
			loaded = aws.Config{Region: cfg.Region}
		}
		awsCfg = loaded
	}

	client := s3.NewFromConfig(awsCfg)

	logger.Info("S3 storage configured", map[string]interface{}{
		"bucket": cfg.Bucket,
		"region": cfg.Region,
	})

	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// ObjectKey returns a fresh key under folder, keeping the file extension.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)
}

// PresignWishImage returns a PUT url for uploading an image of a couple's wish.
func (s *S3Storage) PresignWishImage(ctx context.Context, coupleID uint, filename, contentType string) (*PresignedURLResponse, error) {
	folder := fmt.Sprintf("%s/%d", WishImageFolder, coupleID)
	return s.GeneratePresignedURLWithFolder(ctx, filename, contentType, folder)
}

// GeneratePresignedURLWithFolder generates a pre-signed URL for uploading a file to folder.
func (s *S3Storage) GeneratePresignedURLWithFolder(ctx context.Context, filename, contentType, folder string) (*PresignedURLResponse, error) {
	key := ObjectKey(folder, filename)

	presignedReq, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: presignedReq.URL,
		FileURL:   s.FileURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpiry).UTC(),
	}, nil
}

// FileURL is the public address of key, through BaseURL when configured.
func (s *S3Storage) FileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// ValidateContentType validates the content type
func (s *S3Storage) ValidateContentType(contentType string, allowedTypes []string) error {
	if slices.Contains(allowedTypes, strings.ToLower(contentType)) {
		return nil
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}
