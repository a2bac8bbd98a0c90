package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// S3Config holds connection settings for an S3-compatible object store
// (AWS S3, MinIO, RustFS, ...).
type S3Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	UsePathStyle bool
}

// S3Store uploads files to an S3-compatible bucket and returns the object URL
// as the opaque reference. Used by the remote backend.
type S3Store struct {
	client   *s3.Client
	bucket   string
	endpoint string
	logger   *zap.Logger
}

// S3Option is a functional option for configuring S3Store.
type S3Option func(*S3Store)

// WithS3Logger sets a custom logger.
func WithS3Logger(logger *zap.Logger) S3Option {
	return func(s *S3Store) { s.logger = logger }
}

// NewS3Store creates an S3Store from configuration.
func NewS3Store(cfg S3Config, opts ...S3Option) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	store := &S3Store{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: endpoint,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Upload stores the file under a date-partitioned key and returns its URL.
func (s *S3Store) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("uploaded file is empty")
	}

	key := fmt.Sprintf("attachments/%s/%s%s",
		time.Now().UTC().Format("2006/01"),
		uuid.NewString(),
		path.Ext(filename),
	)
	contentType := http.DetectContentType(data)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("failed to upload attachment",
			zap.String("key", key),
			zap.Error(err))
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	s.logger.Debug("uploaded attachment",
		zap.String("key", key),
		zap.Int("size", len(data)))

	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
}

// Ensure S3Store implements FileStore
var _ FileStore = (*S3Store)(nil)
