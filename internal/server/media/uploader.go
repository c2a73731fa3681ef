// Package media pushes locally staged image files to S3-compatible object
// storage and reports the public URL they are served from.
package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/vidtube/internal/logging"
	sc "github.com/dmitrijs2005/vidtube/internal/server/config"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// UploadResult describes a stored object.
type UploadResult struct {
	Key string
	URL string
}

// Uploader stores a local file remotely. The local file is removed whether
// or not the upload succeeds.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*UploadResult, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader is the Uploader backed by an S3 bucket (MinIO in development).
type S3Uploader struct {
	client    objectPutter
	bucket    string
	publicURL string
	logger    logging.Logger
}

// NewS3Uploader builds the S3 client from the server config.
func NewS3Uploader(ctx context.Context, cfg *sc.Config, logger logging.Logger) (*S3Uploader, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Uploader{
		client:    client,
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(cfg.S3PublicURL, "/"),
		logger:    logger.With("module", "media"),
	}, nil
}

// ObjectKey returns a fresh date-partitioned key keeping the file extension.
func ObjectKey(localPath string) string {
	d := time.Now()
	ext := strings.ToLower(filepath.Ext(localPath))
	return fmt.Sprintf("images/%d/%02d/%02d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

func (u *S3Uploader) Upload(ctx context.Context, localPath string) (*UploadResult, error) {
	if localPath == "" {
		return nil, fmt.Errorf("upload: empty path")
	}

	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			u.logger.Warn(ctx, "failed to remove staged file", "path", localPath, "error", err)
		}
	}()

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer f.Close()

	key := ObjectKey(localPath)
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := u.client.PutObject(ctx, in); err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	u.logger.Debug(ctx, "object uploaded", "key", key)

	return &UploadResult{Key: key, URL: u.publicURL + "/" + key}, nil
}
