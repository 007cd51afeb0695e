package sink

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Mirror uploads finished station files to S3-compatible object storage.
// A custom endpoint makes it work against Cloudflare R2 and MinIO as well
// as AWS.
type Mirror struct {
	client *s3.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewMirror creates a mirror with static credentials. endpoint may be
// empty for AWS S3 proper.
func NewMirror(accessKeyID, secretAccessKey, endpoint, bucket, region, prefix string, logger *slog.Logger) *Mirror {
	opts := s3.Options{
		Credentials:  credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		Region:       region,
		UsePathStyle: true,
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	}

	return &Mirror{
		client: s3.New(opts),
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Upload copies one local file to the bucket under prefix+basename and
// returns the object key.
func (m *Mirror) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s for upload: %w", localPath, err)
	}
	defer f.Close()

	key := m.prefix + filepath.Base(localPath)
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	m.logger.Info("mirrored station file", "key", key, "bucket", m.bucket)
	return key, nil
}
