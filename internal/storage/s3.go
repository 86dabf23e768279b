package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/campuscms/course-service/internal/config"
)

// Folder prefixes inside the bucket.
const (
	ProfileFolder   = "profiles"
	ThumbnailFolder = "thumbnails"
)

// ObjectStorage abstracts the media store so services can be tested with a
// fake.
type ObjectStorage interface {
	Upload(key string, body io.Reader, contentType string) (string, error)
	Delete(fileURL string) error
}

// S3Client implements ObjectStorage on top of AWS S3 (or MinIO).
type S3Client struct {
	s3Client *s3.S3
	bucket   string
}

func NewS3Client(cfg *config.Config) (*S3Client, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	}

	// Support MinIO for local development
	if cfg.AWS.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.AWS.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Client{
		s3Client: s3.New(sess),
		bucket:   cfg.AWS.Bucket,
	}, nil
}

// Upload stores the object and returns its public URL.
func (c *S3Client) Upload(key string, body io.Reader, contentType string) (string, error) {
	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, body); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	_, err := c.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	// MinIO URL format when a custom endpoint is set
	endpoint := aws.StringValue(c.s3Client.Config.Endpoint)
	if endpoint != "" && !strings.Contains(endpoint, "amazonaws.com") {
		endpoint = strings.TrimPrefix(endpoint, "http://")
		endpoint = strings.TrimPrefix(endpoint, "https://")
		return fmt.Sprintf("https://%s/%s/%s", endpoint, c.bucket, key), nil
	}

	// AWS S3 URL format
	region := aws.StringValue(c.s3Client.Config.Region)
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, region, key), nil
}

// Delete removes the object behind a previously returned URL.
func (c *S3Client) Delete(fileURL string) error {
	key, err := KeyFromURL(fileURL, c.bucket)
	if err != nil {
		return err
	}

	_, err = c.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// ObjectKey builds a collision-free key for an uploaded file, preserving its
// extension.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)
}

// KeyFromURL extracts the object key from both AWS virtual-hosted URLs
// (https://bucket.s3.region.amazonaws.com/key) and path-style MinIO URLs
// (https://host/bucket/key).
func KeyFromURL(fileURL, bucket string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("invalid file url: %w", err)
	}

	path := strings.TrimPrefix(parsed.Path, "/")
	if path == "" {
		return "", fmt.Errorf("file url has no object key")
	}

	if strings.HasPrefix(parsed.Host, bucket+".") {
		return path, nil
	}

	if strings.HasPrefix(path, bucket+"/") {
		return strings.TrimPrefix(path, bucket+"/"), nil
	}

	return path, nil
}
