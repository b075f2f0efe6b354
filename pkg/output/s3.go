package output

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-normal-raytracer/pkg/core"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 10 * time.Second

// S3Config describes an S3-compatible bucket for rendered images
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string // Empty for AWS itself
	Region    string
	Bucket    string
	Prefix    string // Key prefix, e.g. "renders"
	PublicURL string // Base URL objects are served from (optional)
}

// Enabled reports whether enough settings are present to upload
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.Region != ""
}

// objectPutter is the part of the S3 API the uploader needs
type objectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// S3Uploader puts encoded images into a bucket
type S3Uploader struct {
	client objectPutter
	config S3Config
	logger core.Logger
}

// NewS3Uploader creates an uploader with static credentials
func NewS3Uploader(config S3Config, logger core.Logger) (*S3Uploader, error) {
	if !config.Enabled() {
		return nil, fmt.Errorf("s3 upload needs a bucket and region")
	}

	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return newS3Uploader(s3.New(sess), config, logger), nil
}

func newS3Uploader(client objectPutter, config S3Config, logger core.Logger) *S3Uploader {
	return &S3Uploader{client: client, config: config, logger: logger}
}

// Key returns the object key for a file name, including the prefix
func (u *S3Uploader) Key(name string) string {
	prefix := strings.Trim(u.config.Prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// Upload stores data under name and returns where it can be found
func (u *S3Uploader) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	key := u.Key(name)
	size := int64(len(data))
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if u.logger != nil {
		u.logger.Printf("Uploaded %s to S3 (%d bytes)\n", key, size)
	}
	return u.Location(key), nil
}

// Location returns the public URL of key, or an s3:// URI when no public
// URL is configured
func (u *S3Uploader) Location(key string) string {
	if u.config.PublicURL != "" {
		return strings.TrimRight(u.config.PublicURL, "/") + "/" + key
	}
	return fmt.Sprintf("s3://%s/%s", u.config.Bucket, key)
}
