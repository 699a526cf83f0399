// Package backup copies backup files to S3-compatible object storage using
// presigned URLs.
package backup

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/arsip/internal/config"
	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/netx"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	uploadToPresignedURL = netx.UploadToPresignedURL

	now = time.Now
)

const (
	presignTTL  = 15 * time.Minute
	contentType = "application/json"
)

// Uploaded describes a stored backup object.
type Uploaded struct {
	Key         string
	DownloadURL string
}

// S3Uploader copies backups to an S3-compatible bucket through presigned
// URLs.
type S3Uploader struct {
	cfg        *config.Config
	httpClient *http.Client
	log        logging.Logger
}

// NewS3Uploader returns an uploader for the bucket configured in cfg.
func NewS3Uploader(cfg *config.Config, log logging.Logger) *S3Uploader {
	return &S3Uploader{cfg: cfg, httpClient: http.DefaultClient, log: log.With("module", "backup")}
}

// ObjectKey places a backup file under a dated prefix with a random
// component so repeated uploads on one day never collide.
func ObjectKey(name string, t time.Time) string {
	return fmt.Sprintf("backups/%04d/%02d/%02d/%s-%s", t.Year(), int(t.Month()), t.Day(), uuid.NewString(), path.Base(name))
}

func (u *S3Uploader) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(u.cfg.S3Region)}
	if u.cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(u.cfg.S3AccessKey, u.cfg.S3SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if u.cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(u.cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return newS3PresignClient(client), nil
}

// Upload stores data under a fresh key and returns a presigned download URL.
func (u *S3Uploader) Upload(ctx context.Context, name string, data []byte) (Uploaded, error) {
	pc, err := u.presignClient(ctx)
	if err != nil {
		return Uploaded{}, err
	}

	bucket := u.cfg.S3Bucket
	key := ObjectKey(name, now())

	put, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return Uploaded{}, fmt.Errorf("presign put: %w", err)
	}

	if err := uploadToPresignedURL(ctx, u.httpClient, put.URL, data, contentType); err != nil {
		return Uploaded{}, err
	}

	get, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return Uploaded{}, fmt.Errorf("presign get: %w", err)
	}

	u.log.Info(ctx, "backup uploaded", "bucket", bucket, "key", key, "bytes", len(data))
	return Uploaded{Key: key, DownloadURL: get.URL}, nil
}
