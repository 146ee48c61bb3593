package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/groupware-kr/calendar-service/internal/domain"
)

// S3Client wraps the AWS S3 client for MinIO/R2-compatible storage. Event
// attachments (meeting material, donation receipts) are uploaded straight
// from the browser via presigned PUT URLs.
type S3Client struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	log       zerolog.Logger
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

func NewS3Client(cfg S3Config, log zerolog.Logger) (*S3Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint == "" {
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}
		return aws.Endpoint{
			URL:               cfg.Endpoint,
			HostnameImmutable: true,
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Client{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		log:       log,
	}, nil
}

// PresignUpload returns a presigned PUT URL for one attachment of the
// given event. The object key is generated here so clients can never
// choose their own path.
func (c *S3Client) PresignUpload(ctx context.Context, eventID, filename, contentType string, expiry time.Duration) (url, key string, err error) {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 {
		return "", "", domain.ErrValidation("unrecognized file extension")
	}
	key = fmt.Sprintf("calendar/%s/%s%s", eventID, uuid.NewString(), ext)

	req, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("presign upload failed")
		return "", "", err
	}
	return req.URL, key, nil
}

// PresignDownload returns a presigned GET URL for a stored attachment.
func (c *S3Client) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("presign download failed")
		return "", err
	}
	return req.URL, nil
}

// Delete removes an attachment object; used when its event is removed.
func (c *S3Client) Delete(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	return err
}
