package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

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
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
)

// S3Options configures S3Store. Endpoint may point at MinIO; path-style
// addressing is always used.
type S3Options struct {
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	Bucket    string
	Expiry    time.Duration
}

type S3Store struct {
	opts S3Options
}

func NewS3Store(opts S3Options) *S3Store {
	if opts.Expiry <= 0 {
		opts.Expiry = 15 * time.Minute
	}
	return &S3Store{opts: opts}
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.opts.AccessKey,
			s.opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.opts.Endpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// PresignPut signs an upload bound to the declared content type and size.
func (s *S3Store) PresignPut(ctx context.Context, key string, meta models.FileMeta) (*models.PresignedURL, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	req, err := presignPutObject(newS3PresignClient(client), ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(meta.ContentType),
		ContentLength: aws.Int64(meta.FileSize),
	}, s3.WithPresignExpires(s.opts.Expiry))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &models.PresignedURL{URL: req.URL, Method: http.MethodPut, ExpiresAt: timeNow().Add(s.opts.Expiry)}, nil
}

// PresignGet signs a download that the browser saves under fileName.
func (s *S3Store) PresignGet(ctx context.Context, key, fileName string) (*models.PresignedURL, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	in := &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}
	if fileName != "" {
		in.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", fileName))
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, in, s3.WithPresignExpires(s.opts.Expiry))
	if err != nil {
		return nil, fmt.Errorf("presign get: %w", err)
	}

	return &models.PresignedURL{URL: req.URL, Method: http.MethodGet, ExpiresAt: timeNow().Add(s.opts.Expiry)}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
