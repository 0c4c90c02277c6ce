package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	CustomDomain    string
	// PresignTTL applies to private locations only.
	PresignTTL time.Duration
}

// S3 stores objects under <prefix>/ in an S3-compatible bucket.
type S3 struct {
	client   *s3.Client
	presign  *s3.PresignClient
	uploader *manager.Uploader
	cfg      S3Config
	location Location
}

// NewS3Client builds a path-style client for cfg and makes sure the bucket
// exists.
func NewS3Client(ctx context.Context, cfg S3Config, log *slog.Logger) (*s3.Client, error) {
	if cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("s3 bucket and credentials must be set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config failed: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := cfg.endpointURL(); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	if err := ensureBucket(ctx, client, cfg, log); err != nil {
		return nil, err
	}
	return client, nil
}

func NewS3(client *s3.Client, cfg S3Config, loc Location) *S3 {
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = time.Hour
	}
	return &S3{
		client:   client,
		presign:  s3.NewPresignClient(client),
		uploader: manager.NewUploader(client),
		cfg:      cfg,
		location: loc,
	}
}

func (s *S3) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}

	if !s.location.Overwrite {
		exists, err := s.exists(ctx, objectKey)
		if err != nil {
			return err
		}
		if exists {
			return ErrObjectExists
		}
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(objectKey),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	}
	if s.location.Public {
		input.ACL = types.ObjectCannedACLPublicRead
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("upload object %s failed: %w", objectKey, err)
	}
	return nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("delete object %s failed: %w", objectKey, err)
	}
	return nil
}

// URL returns a plain URL for public locations and a pre-signed GET URL for
// private ones.
func (s *S3) URL(ctx context.Context, key string) (string, error) {
	objectKey, err := s.objectKey(key)
	if err != nil {
		return "", err
	}

	if !s.location.Public {
		req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(objectKey),
		}, s3.WithPresignExpires(s.cfg.PresignTTL))
		if err != nil {
			return "", fmt.Errorf("presign object %s failed: %w", objectKey, err)
		}
		return req.URL, nil
	}

	escaped := (&url.URL{Path: objectKey}).EscapedPath()
	switch {
	case s.cfg.CustomDomain != "":
		return fmt.Sprintf("https://%s/%s", strings.TrimRight(s.cfg.CustomDomain, "/"), escaped), nil
	case s.cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", s.cfg.endpointURL(), s.cfg.Bucket, escaped), nil
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, escaped), nil
	}
}

func (s *S3) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.cfg.Bucket)})
	if err != nil {
		return fmt.Errorf("head bucket %s failed: %w", s.cfg.Bucket, err)
	}
	return nil
}

func (s *S3) objectKey(key string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return s.location.Prefix + "/" + key, nil
}

func (s *S3) exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(objectKey),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("head object %s failed: %w", objectKey, err)
}

func (c S3Config) endpointURL() string {
	if c.Endpoint == "" {
		return ""
	}
	if strings.HasPrefix(c.Endpoint, "http://") || strings.HasPrefix(c.Endpoint, "https://") {
		return strings.TrimRight(c.Endpoint, "/")
	}
	if c.UseSSL {
		return "https://" + c.Endpoint
	}
	return "http://" + c.Endpoint
}

func ensureBucket(ctx context.Context, client *s3.Client, cfg S3Config, log *slog.Logger) error {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := client.HeadBucket(checkCtx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)})
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("head bucket %s failed: %w", cfg.Bucket, err)
	}

	log.Info("bucket not found, creating", "bucket", cfg.Bucket)
	input := &s3.CreateBucketInput{Bucket: aws.String(cfg.Bucket)}
	if cfg.Region != "" && cfg.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(cfg.Region),
		}
	}
	if _, err := client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("create bucket %s failed: %w", cfg.Bucket, err)
	}

	waiter := s3.NewBucketExistsWaiter(client)
	if err := waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}, 30*time.Second); err != nil {
		return fmt.Errorf("wait for bucket %s failed: %w", cfg.Bucket, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == 404
}
