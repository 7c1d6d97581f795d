// ===============================
// internal/storage/r2.go - Cloudflare R2 media bucket
// ===============================

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"luemtv/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog"
)

// ErrForeignURL is returned for URLs that do not point into the bucket.
var ErrForeignURL = errors.New("url is not served from this bucket")

type R2Client struct {
	client     *s3.S3
	bucketName string
	publicURL  string
	logger     zerolog.Logger
}

// NewR2Client builds an S3 client against the account's R2 endpoint.
func NewR2Client(cfg config.R2Config, logger zerolog.Logger) (*R2Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("auto"),
		Endpoint:         aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create R2 session: %w", err)
	}

	return &R2Client{
		client:     s3.New(sess),
		bucketName: cfg.BucketName,
		publicURL:  strings.TrimRight(cfg.PublicURL, "/"),
		logger:     logger.With().Str("component", "r2").Logger(),
	}, nil
}

func (r *R2Client) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) error {
	_, err := r.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucketName),
		Key:         aws.String(key),
		Body:        aws.ReadSeekCloser(file),
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return fmt.Errorf("upload %s to R2: %w", key, err)
	}

	r.logger.Info().Str("key", key).Str("content_type", contentType).Msg("Object uploaded")
	return nil
}

// DeleteFile removes key. Deleting a missing key succeeds.
func (r *R2Client) DeleteFile(ctx context.Context, key string) error {
	exists, err := r.FileExists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	_, err = r.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s from R2: %w", key, err)
	}

	r.logger.Info().Str("key", key).Msg("Object deleted")
	return nil
}

func (r *R2Client) GetPublicURL(key string) string {
	return PublicURL(r.publicURL, key)
}

// KeyFromURL recovers the object key from one of our public URLs.
func (r *R2Client) KeyFromURL(url string) (string, error) {
	return KeyFromURL(r.publicURL, url)
}

func (r *R2Client) FileExists(ctx context.Context, key string) (bool, error) {
	_, err := r.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == "NotFound" || aerr.Code() == s3.ErrCodeNoSuchKey) {
			return false, nil
		}
		return false, fmt.Errorf("head %s: %w", key, err)
	}
	return true, nil
}

func PublicURL(base, key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(base, "/"), strings.TrimLeft(key, "/"))
}

func KeyFromURL(base, url string) (string, error) {
	prefix := strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", ErrForeignURL
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", ErrForeignURL
	}
	return key, nil
}
