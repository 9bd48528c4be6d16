package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	appconfig "estate-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Moderator screens an uploaded photo before it is attached to a listing.
// The actual classifier (room type, NSFW) runs as an external service; the
// backend only consumes its verdict.
type Moderator interface {
	Approve(ctx context.Context, objectKey string) (bool, string, error)
}

// NoopModerator approves everything (development default).
type NoopModerator struct{}

func (NoopModerator) Approve(ctx context.Context, objectKey string) (bool, string, error) {
	return true, "", nil
}

// Store uploads listing photos to S3-compatible storage and hands out
// short-lived presigned URLs for display.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

func NewStore(cfg *appconfig.Config) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3.AccessKey,
			cfg.S3.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.S3.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure S3 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
	})

	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.S3.Bucket,
	}, nil
}

// Upload stores a photo under listings/<propertyID>/<name> and returns the
// object key.
func (s *Store) Upload(ctx context.Context, propertyID int, name string, body io.Reader, contentType string) (string, error) {
	key := fmt.Sprintf("listings/%d/%s", propertyID, name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	log.Printf("[Media] Uploaded %s", key)
	return key, nil
}

// PresignGet returns a 15 minute download URL for one object key
func (s *Store) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign photo URL: %w", err)
	}
	return req.URL, nil
}

// Delete removes an object (listing deletion cleanup)
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
