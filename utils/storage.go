package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/princinho/eventbackend/database"
	"google.golang.org/api/option"
)

// ImageStore persists account avatars and returns a reference to them.
type ImageStore interface {
	SaveAvatar(ctx context.Context, accountID, avatar string) (string, error)
}

// CollectionImageStore keeps avatars as documents in the Images collection.
type CollectionImageStore struct {
	images  database.Collection
	factory *Factory
}

func NewCollectionImageStore(images database.Collection, factory *Factory) *CollectionImageStore {
	return &CollectionImageStore{images: images, factory: factory}
}

func (s *CollectionImageStore) SaveAvatar(ctx context.Context, _ string, avatar string) (string, error) {
	image := s.factory.CreateImage(avatar)
	if err := s.images.Insert(ctx, image); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return "images/" + image.ID, nil
}

// R2Client wraps the S3 client + bucket name for Cloudflare R2.
type R2Client struct {
	S3           *s3.Client
	Bucket       string
	PublicDomain string
}

func NewR2Client(ctx context.Context, bucket, accessKey, secretKey, endpoint, publicDomain string) (*R2Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true // required for R2
	})

	return &R2Client{S3: client, Bucket: bucket, PublicDomain: strings.TrimRight(publicDomain, "/")}, nil
}

func (r *R2Client) SaveAvatar(ctx context.Context, accountID, avatar string) (string, error) {
	data, contentType := DecodeImage(avatar)
	objectName := avatarObjectName(accountID, contentType)

	_, err := r.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(r.Bucket),
		Key:          aws.String(objectName),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", r.PublicDomain, r.Bucket, objectName), nil
}

// GCSImageStore uploads avatars to a Google Cloud Storage bucket.
type GCSImageStore struct {
	client *storage.Client
	bucket string
}

// NewGCSImageStore authenticates with the service account file at
// credentialsPath, relative to the working directory, or with the ambient
// credentials when the path is empty.
func NewGCSImageStore(ctx context.Context, bucket, credentialsPath string) (*GCSImageStore, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, filepath.Join(wd, credentialsPath)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCSImageStore{client: client, bucket: bucket}, nil
}

func (g *GCSImageStore) SaveAvatar(ctx context.Context, accountID, avatar string) (string, error) {
	data, contentType := DecodeImage(avatar)
	objectName := avatarObjectName(accountID, contentType)

	ctx, cancel := context.WithTimeout(ctx, 50*time.Second)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "no-cache"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload write: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload close: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, objectName), nil
}

func (g *GCSImageStore) Close() error {
	return g.client.Close()
}

// DecodeImage unpacks a base64 data URL. Anything else is stored verbatim.
func DecodeImage(avatar string) ([]byte, string) {
	const octetStream = "application/octet-stream"
	header, payload, ok := strings.Cut(avatar, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return []byte(avatar), octetStream
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return []byte(avatar), octetStream
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if contentType == "" {
		contentType = octetStream
	}
	return data, contentType
}

func avatarObjectName(accountID, contentType string) string {
	ext := ".bin"
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	return fmt.Sprintf("avatars/%s/%d-%s%s", accountID, time.Now().UTC().Unix(), uuid.New().String(), ext)
}
