package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apperrors "speech-insight/internal/app/errors"
)

// MinIOConfig holds the object storage connection settings
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOStore keeps files as objects in a single bucket
type MinIOStore struct {
	client *minio.Client
	bucket string
}

var _ FileStore = (*MinIOStore)(nil)

// NewMinIOStore connects and creates the bucket when it does not exist
func NewMinIOStore(ctx context.Context, config MinIOConfig) (*MinIOStore, error) {
	if config.Endpoint == "" {
		return nil, apperrors.RequiredField("MINIO_ENDPOINT")
	}
	if config.Bucket == "" {
		return nil, apperrors.RequiredField("MINIO_BUCKET")
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStore{client: client, bucket: config.Bucket}, nil
}

// Backend implements FileStore
func (s *MinIOStore) Backend() string {
	return "minio"
}

// Save uploads r under the object key name. size may be -1 when unknown.
func (s *MinIOStore) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	mime, body, err := sniffContentType(name, r)
	if err != nil {
		return "", apperrors.ErrFileWriteFailed.With(fmt.Errorf("failed to read upload: %w", err))
	}

	_, err = s.client.PutObject(ctx, s.bucket, name, body, size, minio.PutObjectOptions{
		ContentType: mime,
		UserMetadata: map[string]string{
			"uploaded-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", apperrors.ErrFileWriteFailed.With(fmt.Errorf("failed to upload file to MinIO: %w", err))
	}
	return name, nil
}

// Open implements FileStore
func (s *MinIOStore) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, location, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	// GetObject is lazy; Stat surfaces a missing key.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, apperrors.ErrFileNotFound.With(fmt.Errorf("%s", location))
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}
	return obj, nil
}

// Delete implements FileStore
func (s *MinIOStore) Delete(ctx context.Context, location string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, location, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// sniffHeaderBytes matches the amount of data mimetype inspects by default
const sniffHeaderBytes = 3072

// sniffContentType detects an audio MIME type from the first bytes of r and
// falls back to the file extension. The returned reader yields all of r.
func sniffContentType(name string, r io.Reader) (string, io.Reader, error) {
	header := make([]byte, sniffHeaderBytes)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	header = header[:n]
	body := io.MultiReader(bytes.NewReader(header), r)

	if detected := mimetype.Detect(header); strings.HasPrefix(detected.String(), "audio/") {
		return detected.String(), body, nil
	}
	return contentType(name), body, nil
}

func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	}
	return "application/octet-stream"
}
