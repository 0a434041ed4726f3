package blob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	id "warden/pkg/domain"
	"warden/pkg/platform/sentinel"
)

const uploadURLTTL = 15 * time.Minute

// GCSStore stores biometric captures in a Google Cloud Storage bucket. Upload
// URLs are V4 signed PUT URLs; the object name doubles as the storage
// reference.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) GenerateUploadURL(_ context.Context) (string, id.StorageRef, error) {
	object := fmt.Sprintf("captures/%s", uuid.NewString())

	url, err := s.client.Bucket(s.bucket).SignedURL(object, &storage.SignedURLOptions{
		Method:  "PUT",
		Expires: time.Now().Add(uploadURLTTL),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		return "", "", fmt.Errorf("sign upload url: %w: %w", sentinel.ErrUnavailable, err)
	}

	return url, id.StorageRef(object), nil
}

func (s *GCSStore) Delete(ctx context.Context, ref id.StorageRef) error {
	err := s.client.Bucket(s.bucket).Object(ref.String()).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete object %s: %w: %w", ref, sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
