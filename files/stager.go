// Package files holds uploaded attachments. Uploads arrive before the case
// row exists, keyed by the pending case's uuid; once the case is persisted
// they are moved under its case number.
package files

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/civictech-tw/casework/models"
	"github.com/google/uuid"
	minioSDK "github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Stager is the staging boundary the lifecycle engine depends on.
type Stager interface {
	Stage(ctx context.Context, pendingKey uuid.UUID, filename, contentType string, r io.Reader, size int64) error
	// Migrate moves every staged object of pendingKey into the case's
	// storage and returns how many were moved.
	Migrate(ctx context.Context, pendingKey uuid.UUID, c *models.Case) (int, error)
}

// MinioStager implements Stager on the shared MinIO bucket.
type MinioStager struct {
	log *zap.Logger
}

func NewMinioStager(log *zap.Logger) *MinioStager {
	return &MinioStager{log: log}
}

func StagingKey(pendingKey uuid.UUID, filename string) string {
	return fmt.Sprintf("staging/%s/%s", pendingKey, path.Base(filename))
}

func CaseKey(number, filename string) string {
	return fmt.Sprintf("cases/%s/%s", number, path.Base(filename))
}

func (s *MinioStager) Stage(ctx context.Context, pendingKey uuid.UUID, filename, contentType string, r io.Reader, size int64) error {
	_, err := Client.PutObject(ctx, BucketName, StagingKey(pendingKey, filename), r, size, minioSDK.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *MinioStager) Migrate(ctx context.Context, pendingKey uuid.UUID, c *models.Case) (int, error) {
	prefix := fmt.Sprintf("staging/%s/", pendingKey)
	objects := Client.ListObjects(ctx, BucketName, minioSDK.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	moved := 0
	for object := range objects {
		if object.Err != nil {
			return moved, object.Err
		}

		dest := CaseKey(c.Number, path.Base(object.Key))
		_, err := Client.CopyObject(ctx,
			minioSDK.CopyDestOptions{Bucket: BucketName, Object: dest},
			minioSDK.CopySrcOptions{Bucket: BucketName, Object: object.Key},
		)
		if err != nil {
			return moved, fmt.Errorf("copy %s: %w", object.Key, err)
		}
		if err := Client.RemoveObject(ctx, BucketName, object.Key, minioSDK.RemoveObjectOptions{}); err != nil {
			return moved, fmt.Errorf("remove %s: %w", object.Key, err)
		}

		moved++
		s.log.Debug("staged file migrated",
			zap.String("from", object.Key),
			zap.String("to", dest),
		)
	}
	return moved, nil
}
