package artifact

import (
	"context"
	"errors"
	"io"

	"github.com/minio/minio-go/v7"
)

// ObjectStore is the subset of the bucket client used to read artifacts.
type ObjectStore interface {
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// ObjectSource reads s3://bucket/key references from an S3-compatible store.
type ObjectSource struct {
	Store ObjectStore
}

func (s ObjectSource) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	bucket, key, err := ParseObjectRef(ref)
	if err != nil {
		return nil, err
	}
	// GetObject is lazy, so stat first to tell a missing object from a broken one.
	if _, err := s.Store.StatObject(ctx, bucket, key, minio.StatObjectOptions{}); err != nil {
		switch minio.ToErrorResponse(err).Code {
		case "NoSuchKey", "NoSuchBucket":
			return nil, errors.Join(ErrNotFound, err)
		}
		return nil, err
	}
	return s.Store.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
}
