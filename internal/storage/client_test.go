package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"heartrisk/internal/storage"
	"heartrisk/internal/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Region:    "us-east-1",
		})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithScheme", func(t *testing.T) {
		client, err := storage.NewClient(storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
		})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("Enabled", func(t *testing.T) {
		assert.False(t, storage.Config{}.Enabled())
		assert.True(t, storage.Config{Endpoint: "localhost:9000"}.Enabled())
	})
}

func writeTemp(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))
	return path
}

func TestUploadFile(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesMissingBucket", func(t *testing.T) {
		path := writeTemp(t)
		c := new(mocks.Client)
		c.On("BucketExists", mock.Anything, "models").Return(false, nil)
		c.On("MakeBucket", mock.Anything, "models", mock.Anything).Return(nil)
		c.On("PutObject", mock.Anything, "models", "heart/model.gob", mock.Anything, int64(7), mock.Anything).
			Return(minio.UploadInfo{Bucket: "models", Key: "heart/model.gob", Size: 7}, nil)

		info, err := storage.UploadFile(ctx, c, "models", "heart/model.gob", path)
		require.NoError(t, err)
		assert.Equal(t, int64(7), info.Size)
		c.AssertExpectations(t)
	})

	t.Run("ExistingBucket", func(t *testing.T) {
		path := writeTemp(t)
		c := new(mocks.Client)
		c.On("BucketExists", mock.Anything, "models").Return(true, nil)
		c.On("PutObject", mock.Anything, "models", "m.gob", mock.Anything, int64(7), mock.Anything).
			Return(minio.UploadInfo{}, nil)

		_, err := storage.UploadFile(ctx, c, "models", "m.gob", path)
		require.NoError(t, err)
		c.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BucketCheckFails", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("BucketExists", mock.Anything, "models").Return(false, errors.New("denied"))

		_, err := storage.UploadFile(ctx, c, "models", "m.gob", "unused")
		assert.ErrorContains(t, err, "denied")
	})
}
