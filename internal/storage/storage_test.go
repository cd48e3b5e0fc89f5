package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"vitaltrack/fitness-app/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarKey(t *testing.T) {
	key, err := AvatarKey("u1", "image/PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "avatars/u1/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	other, err := AvatarKey("u1", "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)

	_, err = AvatarKey("u1", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000", endpointURL("localhost:9000", false))
	assert.Equal(t, "https://s3.example.com", endpointURL("s3.example.com", true))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
}

// Presigning is local: no request reaches the endpoint.
func TestS3Storage_PresignedURLs(t *testing.T) {
	store, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test-secret",
		BucketName:      "avatars",
	})
	require.NoError(t, err)

	upload, err := store.GeneratePresignedUploadURL(context.Background(), "avatars/u1/a.png", "image/png", 5*time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(upload)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/avatars/avatars/u1/a.png", u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))

	download, err := store.GeneratePresignedDownloadURL(context.Background(), "avatars/u1/a.png", 0)
	require.NoError(t, err)
	d, err := url.Parse(download)
	require.NoError(t, err)
	assert.Equal(t, "900", d.Query().Get("X-Amz-Expires"))
}
