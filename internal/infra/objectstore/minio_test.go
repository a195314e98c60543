package objectstore

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{
		Endpoint:  "blobs.example.com:9000",
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "brickshot",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	return s
}

func TestNewRequiresEndpointAndBucket(t *testing.T) {
	_, err := New(Config{Bucket: "b"})
	assert.Error(t, err)
	_, err = New(Config{Endpoint: "localhost:9000"})
	assert.Error(t, err)
}

func TestPresignUpload(t *testing.T) {
	raw, err := testStore(t).PresignUpload(context.Background(), "k-123", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "blobs.example.com:9000", u.Host)
	assert.Equal(t, "/brickshot/k-123", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestPresignDownloadNamesFile(t *testing.T) {
	raw, err := testStore(t).PresignDownload(context.Background(), "k-123", "board one.png", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, `attachment; filename="board one.png"`, u.Query().Get("response-content-disposition"))
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
}
