package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiskBucket(t *testing.T) *DiskBucket {
	t.Helper()
	b, err := NewDiskBucket("wp_bucket", DiskConfig{
		Dir:           t.TempDir(),
		URLBase:       "/files/",
		SigningSecret: "test-secret",
	})
	require.NoError(t, err)
	return b
}

func setupFileRouter(b *DiskBucket, requireToken bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET(b.URLBase()+"/*key", b.Handler(requireToken))
	return r
}

func TestDiskBucketPutOverwrites(t *testing.T) {
	b := newTestDiskBucket(t)
	ctx := context.Background()
	key := "operated_lbs/2025/01/02/abc.jpg"

	require.NoError(t, b.Put(ctx, key, []byte("first"), "image/jpeg"))
	require.NoError(t, b.Put(ctx, key, []byte("second"), "image/jpeg"))

	got, err := os.ReadFile(filepath.Join(b.baseDir, "operated_lbs", "2025", "01", "02", "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestDiskBucketRejectsEscapingKeys(t *testing.T) {
	b := newTestDiskBucket(t)
	for _, key := range []string{"", "/etc/passwd", "../outside.jpg", "a/../../outside.jpg"} {
		err := b.Put(context.Background(), key, []byte("x"), "image/jpeg")
		assert.Error(t, err, key)
	}
}

func TestDiskBucketPublicURL(t *testing.T) {
	b := newTestDiskBucket(t)
	assert.Equal(t, "/files/earthing_points/2025/01/02/a%20b.png", b.PublicURL("earthing_points/2025/01/02/a b.png"))
}

func TestDiskBucketServesPublicFiles(t *testing.T) {
	b := newTestDiskBucket(t)
	require.NoError(t, b.Put(context.Background(), "operated_lbs/x.png", []byte("png-bytes"), "image/png"))
	r := setupFileRouter(b, false)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, b.PublicURL("operated_lbs/x.png"), nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "png-bytes", rr.Body.String())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/files/operated_lbs/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDiskBucketSignedURLs(t *testing.T) {
	b := newTestDiskBucket(t)
	ctx := context.Background()
	require.NoError(t, b.Put(ctx, "operated_lbs/x.png", []byte("png-bytes"), "image/png"))
	require.NoError(t, b.Put(ctx, "operated_lbs/y.png", []byte("other"), "image/png"))
	r := setupFileRouter(b, true)

	signed, err := b.SignedURL(ctx, "operated_lbs/x.png", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "/files/operated_lbs/x.png?token="))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, signed, nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	// unsigned
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/files/operated_lbs/x.png", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// token for x does not open y
	token := signed[strings.Index(signed, "?"):]
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/files/operated_lbs/y.png"+token, nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
