package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesMD5(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", BytesMD5(nil))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", BytesMD5([]byte("abc")))
}

func TestIsURL(t *testing.T) {
	assert.True(t, isURL("http://example.com/a.png"))
	assert.True(t, isURL("https://example.com/a.png"))
	assert.False(t, isURL("./images/a.png"))
	assert.False(t, isURL("ftp://example.com/a.png"))
}

func TestReadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("remote bytes"))
	}))
	defer srv.Close()

	data, err := ReadImage(context.Background(), srv.URL+"/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote bytes"), data)

	_, err = ReadImage(context.Background(), srv.URL+"/missing.png")
	assert.ErrorContains(t, err, "status code 404")

	path := filepath.Join(t.TempDir(), "local.png")
	require.NoError(t, os.WriteFile(path, []byte("local bytes"), 0o644))
	data, err = ReadImage(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte("local bytes"), data)
}

func TestNewID(t *testing.T) {
	id := NewID()
	_, err := ksuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewID())
}

func TestInitLoggerAndTrace(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	require.NoError(t, InitLogger("release"))
	assert.NotNil(t, Logger)
	require.NoError(t, InitLogger("debug"))

	done := Trace("unit")
	done()
	Sync()
}
