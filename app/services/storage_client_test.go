package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoKeys(t *testing.T) {
	assert.Equal(t, "7/abc-123.jpg", PhotoKey(7, "abc-123", "jpg"))
	assert.Equal(t, "7/abc-123.jpg", PhotoKey(7, "abc-123", ".jpg"))
	assert.Equal(t, "7/abc-123/extra_2.png", ExtraPhotoKey(7, "abc-123", 2, ".png"))
}

func TestStorageClientUpload(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotPath, gotContentType, gotAuth string
		var gotBody []byte

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			gotPath = r.URL.Path
			gotContentType = r.Header.Get("Content-Type")
			gotAuth = r.Header.Get("Authorization")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := NewStorageClient(server.URL, "photos", "secret-token", "https://cdn.example.pf", 5*time.Second)
		url, err := client.Upload(context.Background(), "7/rec.jpg", []byte("jpeg-bytes"), "image/jpeg")
		require.NoError(t, err)

		assert.Equal(t, "/photos/7/rec.jpg", gotPath)
		assert.Equal(t, "image/jpeg", gotContentType)
		assert.Equal(t, "Bearer secret-token", gotAuth)
		assert.Equal(t, []byte("jpeg-bytes"), gotBody)
		assert.Equal(t, "https://cdn.example.pf/7/rec.jpg", url)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewStorageClient(server.URL, "photos", "", "https://cdn.example.pf", 5*time.Second)
		_, err := client.Upload(context.Background(), "7/rec.jpg", []byte("x"), "image/jpeg")
		require.Error(t, err)
	})
}

func TestStorageClientDelete(t *testing.T) {
	t.Run("MissingObjectIsNotAnError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewStorageClient(server.URL, "photos", "", "https://cdn.example.pf", 5*time.Second)
		require.NoError(t, client.Delete(context.Background(), "7/rec.jpg"))
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := NewStorageClient(server.URL, "photos", "", "https://cdn.example.pf", 5*time.Second)
		require.Error(t, client.Delete(context.Background(), "7/rec.jpg"))
	})
}
