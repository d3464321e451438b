package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/config"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadService_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "private_key", user)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "aGVsbG8=", r.FormValue("file"))
		assert.Equal(t, "shot.png", r.FormValue("fileName"))
		assert.Equal(t, "true", r.FormValue("useUniqueFileName"))
		_, _ = w.Write([]byte(`{"url":"https://ik.imagekit.io/demo/shot_x1.png"}`))
	}))
	defer srv.Close()

	svc := NewUploadService(srv.Client(), &config.Config{ImageKitPrivateKey: "private_key", ImageKitUploadURL: srv.URL})
	url, err := svc.Upload(context.Background(), &dto.UploadRequest{File: "aGVsbG8=", FileName: "shot.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://ik.imagekit.io/demo/shot_x1.png", url)
}

func TestUploadService_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Your account cannot be authenticated."}`))
	}))
	defer srv.Close()

	_, err := NewUploadService(srv.Client(), &config.Config{}).Upload(context.Background(), &dto.UploadRequest{File: "x", FileName: "y"})
	assert.ErrorIs(t, err, ErrUploadUnavailable)

	svc := NewUploadService(srv.Client(), &config.Config{ImageKitPrivateKey: "k", ImageKitUploadURL: srv.URL})
	_, err = svc.Upload(context.Background(), &dto.UploadRequest{File: "x", FileName: "y"})
	var derr *DependencyError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, err.Error(), "cannot be authenticated")

	_, err = svc.Upload(context.Background(), &dto.UploadRequest{FileName: "y"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
