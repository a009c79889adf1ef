package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttalent/pkg/testutil"
)

type stubSigner struct {
	err   error
	reads []string
}

func (s *stubSigner) PresignWrite(_ context.Context, objectName string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "https://storage.example.com/put/" + objectName, nil
}

func (s *stubSigner) PresignRead(_ context.Context, objectName string) (string, error) {
	s.reads = append(s.reads, objectName)
	if s.err != nil {
		return "", s.err
	}
	return "https://storage.example.com/get/" + objectName, nil
}

func newUploadRouter(signer *stubSigner) chi.Router {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := chi.NewRouter()
	New(signer, logger).Register(r)
	return r
}

func TestHandleWriteURL(t *testing.T) {
	t.Run("signs an upload", func(t *testing.T) {
		router := newUploadRouter(&stubSigner{})
		req := testutil.NewJSONRequest(t, http.MethodPost, "/upload/signed-url", map[string]string{
			"fileName":    "people/dni-42.pdf",
			"contentType": "application/pdf",
		})
		resp := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, resp)

		body := *testutil.UnmarshalResponse[map[string]string](t, resp)
		assert.Equal(t, "https://storage.example.com/put/people/dni-42.pdf", body["signedUrl"])
		assert.Equal(t, "people/dni-42.pdf", body["fileName"])
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		router := newUploadRouter(&stubSigner{})
		req := testutil.NewJSONRequest(t, http.MethodPost, "/upload/signed-url", map[string]string{
			"fileName": "people/dni-42.pdf",
		})
		resp := testutil.DoRequest(router, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("signer failure answers 500", func(t *testing.T) {
		router := newUploadRouter(&stubSigner{err: errors.New("bucket unreachable")})
		req := testutil.NewJSONRequest(t, http.MethodPost, "/upload/signed-url", map[string]string{
			"fileName":    "people/dni-42.pdf",
			"contentType": "application/pdf",
		})
		resp := testutil.DoRequest(router, req)
		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

func TestHandleReadURL(t *testing.T) {
	t.Run("signs a download", func(t *testing.T) {
		signer := &stubSigner{}
		router := newUploadRouter(signer)
		req := testutil.NewJSONRequest(t, http.MethodPost, "/upload/read-signed-url", map[string]string{
			"fileName": "people/dni-42.pdf",
		})
		resp := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, resp)

		body := *testutil.UnmarshalResponse[map[string]string](t, resp)
		assert.Equal(t, "https://storage.example.com/get/people/dni-42.pdf", body["signedUrl"])
		require.Equal(t, []string{"people/dni-42.pdf"}, signer.reads)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		router := newUploadRouter(&stubSigner{})
		req := testutil.NewJSONRequest(t, http.MethodPost, "/upload/read-signed-url", map[string]string{
			"fileName": "   ",
		})
		resp := testutil.DoRequest(router, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestValidateObjectName(t *testing.T) {
	for _, name := range []string{"people/dni-42.pdf", "dni.pdf", "a/b/c.png"} {
		assert.NoError(t, validateObjectName(name), name)
	}
	for _, name := range []string{"/etc/passwd", "../secrets.env", "people/../../x"} {
		assert.Error(t, validateObjectName(name), name)
	}
}
