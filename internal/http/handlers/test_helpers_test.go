package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/activity"
	handler "github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/http/router"
	"github.com/rogerio-castellano/product-catalog/internal/imagestore"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/rogerio-castellano/product-catalog/internal/service"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	router      http.Handler
	productRepo *repo.InMemoryProductRepository
	fs          afero.Fs
}

// setup wires a fresh in-memory catalog behind the real router.
func setup(t *testing.T, limiter ...*rl.Limiter) *testEnv {
	t.Helper()

	env := &testEnv{
		productRepo: repo.NewInMemoryProductRepository(),
		fs:          afero.NewMemMapFs(),
	}
	store := imagestore.New(env.fs, "/data/uploads", "/uploads")
	svc := service.NewProductService(env.productRepo, store,
		service.WithClock(func() time.Time { return testNow }),
		service.WithIdentity(func() string { return "tester" }),
		service.WithActivityLog(activity.NewMemoryLog(100)),
	)
	handler.SetProductService(svc)

	opts := router.Options{Uploads: store.FileSystem(), UploadsPrefix: store.URLPrefix()}
	if len(limiter) > 0 {
		opts.Limiter = limiter[0]
	}
	env.router = router.NewRouter(opts)
	t.Cleanup(env.productRepo.Clear)
	return env
}

func do(r http.Handler, method, target string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(p)
	return do(r, http.MethodPost, "/products", body, "application/json")
}

func updateProduct(r http.Handler, id int, p handler.ProductRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(p)
	return do(r, http.MethodPut, fmt.Sprintf("/products/%d", id), body, "application/json")
}

func mustCreate(t *testing.T, r http.Handler, p handler.ProductRequest) handler.ProductResponse {
	t.Helper()
	w := createProduct(r, p)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp handler.ProductResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

// multipartProduct encodes form fields plus an optional image part.
func multipartProduct(fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	if filename != "" || content != nil {
		part, _ := writer.CreateFormFile("file", filename)
		part.Write(content)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
