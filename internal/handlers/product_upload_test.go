package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phoneshop/internal/models"
)

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for name, contentType := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="images"; filename="`+name+`"`)
		h.Set("Content-Type", contentType)
		part, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (s *testServer) multipart(method, path, token string, fields, files map[string]string) *httptest.ResponseRecorder {
	body, contentType := multipartBody(s.t, fields, files)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateProductWithUploadedImages(t *testing.T) {
	s := newTestServer(t)
	adminTok := s.adminToken()

	rec := s.multipart(http.MethodPost, "/api/admin/products", adminTok,
		map[string]string{"name": "Armor Case", "price": "12.5", "category": "case", "stock": "7", "description": "Shockproof"},
		map[string]string{"front.png": "image/png"},
	)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var product models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, 12.5, product.Price)
	assert.Equal(t, 7, product.Stock)
	assert.Equal(t, "Shockproof", product.Description)
	require.Len(t, product.Images, 1)
	assert.True(t, strings.HasPrefix(product.Images[0], "/uploads/images-"))

	served := httptest.NewRecorder()
	s.router.ServeHTTP(served, httptest.NewRequest(http.MethodGet, product.Images[0], nil))
	assert.Equal(t, http.StatusOK, served.Code)
	assert.Equal(t, "image-bytes", served.Body.String())
	assert.Equal(t, "cross-origin", served.Header().Get("Cross-Origin-Resource-Policy"))
}

func TestUpdateProductMultipartKeepsImagesWithoutFiles(t *testing.T) {
	s := newTestServer(t)
	adminTok := s.adminToken()
	existing := s.product("cable", 5)

	rec := s.multipart(http.MethodPut, "/api/products/"+existing.ID.Hex(), adminTok,
		map[string]string{"name": "Braided Cable", "price": "6", "category": "charger"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var product models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &product))
	assert.Equal(t, "Braided Cable", product.Name)
	assert.Equal(t, existing.Images, product.Images)
}

func TestInvalidProductWritesNoFiles(t *testing.T) {
	s := newTestServer(t)
	adminTok := s.adminToken()

	rec := s.multipart(http.MethodPost, "/api/products", adminTok,
		map[string]string{"name": "No Price", "category": "case"},
		map[string]string{"a.png": "image/png"},
	)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.multipart(http.MethodPost, "/api/products", adminTok,
		map[string]string{"name": "Doc", "price": "1", "category": "case"},
		map[string]string{"doc.pdf": "application/pdf"},
	)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.multipart(http.MethodPost, "/api/products", adminTok,
		map[string]string{"name": "Bad", "price": "abc", "category": "case"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "price must be a number")

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateMissingProductWritesNoFiles(t *testing.T) {
	s := newTestServer(t)
	adminTok := s.adminToken()

	rec := s.multipart(http.MethodPut, "/api/products/64b7f0c2a1b2c3d4e5f60718", adminTok,
		map[string]string{"name": "Ghost", "price": "3", "category": "glass"},
		map[string]string{"ghost.png": "image/png"},
	)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
