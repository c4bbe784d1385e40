package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetQueryAndAuth(t *testing.T) {
	var gotAuth, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [], "total": 0}`))
	}))
	defer ts.Close()

	client := New(Config{BaseURL: ts.URL})
	result, err := client.Get(context.Background(), "/api/admin/animes",
		map[string]interface{}{"page": 1, "search": "naruto"}, "secret-token")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Contains(t, gotQuery, "page=1")
	assert.Contains(t, gotQuery, "search=naruto")

	m, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 0, m["total"])
}

func TestClientErrorShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"anime not found"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	client := New(Config{BaseURL: ts.URL})
	_, err := client.Get(context.Background(), "/api/admin/animes/999", nil, "tok")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, err.Error(), "API Error: 404 - ")
	assert.Contains(t, err.Error(), "anime not found")
}

func TestClientPostBody(t *testing.T) {
	var gotBody []byte
	var gotMethod string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = buf
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 9001}`))
	}))
	defer ts.Close()

	client := New(Config{BaseURL: ts.URL})
	result, err := client.Post(context.Background(), "/api/admin/animes",
		map[string]interface{}{"titre": "Frieren"}, "tok")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Contains(t, string(gotBody), `"titre":"Frieren"`)

	m := result.(map[string]interface{})
	assert.EqualValues(t, 9001, m["id"])
}

func TestClientEmptyBodyTolerated(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := New(Config{BaseURL: ts.URL})
	result, err := client.Delete(context.Background(), "/api/admin/animes/1", "tok")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestClientMultipartUpload(t *testing.T) {
	var gotContentType string
	var gotField, gotType string
	var gotFile []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotType = r.FormValue("type")
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotField = header.Filename
		buf := make([]byte, header.Size)
		file.Read(buf)
		gotFile = buf
		w.Write([]byte(`{"filename": "stored.png"}`))
	}))
	defer ts.Close()

	client := New(Config{BaseURL: ts.URL})
	result, err := client.UploadMultipart(context.Background(), "/api/media/upload",
		"file", "pasted.png", []byte{1, 2, 3}, map[string]string{"type": "anime"}, "tok")
	require.NoError(t, err)

	assert.Contains(t, gotContentType, "multipart/form-data")
	assert.Equal(t, "pasted.png", gotField)
	assert.Equal(t, "anime", gotType)
	assert.Equal(t, []byte{1, 2, 3}, gotFile)

	m := result.(map[string]interface{})
	assert.Equal(t, "stored.png", m["filename"])
}
