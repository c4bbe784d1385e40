package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		name   string
		err    string
		status int
		label  string
	}{
		{"gemini quota", "RESOURCE_EXHAUSTED: daily limit reached", http.StatusServiceUnavailable, "Quota exceeded"},
		{"explicit quota", "QUOTA_EXCEEDED", http.StatusServiceUnavailable, "Quota exceeded"},
		{"bad key", "PERMISSION_DENIED: API key not valid", http.StatusForbidden, "Permission denied"},
		{"context overflow", "input exceeds context length", http.StatusRequestEntityTooLarge, "Conversation too long"},
		{"token overflow", "too many tokens in request", http.StatusRequestEntityTooLarge, "Conversation too long"},
		{"backend down", "dial tcp: connection refused", http.StatusServiceUnavailable, "Upstream unavailable"},
		{"slow backend", "context deadline exceeded: timeout", http.StatusServiceUnavailable, "Upstream unavailable"},
		{"backend rejection", "API Error: 422 - validation failed", http.StatusBadGateway, "Backend error"},
		{"unknown", "something unexpected", http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := Classify(errors.New(tc.err), false)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.label, body["error"])
			assert.NotEmpty(t, body["message"])
			_, hasDetails := body["details"]
			assert.False(t, hasDetails)
		})
	}
}

func TestClassifyDevelopmentExposesDetail(t *testing.T) {
	_, body := Classify(errors.New("RESOURCE_EXHAUSTED: project 42"), true)
	assert.Equal(t, "RESOURCE_EXHAUSTED: project 42", body["details"])
}

func TestClassifyPrecedence(t *testing.T) {
	// Quota wording wins over the generic backend bucket.
	status, body := Classify(errors.New("API Error: 429 - quota exhausted"), false)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Quota exceeded", body["error"])
}
