package handlers

import (
	"net/http/httptest"
	"testing"
)

func TestPathID(t *testing.T) {
	tests := []struct {
		path     string
		prefix   string
		expected string
	}{
		{"/api/upload/doc_123", "/api/upload/", "doc_123"},
		{"/api/upload/doc_123/status", "/api/upload/", "doc_123"},
		{"/api/qa/history/doc_abc?limit=5", "/api/qa/history/", "doc_abc"},
		{"/api/upload/", "/api/upload/", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.path, nil)
		if got := PathID(req, tt.prefix); got != tt.expected {
			t.Errorf("PathID(%q, %q) = %q, expected %q", tt.path, tt.prefix, got, tt.expected)
		}
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		url      string
		expected int
	}{
		{"/api/qa/history/doc_1?limit=5", 5},
		{"/api/qa/history/doc_1", 10},
		{"/api/qa/history/doc_1?limit=abc", 10},
		{"/api/qa/history/doc_1?limit=-3", 10},
		{"/api/qa/history/doc_1?limit=0", 10},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", tt.url, nil)
		if got := QueryInt(req, "limit", 10); got != tt.expected {
			t.Errorf("QueryInt(%q) = %d, expected %d", tt.url, got, tt.expected)
		}
	}
}

func TestUserID(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/documents", nil)
	if got := UserID(req); got != "" {
		t.Errorf("expected anonymous identity, got %q", got)
	}

	req.Header.Set("X-User-ID", "  user_1  ")
	if got := UserID(req); got != "user_1" {
		t.Errorf("expected trimmed identity, got %q", got)
	}
}
