package stt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeClip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.m4a")
	if err := os.WriteFile(path, []byte("fake-m4a"), 0o600); err != nil {
		t.Fatalf("write clip: %v", err)
	}
	return path
}

func TestTranscribe(t *testing.T) {
	var gotModel, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model_id")
		if f, hdr, err := r.FormFile("file"); err == nil {
			gotFile = hdr.Filename
			f.Close()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"I'll send the gift cards now"}`))
	}))
	defer srv.Close()

	c := NewElevenLabsClient("key")
	c.BaseURL = srv.URL
	text, err := c.Transcribe(context.Background(), "file://"+writeClip(t))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "I'll send the gift cards now" {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotModel != scribeModelID {
		t.Fatalf("unexpected model id: %q", gotModel)
	}
	if gotFile != "clip.m4a" {
		t.Fatalf("unexpected filename: %q", gotFile)
	}
}

func TestTranscribe_SilenceIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":""}`))
	}))
	defer srv.Close()

	c := NewElevenLabsClient("key")
	c.BaseURL = srv.URL
	text, err := c.Transcribe(context.Background(), writeClip(t))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestTranscribe_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewElevenLabsClient("key")
	c.BaseURL = srv.URL
	_, err := c.Transcribe(context.Background(), writeClip(t))
	if err == nil || !strings.Contains(err.Error(), "status=429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestTranscribe_MissingInputs(t *testing.T) {
	if _, err := NewElevenLabsClient("").Transcribe(context.Background(), "x"); err == nil {
		t.Fatalf("expected error when api key missing")
	}
	if _, err := NewElevenLabsClient("k").Transcribe(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty reference")
	}
	if _, err := NewElevenLabsClient("k").Transcribe(context.Background(), "/no/such/clip.m4a"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
