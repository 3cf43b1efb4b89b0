package sqlite

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"paperread-app/core/interfaces"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {}
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  {}
func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.warnings = append(l.warnings, msg)
}
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {}

func newTestClient(t *testing.T) (*Client, *recordingLogger) {
	t.Helper()
	logger := &recordingLogger{}
	client, err := NewSQLiteCache(filepath.Join(t.TempDir(), "state.db"), logger)
	if err != nil {
		t.Fatalf("NewSQLiteCache returned error: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, logger
}

func TestClient_RoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	values := map[string][]byte{
		"paperread_reading_progress_guest_1": []byte(`{"currentPage":2,"totalPages":5}`),
		"sentence_annotations_guest_1_page2": []byte(`[{"sentenceId":"sentence_0","color":"#28a745"}]`),
		"username":                           []byte("guest"),
		"binary":                             {0x00, 0x01, 0xFF},
		"empty":                              {},
	}

	for key, value := range values {
		if err := client.Set(ctx, key, value, 0); err != nil {
			t.Fatalf("Set(%q) returned error: %v", key, err)
		}
	}
	for key, want := range values {
		got, err := client.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get(%q) returned error: %v", key, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Get(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestClient_ZeroTTLNeverExpires(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	now := time.Now()
	client.now = func() time.Time { return now }

	_ = client.Set(ctx, "forever", []byte("1"), 0)
	_ = client.Set(ctx, "short", []byte("2"), time.Minute)

	now = now.Add(time.Hour)

	if _, err := client.Get(ctx, "forever"); err != nil {
		t.Errorf("zero ttl value should survive, got %v", err)
	}
	if _, err := client.Get(ctx, "short"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Errorf("expired value error = %v, want ErrCacheMiss", err)
	}
	if removed := client.cleanup(); removed != 1 {
		t.Errorf("cleanup removed %d rows, want 1", removed)
	}
}

func TestClient_Overwrite(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_ = client.Set(ctx, "maxParagraphs", []byte("8"), 0)
	_ = client.Set(ctx, "maxParagraphs", []byte("12"), 0)

	got, _ := client.Get(ctx, "maxParagraphs")
	if string(got) != "12" {
		t.Errorf("Get = %q, want %q", got, "12")
	}
}

func TestClient_Delete(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_ = client.Set(ctx, "k", []byte("v"), 0)
	if err := client.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := client.Get(ctx, "k"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Errorf("Get after Delete error = %v, want ErrCacheMiss", err)
	}
}

func TestClient_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	first, err := NewSQLiteCache(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	_ = first.Set(ctx, "username", []byte("alice"), 0)
	first.Close()

	second, err := NewSQLiteCache(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	got, err := second.Get(ctx, "username")
	if err != nil || string(got) != "alice" {
		t.Errorf("Get after reopen = %q, %v", got, err)
	}
}

func TestValidateKey(t *testing.T) {
	logger := &recordingLogger{}

	if err := ValidateKey("", logger); err == nil {
		t.Error("empty key should be rejected")
	}
	if err := ValidateKey(strings.Repeat("k", maxKeyLength+1), logger); err == nil {
		t.Error("oversized key should be rejected")
	}
	if err := ValidateKey("a\x00b", logger); err == nil {
		t.Error("key with NUL should be rejected")
	}
	if err := ValidateKey("paperread_reading_progress_o'brien_1", logger); err != nil {
		t.Errorf("quoted username should be allowed, got %v", err)
	}
	if len(logger.warnings) != 1 {
		t.Errorf("expected one warning, got %d", len(logger.warnings))
	}
}

func TestValidateValue(t *testing.T) {
	if err := ValidateValue(make([]byte, maxValueLength+1)); err == nil {
		t.Error("oversized value should be rejected")
	}
	if err := ValidateValue(nil); err != nil {
		t.Errorf("empty value should be allowed, got %v", err)
	}
}

func TestClient_Stats(t *testing.T) {
	client, _ := newTestClient(t)
	_ = client.Set(context.Background(), "k", []byte("v"), 0)

	stats, err := client.Stats()
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats["total_entries"] != 1 {
		t.Errorf("total_entries = %v, want 1", stats["total_entries"])
	}
}
