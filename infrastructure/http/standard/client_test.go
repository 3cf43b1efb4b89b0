package standard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"paperread-app/pkg/requestid"
)

type countingTransport struct {
	calls int32
	next  http.RoundTripper
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	atomic.AddInt32(&t.calls, 1)
	return t.next.RoundTrip(req)
}

func TestNewStandardHTTPClient(t *testing.T) {
	client := NewStandardHTTPClient(10 * time.Second)

	if client.client.Timeout != 10*time.Second {
		t.Errorf("Client timeout = %v, want %v", client.client.Timeout, 10*time.Second)
	}
	if client.userAgent != defaultUserAgent {
		t.Errorf("userAgent = %q, want %q", client.userAgent, defaultUserAgent)
	}
}

func TestStandardHTTPClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current_page":1}`))
	}))
	defer server.Close()

	resp, err := NewStandardHTTPClient(10*time.Second).Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	defer resp.Body().Close()

	if resp.StatusCode() != http.StatusOK {
		t.Errorf("StatusCode = %d, want %d", resp.StatusCode(), http.StatusOK)
	}
	if resp.Header("content-type") != "application/json" {
		t.Errorf("Header(content-type) = %q", resp.Header("content-type"))
	}
	body, _ := io.ReadAll(resp.Body())
	if string(body) != `{"current_page":1}` {
		t.Errorf("Body = %s", body)
	}
}

func TestStandardHTTPClient_Headers(t *testing.T) {
	var userAgent, reqID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		reqID = r.Header.Get(requestid.Header)
	}))
	defer server.Close()

	client := NewStandardHTTPClient(10*time.Second, WithUserAgent("ReaderTest/2.0"))
	ctx := requestid.With(context.Background(), "req-42")

	resp, err := client.Get(ctx, server.URL)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	resp.Body().Close()

	if userAgent != "ReaderTest/2.0" {
		t.Errorf("User-Agent = %q, want ReaderTest/2.0", userAgent)
	}
	if reqID != "req-42" {
		t.Errorf("%s = %q, want req-42", requestid.Header, reqID)
	}
}

func TestStandardHTTPClient_WithTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	transport := &countingTransport{next: http.DefaultTransport}
	client := NewStandardHTTPClient(10*time.Second, WithTransport(transport))

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	resp.Body().Close()

	if atomic.LoadInt32(&transport.calls) != 1 {
		t.Errorf("transport calls = %d, want 1", transport.calls)
	}
}

func TestStandardHTTPClient_Get_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewStandardHTTPClient(10*time.Second).Get(ctx, server.URL)
	if err == nil {
		t.Fatal("Get should return error for context timeout")
	}
	if !strings.Contains(err.Error(), "context deadline exceeded") {
		t.Errorf("Error should mention context deadline, got: %v", err)
	}
}

func TestStandardHTTPClient_Get_InvalidURL(t *testing.T) {
	_, err := NewStandardHTTPClient(10*time.Second).Get(context.Background(), "://missing-scheme")
	if err == nil {
		t.Error("Get should return error for invalid URL")
	}
}

func TestStandardHTTPClient_Get_Retries(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []int
		wantAttempts int32
		wantStatus   int
	}{
		{"recovers after 503s", []int{503, 503, 200}, 3, 200},
		{"gives up after max retries", []int{503, 502, 500}, 3, 500},
		{"no retry on 4xx", []int{404}, 1, 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&attempts, 1)
				w.WriteHeader(tt.statuses[n-1])
			}))
			defer server.Close()

			resp, err := NewStandardHTTPClient(10*time.Second).Get(context.Background(), server.URL)
			if err != nil {
				t.Fatalf("Get returned error: %v", err)
			}
			resp.Body().Close()

			if got := atomic.LoadInt32(&attempts); got != tt.wantAttempts {
				t.Errorf("Attempts = %d, want %d", got, tt.wantAttempts)
			}
			if resp.StatusCode() != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestStandardHTTPClient_Post(t *testing.T) {
	var body, contentType string
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	resp, err := NewStandardHTTPClient(10*time.Second).Post(context.Background(), server.URL, strings.NewReader(`{"username":"alice"}`))
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	defer resp.Body().Close()

	if resp.StatusCode() != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d", resp.StatusCode())
	}
	if atomic.LoadInt32(&attempts) != 1 {
		t.Errorf("Post was retried: %d attempts", attempts)
	}
	if body != `{"username":"alice"}` {
		t.Errorf("body = %s", body)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
}
