package requestid

import (
	"context"
	"testing"
)

func TestWithAndFrom(t *testing.T) {
	ctx := With(context.Background(), "abc-123")

	if got := From(ctx); got != "abc-123" {
		t.Errorf("From() = %q, want %q", got, "abc-123")
	}
	if got := From(context.Background()); got != "" {
		t.Errorf("From(empty) = %q, want empty", got)
	}
}
