package memory

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkMemoryCache_ProgressRoundTrip(b *testing.B) {
	cache := NewMemoryCache()
	ctx := context.Background()
	value := []byte(`{"currentPage":3,"totalPages":9,"lastReadAt":"2024-01-01T00:00:00Z"}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("paperread_reading_progress_guest_%d", i%100)
		_ = cache.Set(ctx, key, value, 0)
		_, _ = cache.Get(ctx, key)
	}
}
