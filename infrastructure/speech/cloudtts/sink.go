// ABOUTME: Cache-backed audio sink that keeps synthesized clips downloadable by utterance id
// ABOUTME: Clients fetch /audio/{utterance_id} while the session reports the clip as playing

package cloudtts

import (
	"context"
	"errors"
	"time"

	"paperread-app/core/domain"
	coreerrors "paperread-app/core/errors"
	"paperread-app/core/interfaces"
)

// DefaultAudioTTL is how long clips stay in the cache
const DefaultAudioTTL = time.Hour

// CacheSink stores clips in an interfaces.Cache
type CacheSink struct {
	cache interfaces.Cache
	ttl   time.Duration
}

// NewCacheSink creates a sink; ttl <= 0 uses DefaultAudioTTL
func NewCacheSink(cache interfaces.Cache, ttl time.Duration) *CacheSink {
	if ttl <= 0 {
		ttl = DefaultAudioTTL
	}
	return &CacheSink{cache: cache, ttl: ttl}
}

func audioKey(utteranceID string) string {
	return "audio:" + utteranceID
}

// Play stores the clip for later download
func (s *CacheSink) Play(ctx context.Context, clip domain.AudioClip) error {
	return s.cache.Set(ctx, audioKey(clip.UtteranceID), clip.Data, s.ttl)
}

// Clip returns a stored clip
func (s *CacheSink) Clip(ctx context.Context, utteranceID string) (domain.AudioClip, error) {
	data, err := s.cache.Get(ctx, audioKey(utteranceID))
	if err != nil {
		if errors.Is(err, interfaces.ErrCacheMiss) {
			return domain.AudioClip{}, &coreerrors.NotFoundError{Resource: "audio", ID: utteranceID}
		}
		return domain.AudioClip{}, err
	}
	return domain.AudioClip{UtteranceID: utteranceID, ContentType: ContentType, Data: data}, nil
}
