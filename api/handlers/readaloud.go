// ABOUTME: Read-aloud handlers for reading sessions and synthesized audio download
// ABOUTME: Playback control returns the sequencer status; clips are served as audio/ogg

package handlers

import (
	"context"
	"net/http"

	"paperread-app/api/dto/requests"
	"paperread-app/core/domain"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterReadAloudRoutes registers playback routes
func (h *SessionHandler) RegisterReadAloudRoutes(api huma.API) {
	tags := []string{"Read aloud"}

	huma.Register(api, huma.Operation{
		OperationID: "getPlayback",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}/readaloud",
		Summary:     "Get playback status",
		Tags:        tags,
	}, h.Playback)

	huma.Register(api, huma.Operation{
		OperationID: "playAll",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/readaloud/play",
		Summary:     "Read the page aloud from the first sentence",
		Tags:        tags,
	}, h.PlayAll)

	huma.Register(api, huma.Operation{
		OperationID: "pauseResume",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/readaloud/pause",
		Summary:     "Pause or resume reading",
		Tags:        tags,
	}, h.PauseResume)

	huma.Register(api, huma.Operation{
		OperationID: "stopReading",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/readaloud/stop",
		Summary:     "Stop reading",
		Tags:        tags,
	}, h.StopReading)

	huma.Register(api, huma.Operation{
		OperationID: "playSentence",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/readaloud/sentences/{index}",
		Summary:     "Read one sentence",
		Tags:        tags,
	}, h.PlaySentence)

	huma.Register(api, huma.Operation{
		OperationID: "setRate",
		Method:      http.MethodPut,
		Path:        "/sessions/{id}/readaloud/rate",
		Summary:     "Change the speech rate",
		Tags:        tags,
	}, h.SetRate)
}

// PlaybackOutput returns the playback status
type PlaybackOutput struct {
	Body domain.PlaybackStatus
}

func playbackOutput(status domain.PlaybackStatus, err error) (*PlaybackOutput, error) {
	if err != nil {
		return nil, toHumaError(err)
	}
	return &PlaybackOutput{Body: status}, nil
}

// Playback handles GET /sessions/{id}/readaloud
func (h *SessionHandler) Playback(ctx context.Context, input *SessionPathInput) (*PlaybackOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return &PlaybackOutput{Body: s.Playback()}, nil
}

// PlayAll handles POST /sessions/{id}/readaloud/play
func (h *SessionHandler) PlayAll(ctx context.Context, input *SessionPathInput) (*PlaybackOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return playbackOutput(s.PlayAll())
}

// PauseResume handles POST /sessions/{id}/readaloud/pause
func (h *SessionHandler) PauseResume(ctx context.Context, input *SessionPathInput) (*PlaybackOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return playbackOutput(s.PauseResume())
}

// StopReading handles POST /sessions/{id}/readaloud/stop
func (h *SessionHandler) StopReading(ctx context.Context, input *SessionPathInput) (*PlaybackOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return &PlaybackOutput{Body: s.StopReading()}, nil
}

// PlaySentenceInput defines the input for the PlaySentence operation
type PlaySentenceInput struct {
	ID    string `path:"id" doc:"Session id"`
	Index int    `path:"index" doc:"0-based sentence index on the page"`
}

// PlaySentence handles POST /sessions/{id}/readaloud/sentences/{index}
func (h *SessionHandler) PlaySentence(ctx context.Context, input *PlaySentenceInput) (*PlaybackOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return playbackOutput(s.PlaySingle(input.Index))
}

// SetRateInput defines the input for the SetRate operation
type SetRateInput struct {
	ID   string `path:"id" doc:"Session id"`
	Body requests.RateRequest
}

// SetRate handles PUT /sessions/{id}/readaloud/rate
func (h *SessionHandler) SetRate(ctx context.Context, input *SetRateInput) (*PlaybackOutput, error) {
	s, err := h.session(input.ID)
	if err != nil {
		return nil, err
	}
	return playbackOutput(s.SetRate(input.Body.Rate))
}

// ClipStore returns synthesized clips by utterance id
type ClipStore interface {
	Clip(ctx context.Context, utteranceID string) (domain.AudioClip, error)
}

// AudioHandler serves synthesized speech
type AudioHandler struct {
	clips ClipStore
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(clips ClipStore) *AudioHandler {
	return &AudioHandler{clips: clips}
}

// RegisterRoutes registers the audio route
func (h *AudioHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getAudio",
		Method:      http.MethodGet,
		Path:        "/audio/{utterance_id}",
		Summary:     "Download a synthesized utterance",
		Description: "Returns the clip named by the playback status utterance_id",
		Tags:        []string{"Read aloud"},
	}, h.GetAudio)
}

// AudioInput defines the input for the GetAudio operation
type AudioInput struct {
	UtteranceID string `path:"utterance_id" doc:"Utterance id"`
}

// AudioOutput is the raw clip
type AudioOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

// GetAudio handles GET /audio/{utterance_id}
func (h *AudioHandler) GetAudio(ctx context.Context, input *AudioInput) (*AudioOutput, error) {
	clip, err := h.clips.Clip(ctx, input.UtteranceID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &AudioOutput{
		ContentType:  clip.ContentType,
		CacheControl: "private, max-age=3600",
		Body:         clip.Data,
	}, nil
}
