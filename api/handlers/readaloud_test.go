package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"paperread-app/core/domain"
	"paperread-app/infrastructure/cache/memory"
	"paperread-app/infrastructure/speech/cloudtts"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePlayback(t *testing.T, body []byte) domain.PlaybackStatus {
	t.Helper()
	return decode[domain.PlaybackStatus](t, body)
}

func TestReadAloud_PlayPauseStop(t *testing.T) {
	f := newReaderFixture(t)
	opened := f.open(t, "alice")
	assert.True(t, opened.ReadAloudSupported)
	id := opened.SessionID

	resp := f.api.Get("/sessions/" + id + "/readaloud")
	require.Equal(t, http.StatusOK, resp.Code)
	status := decodePlayback(t, resp.Body.Bytes())
	assert.Equal(t, domain.PlaybackIdle, status.State)
	assert.Equal(t, 3, status.Total)

	resp = f.api.Post("/sessions/" + id + "/readaloud/play")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	status = decodePlayback(t, resp.Body.Bytes())
	assert.Equal(t, domain.PlaybackPlaying, status.State)
	assert.Equal(t, 0, status.Cursor)
	assert.Equal(t, 0, status.Highlighted)
	assert.NotEmpty(t, status.UtteranceID)
	assert.Equal(t, 1, f.engine.count())

	resp = f.api.Post("/sessions/" + id + "/readaloud/pause")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, domain.PlaybackPaused, decodePlayback(t, resp.Body.Bytes()).State)

	resp = f.api.Post("/sessions/" + id + "/readaloud/pause")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, domain.PlaybackPlaying, decodePlayback(t, resp.Body.Bytes()).State)

	resp = f.api.Post("/sessions/" + id + "/readaloud/stop")
	require.Equal(t, http.StatusOK, resp.Code)
	status = decodePlayback(t, resp.Body.Bytes())
	assert.Equal(t, domain.PlaybackIdle, status.State)
	assert.Equal(t, domain.NotPlaying, status.Highlighted)
}

func TestReadAloud_PauseWhileIdle(t *testing.T) {
	f := newReaderFixture(t)
	id := f.open(t, "alice").SessionID

	resp := f.api.Post("/sessions/" + id + "/readaloud/pause")
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestReadAloud_PageChangeStopsPlayback(t *testing.T) {
	f := newReaderFixture(t)
	id := f.open(t, "alice").SessionID

	f.api.Post("/sessions/" + id + "/readaloud/play")
	resp := f.api.Post("/sessions/" + id + "/next")
	require.Equal(t, http.StatusOK, resp.Code)

	view := decodeView(t, resp.Body.Bytes())
	assert.Equal(t, domain.PlaybackIdle, view.Playback.State)
	assert.Equal(t, 2, view.Playback.Total)
}

func TestReadAloud_PlaySentence(t *testing.T) {
	f := newReaderFixture(t)
	id := f.open(t, "alice").SessionID

	resp := f.api.Post("/sessions/" + id + "/readaloud/sentences/2")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	status := decodePlayback(t, resp.Body.Bytes())
	assert.Equal(t, 2, status.Highlighted)
	assert.Equal(t, domain.PlaybackIdle, status.State)

	resp = f.api.Post("/sessions/" + id + "/readaloud/sentences/3")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestReadAloud_SetRate(t *testing.T) {
	f := newReaderFixture(t)
	id := f.open(t, "alice").SessionID

	resp := f.api.Put("/sessions/"+id+"/readaloud/rate", map[string]interface{}{"rate": 1.5})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, 1.5, decodePlayback(t, resp.Body.Bytes()).Rate)

	resp = f.api.Put("/sessions/"+id+"/readaloud/rate", map[string]interface{}{"rate": 50})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestReadAloud_Unsupported(t *testing.T) {
	f := newReaderFixture(t, withoutSpeech())
	opened := f.open(t, "alice")
	assert.False(t, opened.ReadAloudSupported)
	id := opened.SessionID

	resp := f.api.Post("/sessions/" + id + "/readaloud/play")
	assert.Equal(t, http.StatusNotImplemented, resp.Code)

	resp = f.api.Post("/sessions/" + id + "/readaloud/sentences/0")
	assert.Equal(t, http.StatusNotImplemented, resp.Code)
}

func TestAudioHandler_GetAudio(t *testing.T) {
	sink := cloudtts.NewCacheSink(memory.NewMemoryCache(), time.Minute)
	require.NoError(t, sink.Play(context.Background(), domain.AudioClip{
		UtteranceID: "utt-1",
		ContentType: cloudtts.ContentType,
		Data:        []byte("OggS-data"),
	}))

	_, api := humatest.New(t)
	NewAudioHandler(sink).RegisterRoutes(api)

	resp := api.Get("/audio/utt-1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, cloudtts.ContentType, resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Cache-Control"), "max-age")
	assert.Equal(t, "OggS-data", resp.Body.String())

	resp = api.Get("/audio/missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
