// ABOUTME: Domain models for read-aloud playback and pagination load state
// ABOUTME: Utterances, playback states and status snapshots

package domain

// PlaybackState is the read-aloud state machine state
type PlaybackState string

const (
	PlaybackIdle     PlaybackState = "idle"
	PlaybackPlaying  PlaybackState = "playing"
	PlaybackPaused   PlaybackState = "paused"
	PlaybackFinished PlaybackState = "finished"
)

// NotPlaying is the cursor value when no sentence is being read
const NotPlaying = -1

// Utterance is one unit of speech submitted to a speech engine
type Utterance struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	Lang   string  `json:"lang"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

// PlaybackStatus is a snapshot of the sequencer
type PlaybackStatus struct {
	State       PlaybackState `json:"state"`
	Cursor      int           `json:"cursor"`
	Total       int           `json:"total"`
	Highlighted int           `json:"highlighted"`
	Rate        float64       `json:"rate"`
	UtteranceID string        `json:"utterance_id,omitempty"`
	Message     string        `json:"message"`
}

// LoadState is the pagination controller state
type LoadState string

const (
	LoadIdle    LoadState = "idle"
	LoadLoading LoadState = "loading"
	LoadLoaded  LoadState = "loaded"
	LoadFailed  LoadState = "load_failed"
)

// AudioClip is synthesized audio for one utterance
type AudioClip struct {
	UtteranceID string `json:"utterance_id"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}
