// ABOUTME: Google Cloud Text-to-Speech synthesizer for single utterances
// ABOUTME: Long text is split into chunks and the OGG_OPUS audio is concatenated

package cloudtts

import (
	"bytes"
	"context"
	"math"
	"strings"

	"paperread-app/core/domain"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

const (
	// DefaultVoice is the neural voice used for English sentences
	DefaultVoice = "en-US-Neural2-J"

	// ContentType is the MIME type of synthesized clips
	ContentType = "audio/ogg"

	maxChunkSize = 1000
)

// Synthesizer turns an utterance into encoded audio
type Synthesizer interface {
	Synthesize(ctx context.Context, u domain.Utterance) ([]byte, error)
}

// GoogleSynthesizer calls the Cloud Text-to-Speech API
type GoogleSynthesizer struct {
	client   *texttospeech.Client
	voice    string
	language string
}

// NewGoogleSynthesizer creates a client using application default credentials
func NewGoogleSynthesizer(ctx context.Context, voice, language string) (*GoogleSynthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if voice == "" {
		voice = DefaultVoice
	}
	if language == "" {
		language = "en-US"
	}
	return &GoogleSynthesizer{client: client, voice: voice, language: language}, nil
}

// Close releases the API connection
func (g *GoogleSynthesizer) Close() error {
	return g.client.Close()
}

// Synthesize returns OGG_OPUS audio for the utterance
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, u domain.Utterance) ([]byte, error) {
	lang := u.Lang
	if lang == "" {
		lang = g.language
	}

	var audio bytes.Buffer
	for _, chunk := range splitTextIntoChunks(u.Text, maxChunkSize) {
		req := &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: lang,
				Name:         g.voice,
			},
			AudioConfig: &texttospeechpb.AudioConfig{
				AudioEncoding: texttospeechpb.AudioEncoding_OGG_OPUS,
				SpeakingRate:  speakingRate(u.Rate),
				Pitch:         pitchSemitones(u.Pitch),
				VolumeGainDb:  volumeGain(u.Volume),
			},
		}
		resp, err := g.client.SynthesizeSpeech(ctx, req)
		if err != nil {
			return nil, err
		}
		audio.Write(resp.AudioContent)
	}
	return audio.Bytes(), nil
}

func splitTextIntoChunks(text string, maxChunkSize int) []string {
	var chunks []string
	var chunk string

	for _, word := range strings.Fields(text) {
		if chunk != "" && len(chunk)+len(word)+1 > maxChunkSize {
			chunks = append(chunks, chunk)
			chunk = word
			continue
		}
		if chunk != "" {
			chunk += " "
		}
		chunk += word
	}
	if chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// speakingRate clamps to the API's 0.25..4.0 range
func speakingRate(rate float64) float64 {
	if rate <= 0 {
		return 1
	}
	return math.Min(math.Max(rate, 0.25), 4)
}

// pitchSemitones maps a 0..2 pitch multiplier onto -20..20 semitones
func pitchSemitones(pitch float64) float64 {
	if pitch <= 0 {
		return 0
	}
	return math.Min(math.Max((pitch-1)*20, -20), 20)
}

// volumeGain maps a 0..1 volume onto decibels, capped at the API's limits
func volumeGain(volume float64) float64 {
	if volume <= 0 || volume >= 1 {
		return 0
	}
	return math.Max(20*math.Log10(volume), -96)
}
