package service

import (
	"context"
	"encoding/base64"
	"fmt"

	texttospeech "google.golang.org/api/texttospeech/v1"
)

// SpeechSynthesizer renders text to MP3 audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type googleSpeech struct {
	svc *texttospeech.Service
}

// NewGoogleSpeech builds a Text-to-Speech client using ambient Google
// credentials (application default credentials).
func NewGoogleSpeech(ctx context.Context) (SpeechSynthesizer, error) {
	svc, err := texttospeech.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating text-to-speech client: %w", err)
	}
	return &googleSpeech{svc: svc}, nil
}

func (g *googleSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: "en-US",
			Name:         "en-US-Wavenet-D",
		},
		AudioConfig: &texttospeech.AudioConfig{AudioEncoding: "MP3"},
	}
	resp, err := g.svc.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decoding audio content: %w", err)
	}
	return audio, nil
}
