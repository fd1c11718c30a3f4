package service

import (
	"context"
	"os"
	"testing"
)

// Exercises the real Text-to-Speech API; skipped unless credentials are present.
func TestGoogleSpeechSynthesize(t *testing.T) {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		t.Skip("GOOGLE_APPLICATION_CREDENTIALS not set, skipping")
	}

	ctx := context.Background()
	speech, err := NewGoogleSpeech(ctx)
	if err != nil {
		t.Fatalf("NewGoogleSpeech returned error: %v", err)
	}

	audio, err := speech.Synthesize(ctx, "Hello from the test suite.")
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if len(audio) == 0 {
		t.Fatal("expected non-empty MP3 audio")
	}
}
