package speech

import (
	"context"
	"errors"
)

// ErrNoSpeech is returned by StopAndTranscribe when the captured audio
// contains no recognizable speech (or nothing was captured at all).
var ErrNoSpeech = errors.New("no speech detected")

// Recorder captures audio and turns it into text. The actual capture and
// transcription live outside this service (mobile client / STT vendor);
// implementations here only bridge to them.
type Recorder interface {
	Start(ctx context.Context) error
	// StopAndTranscribe stops capture and returns the transcript.
	// May return ErrNoSpeech.
	StopAndTranscribe(ctx context.Context) (string, error)
}

// Speaker plays a response back to the user. Speak blocks until playback
// ends or Stop is called.
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Stop()
}

// NopRecorder is used when audio capture happens on the client and only
// transcribed text reaches this service. Toggling capture against it
// resolves to no speech.
type NopRecorder struct{}

func (NopRecorder) Start(ctx context.Context) error { return nil }

func (NopRecorder) StopAndTranscribe(ctx context.Context) (string, error) {
	return "", ErrNoSpeech
}

// NopSpeaker is used when no TTS backend is wired (text-only clients).
type NopSpeaker struct{}

func (NopSpeaker) Speak(ctx context.Context, text string) error { return nil }
func (NopSpeaker) Stop()                                        {}
