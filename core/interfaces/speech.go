// ABOUTME: Speech synthesis interface for the narration engine
// ABOUTME: Models the single-utterance-at-a-time platform contract

package interfaces

import (
	"context"
	"errors"

	"reader-app-core/core/domain"
)

// ErrSpeechInterrupted is reported by a Speech implementation when an
// utterance ends because it was deliberately cancelled (stop, skip, rate
// change). The narration engine treats it as expected and ignores it.
var ErrSpeechInterrupted = errors.New("speech: utterance interrupted")

// SpeakOptions configures a single utterance.
type SpeakOptions struct {
	// Voice is the engine voice name; empty means the engine default.
	Voice string

	// Language is the BCP-47 language tag for the utterance.
	Language string

	// Rate is the speaking rate multiplier (1.0 = normal).
	Rate float64
}

// Speech is a speech synthesis engine. Only one utterance is active at a
// time by platform contract; Speak implicitly cancels any utterance still
// in flight.
type Speech interface {
	// Speak synthesizes and plays text. done is invoked exactly once when
	// the utterance finishes, with nil on natural completion,
	// ErrSpeechInterrupted on deliberate cancellation, or another error.
	Speak(ctx context.Context, text string, opts SpeakOptions, done func(error))

	// Pause suspends the active utterance in place.
	Pause()

	// Resume continues a paused utterance.
	Resume()

	// Cancel discards the active utterance. Its done callback receives
	// ErrSpeechInterrupted.
	Cancel()

	// Voices lists the voices available from the engine.
	Voices(ctx context.Context) ([]domain.Voice, error)
}
