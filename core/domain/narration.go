// ABOUTME: NarrationState domain model for ephemeral text-to-speech playback
// ABOUTME: Derived fresh from the live DOM on each playback start, never persisted

package domain

// PlaybackState is the narration tri-state.
type PlaybackState int

const (
	PlaybackStopped PlaybackState = iota
	PlaybackPlaying
	PlaybackPaused
)

func (s PlaybackState) String() string {
	switch s {
	case PlaybackPlaying:
		return "playing"
	case PlaybackPaused:
		return "paused"
	default:
		return "stopped"
	}
}

// RateSteps is the fixed cycle of supported speaking rates.
var RateSteps = []float64{0.75, 1.0, 1.25, 1.5, 1.75, 2.0}

// NextRate returns the rate following current in the step cycle, wrapping
// back to the first step after the last. An unknown current rate resets to 1.0.
func NextRate(current float64) float64 {
	for i, r := range RateSteps {
		if r == current {
			return RateSteps[(i+1)%len(RateSteps)]
		}
	}
	return 1.0
}

// Voice identifies a speech synthesis voice.
type Voice struct {
	// Name is the engine-specific voice identifier
	Name string

	// Language is the BCP-47 language tag, e.g. "en-US"
	Language string
}

// NarrationState is the ephemeral playback state. The sentence list is
// re-derived from the live DOM each time playback starts from stopped.
type NarrationState struct {
	Sentences     []string
	CurrentIndex  int
	State         PlaybackState
	Rate          float64
	SelectedVoice string
}
