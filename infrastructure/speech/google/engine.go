// ABOUTME: Speech engine backed by Google Cloud Text-to-Speech
// ABOUTME: Chunked synthesis piped to a platform audio sink with pause support

package google

import (
	"bytes"
	"context"
	"strings"
	"sync"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"reader-app-core/core/domain"
	"reader-app-core/core/interfaces"
)

// maxChunkSize bounds the text sent per synthesis request.
const maxChunkSize = 1000

const defaultLanguageCode = "en-US"

// AudioSink is the platform audio output. Playback is single-stream; Play
// replaces whatever is playing.
type AudioSink interface {
	// Play starts playback and invokes done exactly once when the audio
	// finishes or fails. Stop discards playback without invoking done.
	Play(audio []byte, mimeType string, done func(error))

	// Pause suspends playback in place.
	Pause()

	// Resume continues paused playback.
	Resume()

	// Stop discards the current playback.
	Stop()
}

// Engine implements the Speech interface over the Cloud TTS API. One
// utterance at a time; a new Speak interrupts the previous one.
type Engine struct {
	client *texttospeech.Client
	sink   AudioSink
	logger interfaces.Logger

	mu      sync.Mutex
	current *utterance
}

type utterance struct {
	done   func(error)
	cancel context.CancelFunc
	once   sync.Once
}

func (u *utterance) finish(err error) {
	u.once.Do(func() {
		u.done(err)
	})
}

// NewEngine creates a speech engine. The client is shared and closed by the
// caller.
func NewEngine(client *texttospeech.Client, sink AudioSink, logger interfaces.Logger) *Engine {
	return &Engine{
		client: client,
		sink:   sink,
		logger: logger,
	}
}

// Speak synthesizes text and plays it. The previous utterance, if any, is
// interrupted and its done callback fired with ErrSpeechInterrupted.
func (e *Engine) Speak(ctx context.Context, text string, opts interfaces.SpeakOptions, done func(error)) {
	synthCtx, cancel := context.WithCancel(ctx)
	u := &utterance{done: done, cancel: cancel}

	e.mu.Lock()
	prev := e.current
	e.current = u
	e.mu.Unlock()

	if prev != nil {
		prev.cancel()
		e.sink.Stop()
		prev.finish(interfaces.ErrSpeechInterrupted)
	}

	go func() {
		audio, err := e.synthesize(synthCtx, text, opts)
		if err != nil {
			if synthCtx.Err() != nil {
				u.finish(interfaces.ErrSpeechInterrupted)
				return
			}
			u.finish(err)
			return
		}

		e.mu.Lock()
		live := e.current == u
		e.mu.Unlock()
		if !live {
			u.finish(interfaces.ErrSpeechInterrupted)
			return
		}

		e.sink.Play(audio, "audio/ogg", u.finish)
	}()
}

// Pause suspends the active utterance in place.
func (e *Engine) Pause() {
	e.sink.Pause()
}

// Resume continues a paused utterance.
func (e *Engine) Resume() {
	e.sink.Resume()
}

// Cancel discards the active utterance; its done callback receives
// ErrSpeechInterrupted.
func (e *Engine) Cancel() {
	e.mu.Lock()
	u := e.current
	e.current = nil
	e.mu.Unlock()

	if u == nil {
		return
	}
	u.cancel()
	e.sink.Stop()
	u.finish(interfaces.ErrSpeechInterrupted)
}

// Voices lists the available synthesis voices.
func (e *Engine) Voices(ctx context.Context) ([]domain.Voice, error) {
	resp, err := e.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{})
	if err != nil {
		return nil, err
	}

	voices := make([]domain.Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		lang := ""
		if len(v.LanguageCodes) > 0 {
			lang = v.LanguageCodes[0]
		}
		voices = append(voices, domain.Voice{
			Name:     v.Name,
			Language: lang,
		})
	}
	return voices, nil
}

// synthesize runs the chunked synthesis requests and concatenates the audio.
func (e *Engine) synthesize(ctx context.Context, text string, opts interfaces.SpeakOptions) ([]byte, error) {
	language := opts.Language
	if language == "" {
		language = defaultLanguageCode
	}
	rate := opts.Rate
	if rate == 0 {
		rate = 1.0
	}

	var audio bytes.Buffer
	for _, chunk := range splitTextIntoChunks(text, maxChunkSize) {
		req := texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: language,
				Name:         opts.Voice,
			},
			AudioConfig: &texttospeechpb.AudioConfig{
				AudioEncoding: texttospeechpb.AudioEncoding_OGG_OPUS,
				SpeakingRate:  rate,
			},
		}

		resp, err := e.client.SynthesizeSpeech(ctx, &req)
		if err != nil {
			return nil, err
		}
		audio.Write(resp.AudioContent)
	}
	return audio.Bytes(), nil
}

// splitTextIntoChunks breaks text on word boundaries into pieces of at most
// maxSize bytes.
func splitTextIntoChunks(text string, maxSize int) []string {
	var chunks []string
	words := strings.Fields(text)
	var chunk string

	for _, word := range words {
		if len(chunk)+len(word)+1 > maxSize && chunk != "" {
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
