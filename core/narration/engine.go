// ABOUTME: Narration playback state machine driving the Speech port
// ABOUTME: Sentence list and mapper are rebuilt on every start from stopped

package narration

import (
	"context"
	"sync"

	"golang.org/x/net/html"

	"reader-app-core/core/dom"
	"reader-app-core/core/domain"
	"reader-app-core/core/interfaces"
)

// Engine plays a document aloud sentence by sentence. Transitions follow
// stopped -> playing <-> paused -> stopped; any content swap must go through
// Stop so the next start re-derives the sentence list from the live tree.
type Engine struct {
	mu sync.Mutex

	speech interfaces.Speech
	logger interfaces.Logger

	doc *dom.Document

	state     domain.PlaybackState
	sentences []string
	index     int
	rate      float64
	language  string

	voice       domain.Voice
	voiceChosen bool

	mapper     *Mapper
	activeMark *html.Node

	// restartOnResume is set when the position changed while paused; the
	// suspended utterance no longer matches and resume must start fresh.
	restartOnResume bool

	// generation guards done callbacks from utterances cancelled by a
	// newer Speak, Stop, skip, or rate change.
	generation int

	// visible reports whether a range is on the current page. Used to pick
	// the starting sentence; nil means always start from the top.
	visible func(dom.Range) bool

	// onSentence fires when an utterance begins, with the sentence's
	// resolved range when mapping succeeded.
	onSentence func(index int, r dom.Range, mapped bool)
}

// NewEngine builds a narration engine over the given document.
func NewEngine(speech interfaces.Speech, logger interfaces.Logger) *Engine {
	return &Engine{
		speech: speech,
		logger: logger,
		state:  domain.PlaybackStopped,
		rate:   1.0,
	}
}

// SetDocument points the engine at new content. Playback is stopped first;
// sentence lists never survive a content swap.
func (e *Engine) SetDocument(doc *dom.Document) {
	e.Stop()
	e.mu.Lock()
	e.doc = doc
	e.mu.Unlock()
}

// SetVisibilityTest installs the page-visibility predicate used to choose
// the starting sentence.
func (e *Engine) SetVisibilityTest(visible func(dom.Range) bool) {
	e.mu.Lock()
	e.visible = visible
	e.mu.Unlock()
}

// OnSentence registers the per-utterance callback.
func (e *Engine) OnSentence(fn func(index int, r dom.Range, mapped bool)) {
	e.mu.Lock()
	e.onSentence = fn
	e.mu.Unlock()
}

// SetVoice pins an explicit voice choice, overriding auto-detection.
func (e *Engine) SetVoice(v domain.Voice) {
	e.mu.Lock()
	e.voice = v
	e.voiceChosen = true
	e.mu.Unlock()
}

// State returns a snapshot of the playback state.
func (e *Engine) State() domain.NarrationState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.NarrationState{
		Sentences:     e.sentences,
		CurrentIndex:  e.index,
		State:         e.state,
		Rate:          e.rate,
		SelectedVoice: e.voice.Name,
	}
}

// Play starts or resumes narration. From stopped it re-derives the sentence
// list, re-detects language and voice unless one was pinned, and begins at
// the first sentence visible on the current page. From paused it resumes the
// suspended utterance in place.
func (e *Engine) Play(ctx context.Context) {
	e.mu.Lock()
	switch e.state {
	case domain.PlaybackPlaying:
		e.mu.Unlock()
		return
	case domain.PlaybackPaused:
		e.state = domain.PlaybackPlaying
		if e.restartOnResume {
			e.restartOnResume = false
			e.generation++
			e.speakLocked(ctx)
			return
		}
		e.mu.Unlock()
		e.speech.Resume()
		return
	}

	if e.doc == nil {
		e.mu.Unlock()
		return
	}
	root := e.doc.Root()
	e.sentences = Segment(root)
	if len(e.sentences) == 0 {
		e.mu.Unlock()
		return
	}
	e.mapper = NewMapper(root)
	e.detectVoiceLocked(ctx, root)
	e.index = e.startIndexLocked()
	e.state = domain.PlaybackPlaying
	e.speakLocked(ctx)
}

// Pause suspends the active utterance in place.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.state != domain.PlaybackPlaying {
		e.mu.Unlock()
		return
	}
	e.state = domain.PlaybackPaused
	e.mu.Unlock()
	e.speech.Pause()
}

// Stop cancels playback synchronously and discards the sentence list. The
// active sentence marker is cleared before return.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state == domain.PlaybackStopped {
		e.mu.Unlock()
		return
	}
	e.generation++
	e.state = domain.PlaybackStopped
	e.sentences = nil
	e.mapper = nil
	e.index = 0
	e.restartOnResume = false
	mark := e.activeMark
	e.activeMark = nil
	e.mu.Unlock()

	e.speech.Cancel()
	clearActive(mark)
}

// Skip moves delta sentences, clamped to the list bounds. While playing the
// current utterance is cancelled and the target sentence spoken; while
// paused only the position updates, taking effect on resume.
func (e *Engine) Skip(ctx context.Context, delta int) {
	e.mu.Lock()
	if e.state == domain.PlaybackStopped || len(e.sentences) == 0 {
		e.mu.Unlock()
		return
	}
	target := e.index + delta
	if target < 0 {
		target = 0
	}
	if target >= len(e.sentences) {
		target = len(e.sentences) - 1
	}
	e.index = target
	if e.state == domain.PlaybackPaused {
		e.restartOnResume = true
		e.mu.Unlock()
		return
	}
	e.generation++
	e.speakLocked(ctx)
}

// CycleRate advances to the next speaking rate. When playing, the current
// sentence restarts at the new rate.
func (e *Engine) CycleRate(ctx context.Context) float64 {
	e.mu.Lock()
	e.rate = domain.NextRate(e.rate)
	rate := e.rate
	if e.state != domain.PlaybackPlaying {
		e.mu.Unlock()
		return rate
	}
	e.generation++
	e.speakLocked(ctx)
	return rate
}

// detectVoiceLocked runs language detection on a fresh segmentation and
// picks a matching voice unless one was pinned. A detection with no matching
// voice leaves the engine default in place.
func (e *Engine) detectVoiceLocked(ctx context.Context, root *html.Node) {
	e.language = DetectLanguage(root)
	if e.voiceChosen {
		return
	}
	voices, err := e.speech.Voices(ctx)
	if err != nil {
		e.logger.Warn("voice listing failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if v, ok := PickVoice(voices, e.language); ok {
		e.voice = v
	}
}

// startIndexLocked picks the first sentence whose range is visible on the
// current page, falling back to the top of the document.
func (e *Engine) startIndexLocked() int {
	if e.visible == nil {
		return 0
	}
	for i, s := range e.sentences {
		span := e.mapper.Locate(s)
		if span == Unmapped {
			continue
		}
		r, ok := e.mapper.RangeForSpan(span)
		if ok && e.visible(r) {
			return i
		}
	}
	return 0
}

// speakLocked starts the utterance for the current index and releases e.mu.
// The previous sentence marker is cleared before locating the next one: the
// wrap splits text nodes the mapper's pieces point into, and normalization
// on clear merges them back.
func (e *Engine) speakLocked(ctx context.Context) {
	sentence := e.sentences[e.index]
	gen := e.generation

	clearActive(e.activeMark)
	e.activeMark = nil

	var r dom.Range
	mapped := false
	if e.mapper != nil {
		span := e.mapper.Locate(sentence)
		if span == Unmapped && e.doc != nil {
			// The forward-only cursor already passed this sentence after
			// a skip back or a restart; rebuild once and retry.
			e.mapper = NewMapper(e.doc.Root())
			span = e.mapper.Locate(sentence)
		}
		if span != Unmapped {
			r, mapped = e.mapper.RangeForSpan(span)
		}
	}
	if mapped {
		e.activeMark = markActive(r)
	}

	opts := interfaces.SpeakOptions{
		Voice:    e.voice.Name,
		Language: e.language,
		Rate:     e.rate,
	}
	index := e.index
	onSentence := e.onSentence
	e.mu.Unlock()

	if onSentence != nil {
		onSentence(index, r, mapped)
	}

	e.speech.Speak(ctx, sentence, opts, func(err error) {
		e.utteranceDone(ctx, gen, err)
	})
}

// utteranceDone advances playback when the finished utterance is still the
// live one. Interruptions are expected; any other error is logged and
// playback stalls in place rather than racing ahead.
func (e *Engine) utteranceDone(ctx context.Context, gen int, err error) {
	e.mu.Lock()
	if gen != e.generation || e.state != domain.PlaybackPlaying {
		e.mu.Unlock()
		return
	}
	if err != nil {
		index := e.index
		e.mu.Unlock()
		if err == interfaces.ErrSpeechInterrupted {
			return
		}
		e.logger.Error("utterance failed", map[string]interface{}{
			"sentence": index,
			"error":    err.Error(),
		})
		return
	}
	if e.index+1 >= len(e.sentences) {
		e.mu.Unlock()
		e.Stop()
		return
	}
	e.index++
	e.generation++
	e.speakLocked(ctx)
}
