// ABOUTME: Word count and estimated reading time for loaded content
// ABOUTME: Unicode word segmentation so CJK text counts sensibly

package reader

import (
	"time"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"

	"reader-app-core/pkg/utils/duration"
)

// wordsPerMinute is the reading speed assumed by the time estimate.
const wordsPerMinute = 238

// Stats summarizes the loaded document's reading effort.
type Stats struct {
	WordCount   int
	ReadingTime time.Duration
}

// Label returns the display form of the reading time estimate.
func (s Stats) Label() string {
	return duration.ReadingTimeLabel(s.ReadingTime)
}

// countWords segments text by Unicode word boundaries and counts the tokens
// that contain at least one letter or digit, so punctuation runs and
// whitespace never inflate the count.
func countWords(text string) int {
	count := 0
	tokens := words.FromString(text)
	for tokens.Next() {
		if wordLike(tokens.Value()) {
			count++
		}
	}
	return count
}

func wordLike(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// ComputeStats derives the word count and a reading time estimate, rounded
// up to a whole minute with a one minute floor.
func ComputeStats(text string) Stats {
	n := countWords(text)
	minutes := (n + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return Stats{
		WordCount:   n,
		ReadingTime: time.Duration(minutes) * time.Minute,
	}
}
