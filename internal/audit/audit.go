// Package audit appends check verdicts to a JSONL trail. The checked text
// is sanitized before it is written, and PII findings are reduced to
// type/count so raw matches never reach disk.
package audit

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promptshield/promptshield/internal/filter"
)

// Event is one audited check.
type Event struct {
	ID             string       `json:"id"`
	Timestamp      string       `json:"timestamp"`
	Direction      string       `json:"direction"`
	Safe           bool         `json:"is_safe"`
	Reason         string       `json:"reason,omitempty"`
	Confidence     float64      `json:"confidence"`
	MatchedPattern string       `json:"matched_pattern,omitempty"`
	PII            []PIISummary `json:"pii,omitempty"`
	Text           string       `json:"text"`
}

// PIISummary is a finding stripped of its examples.
type PIISummary struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Logger writes events to an append-only file. A nil *Logger is valid and
// records nothing.
type Logger struct {
	file *os.File
	mu   sync.Mutex
}

// New opens (or creates) the audit file at path.
func New(path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return &Logger{file: file}, nil
}

// Record writes one event for a completed check.
func (l *Logger) Record(dir filter.Direction, text string, v filter.Verdict) error {
	if l == nil {
		return nil
	}

	event := Event{
		ID:             uuid.NewString(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Direction:      string(dir),
		Safe:           v.Safe,
		Reason:         v.Reason,
		Confidence:     v.Confidence,
		MatchedPattern: v.MatchedPattern,
		Text:           filter.Sanitize(text),
	}
	for _, f := range v.DetectedPII {
		event.PII = append(event.PII, PIISummary{Type: f.Type, Count: f.Count})
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, err = l.file.Write(data)
	return err
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
