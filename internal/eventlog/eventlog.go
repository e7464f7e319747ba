// Package eventlog appends structured run events to a JSONL file under the
// output directory.
package eventlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event is one entry in the run event stream.
type Event struct {
	RunID     string      `json:"run_id"`
	Level     string      `json:"level"`
	EventType string      `json:"event_type"`
	File      string      `json:"file,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}

type EventLog struct {
	mu   sync.Mutex
	file *os.File
}

func New(path string) (*EventLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}

	return &EventLog{file: file}, nil
}

func (l *EventLog) Emit(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	payload := struct {
		TS string `json:"ts"`
		Event
	}{
		TS:    time.Now().UTC().Format(time.RFC3339),
		Event: event,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return err
	}

	return nil
}

func (l *EventLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
