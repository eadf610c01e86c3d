// Package progress streams a run's progress to an observer as newline
// delimited JSON: zero or more progress events followed by exactly one
// terminal event.
package progress

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"lms_sync/internal/domain"
)

const ContentType = "application/x-ndjson"

const (
	TypeProgress = "progress"
	TypeDone     = "done"
)

// Event is a non-terminal line of the stream.
type Event struct {
	Type    string `json:"type"`
	Current int    `json:"current"`
	Total   *int   `json:"total,omitempty"`
}

// Terminal is the last line of the stream. On success the run summary fields
// sit next to type and ok; Body keeps the whole line for decoding them.
type Terminal struct {
	Type              string `json:"type"`
	OK                bool   `json:"ok"`
	Error             string `json:"error,omitempty"`
	ReconnectRequired bool   `json:"reconnectRequired,omitempty"`

	Body json.RawMessage `json:"-"`
}

// Decode unmarshals the success summary of the terminal event into v.
func (t *Terminal) Decode(v any) error {
	return json.Unmarshal(t.Body, v)
}

var ErrClosed = errors.New("progress stream already closed")

// Writer emits events to an HTTP response. Write failures mean the observer
// went away; they are remembered and never interrupt the run.
type Writer struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	started bool
	closed  bool
	err     error
}

func NewWriter(w http.ResponseWriter) *Writer {
	return &Writer{w: w}
}

// Progress writes a progress event. It has the signature of domain.ProgressFunc.
func (w *Writer) Progress(p domain.Progress) {
	_ = w.emit(Event{Type: TypeProgress, Current: p.Current, Total: p.Total}, false)
}

// Done writes the successful terminal event with the fields of summary.
func (w *Writer) Done(summary any) error {
	fields, err := Fields(summary)
	if err != nil {
		return w.Fail(err, false)
	}
	fields["type"] = TypeDone
	return w.emit(fields, true)
}

// Fields flattens summary, which must encode as a JSON object, next to
// "ok": true. It is also the body of a non-streaming result.
func Fields(summary any) (map[string]any, error) {
	fields := map[string]any{}
	if summary != nil {
		data, err := json.Marshal(summary)
		if err != nil {
			return nil, fmt.Errorf("encode summary: %w", err)
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, fmt.Errorf("summary is not an object: %w", err)
		}
	}
	fields["ok"] = true
	return fields, nil
}

// Fail writes the failed terminal event.
func (w *Writer) Fail(runErr error, reconnect bool) error {
	return w.emit(Terminal{Type: TypeDone, OK: false, Error: runErr.Error(), ReconnectRequired: reconnect}, true)
}

// Started reports whether anything has been written. Until then the caller
// may still answer with a plain error response.
func (w *Writer) Started() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

// Closed reports whether the terminal event has been written.
func (w *Writer) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Err returns the first write failure, if any.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Writer) emit(v any, terminal bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if terminal {
		w.closed = true
	}
	if w.err != nil {
		return w.err
	}

	if !w.started {
		h := w.w.Header()
		h.Set("Content-Type", ContentType)
		h.Set("Cache-Control", "no-store")
		h.Set("X-Content-Type-Options", "nosniff")
		w.w.WriteHeader(http.StatusOK)
		w.started = true
	}

	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if _, err := w.w.Write(append(line, '\n')); err != nil {
		w.err = fmt.Errorf("write event: %w", err)
		return w.err
	}
	if f, ok := w.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// Read consumes a stream until its terminal event. Malformed and unknown
// lines are skipped. A stream that ends without a terminal event returns
// io.ErrUnexpectedEOF. Either callback may be nil.
func Read(r io.Reader, onProgress domain.ProgressFunc, onDone func(*Terminal)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(line, &head); err != nil {
			continue
		}

		switch head.Type {
		case TypeProgress:
			var e Event
			if err := json.Unmarshal(line, &e); err != nil {
				continue
			}
			if onProgress != nil {
				onProgress(domain.Progress{Current: e.Current, Total: e.Total})
			}
		case TypeDone:
			var t Terminal
			if err := json.Unmarshal(line, &t); err != nil {
				continue
			}
			t.Body = append(json.RawMessage(nil), line...)
			if onDone != nil {
				onDone(&t)
			}
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return io.ErrUnexpectedEOF
}
