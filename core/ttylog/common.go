// Package ttylog records and replays console sessions.
package ttylog

import (
	"io"
	"regexp"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	crlf = regexp.MustCompile(`\r?\n`)
)

// EventType is the direction of recorded data.
type EventType string

const (
	// EventOutput is data written to the console.
	EventOutput EventType = "o"
	// EventInput is data typed by the user.
	EventInput EventType = "i"
)

// Entry is a single recorded event.
type Entry struct {
	Time time.Time
	Type EventType
	Data []byte
}

// LogSink receives log events.
type LogSink func(e *Entry) error

// LogSource adapts log readers.
type LogSource interface {
	// Next fetches the next available log entry. It returns io.EOF if the source
	// has no more log entries.
	Next() (*Entry, error)
}

// NewRealTimePlayback plays back the results in real-time.
// If maxSleep > 0, it's used as the maximum duration to pause.
func NewRealTimePlayback(maxSleep time.Duration, next LogSink) LogSink {
	var (
		once sync.Once
		prev time.Time
	)

	return func(e *Entry) error {
		once.Do(func() {
			prev = e.Time
		})

		delta := e.Time.Sub(prev)
		prev = e.Time

		if maxSleep > 0 {
			if delta > maxSleep {
				delta = maxSleep
			}
			time.Sleep(delta)
		}

		return next(e)
	}
}

// NewCRLFAdapter rewrites bare line feeds as CRLF so output replays correctly
// on a raw terminal.
func NewCRLFAdapter(next LogSink) LogSink {
	return func(e *Entry) error {
		e.Data = crlf.ReplaceAll(e.Data, []byte("\r\n"))
		return next(e)
	}
}

// NewClientOutput writes console output to the given writer.
func NewClientOutput(w io.Writer) LogSink {
	return func(e *Entry) error {
		if e.Type != EventOutput {
			return nil
		}
		_, err := w.Write(e.Data)
		return err
	}
}

// Replay reads a stream of events to a callback.
func Replay(recording LogSource, callback LogSink) error {
	for {
		e, err := recording.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		if err := callback(e); err != nil {
			return err
		}
	}
}

// Recorder tees console IO into a LogSink. Sink failures are logged and
// never interrupt the session.
type Recorder struct {
	// Now returns the event time, nil uses time.Now.
	Now func() time.Time

	mu     sync.Mutex
	log    zerolog.Logger
	output LogSink
}

// NewRecorder creates a recorder that forwards all events to output.
func NewRecorder(logger zerolog.Logger, output LogSink) *Recorder {
	return &Recorder{
		log:    logger,
		output: output,
	}
}

func (r *Recorder) record(typ EventType, data []byte) {
	if len(data) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	// Sinks may hold on to or rewrite the data.
	buf := append([]byte(nil), data...)
	if err := r.output(&Entry{Time: now(), Type: typ, Data: buf}); err != nil {
		r.log.Warn().Err(err).Msg("couldn't record session event")
	}
}

// Writer records everything written to w as output.
func (r *Recorder) Writer(w io.Writer) io.Writer {
	return &recorderWriter{r: r, wrapped: w}
}

// Reader records everything read from rd as input.
func (r *Recorder) Reader(rd io.Reader) io.Reader {
	return &recorderReader{r: r, wrapped: rd}
}

type recorderWriter struct {
	r       *Recorder
	wrapped io.Writer
}

var _ io.Writer = (*recorderWriter)(nil)

func (rw *recorderWriter) Write(p []byte) (int, error) {
	n, err := rw.wrapped.Write(p)
	rw.r.record(EventOutput, p[:n])
	return n, err
}

type recorderReader struct {
	r       *Recorder
	wrapped io.Reader
}

var _ io.Reader = (*recorderReader)(nil)

func (rr *recorderReader) Read(p []byte) (int, error) {
	n, err := rr.wrapped.Read(p)
	rr.r.record(EventInput, p[:n])
	return n, err
}
