package ttylog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// AsciicastFileExt holds the suggested file extension for asciicast files.
const AsciicastFileExt = "cast"

// AsciicastHeader is the first line of an asciicast v2 file.
type AsciicastHeader struct {
	Version   int               `json:"version"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Timestamp int64             `json:"timestamp,omitempty"`
	Title     string            `json:"title,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

// DefaultAsciicastHeader describes an 80x25 DOS console.
func DefaultAsciicastHeader() AsciicastHeader {
	return AsciicastHeader{
		Version: 2,
		Width:   80,
		Height:  25,
		Title:   "dosbatch session",
		Env: map[string]string{
			"TERM":  "xterm-256color",
			"SHELL": "COMMAND.COM",
		},
	}
}

func writeJSONLine(w io.Writer, structure interface{}) error {
	line, err := json.Marshal(structure)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s\n", string(line))
	return err
}

// NewAsciicastLogSink creates a LogSink compatible with the asciicast v2
// format. The header is written with the first event, its timestamp is set
// from that event.
//
// See: https://github.com/asciinema/asciinema/blob/develop/doc/asciicast-v2.md
func NewAsciicastLogSink(w io.Writer, header AsciicastHeader) LogSink {
	var (
		start time.Time
		once  sync.Once
	)

	return func(e *Entry) error {
		var headerErr error
		once.Do(func() {
			start = e.Time
			header.Timestamp = start.Unix()
			headerErr = writeJSONLine(w, header)
		})
		if headerErr != nil {
			return headerErr
		}

		switch e.Type {
		case EventOutput, EventInput:
			deltaSecond := microsecondsToSeconds(e.Time.Sub(start).Microseconds())
			return writeJSONLine(w, &asciicastLogLine{deltaSecond, string(e.Type), string(e.Data)})
		default:
			return fmt.Errorf("unknown event: %q", e.Type)
		}
	}
}

// AsciicastLogSource reads entries from an asciicast v2 file.
type AsciicastLogSource struct {
	r             *bufio.Reader
	consumeHeader sync.Once
	header        AsciicastHeader
	headerErr     error
}

var _ LogSource = (*AsciicastLogSource)(nil)

// NewAsciicastLogSource reads log events from an Asciicast formatted file.
func NewAsciicastLogSource(r io.Reader) *AsciicastLogSource {
	return &AsciicastLogSource{r: bufio.NewReader(r)}
}

func (log *AsciicastLogSource) readHeader() {
	log.consumeHeader.Do(func() {
		line, err := log.r.ReadBytes('\n')
		if err != nil && len(line) == 0 {
			log.headerErr = err
			return
		}
		if err := json.Unmarshal(line, &log.header); err != nil {
			log.headerErr = fmt.Errorf("malformed header: %w", err)
			return
		}
		if log.header.Version != 2 {
			log.headerErr = fmt.Errorf("unsupported asciicast version %d", log.header.Version)
		}
	})
}

// Header returns the file's header.
func (log *AsciicastLogSource) Header() (AsciicastHeader, error) {
	log.readHeader()
	return log.header, log.headerErr
}

// Next gets the next log entry, it returns io.EOF if there are no more.
func (log *AsciicastLogSource) Next() (*Entry, error) {
	log.readHeader()
	if log.headerErr != nil {
		return nil, log.headerErr
	}
	start := time.Unix(log.header.Timestamp, 0)

	for {
		line, err := log.r.ReadBytes('\n')
		if err != nil && len(line) == 0 {
			return nil, err
		}

		if len(line) <= 1 {
			// Skip blank lines
			continue
		}

		var asciicastLine asciicastLogLine
		if err := json.Unmarshal(line, &asciicastLine); err != nil {
			return nil, err
		}

		typ := EventType(asciicastLine.EventType)
		if typ != EventOutput && typ != EventInput {
			// skip unknown events
			continue
		}

		offset := time.Duration(secondsToMicroseconds(asciicastLine.TimeSeconds)) * time.Microsecond
		return &Entry{
			Time: start.Add(offset),
			Type: typ,
			Data: []byte(asciicastLine.EventData),
		}, nil
	}
}

type asciicastLogLine struct {
	TimeSeconds float64
	EventType   string
	EventData   string
}

func (log *asciicastLogLine) UnmarshalJSON(data []byte) error {
	var v []interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if count := len(v); count != 3 {
		return fmt.Errorf("malformed line, expected 3 entries got %d", count)
	}

	var timeOk, typeOk, dataOk bool
	log.TimeSeconds, timeOk = v[0].(float64)
	log.EventType, typeOk = v[1].(string)
	log.EventData, dataOk = v[2].(string)

	if !timeOk || !typeOk || !dataOk {
		return fmt.Errorf("malformed data in line: %q", v)
	}

	return nil
}

func (log *asciicastLogLine) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{log.TimeSeconds, log.EventType, log.EventData})
}

func microsecondsToSeconds(microseconds int64) (seconds float64) {
	return (float64(microseconds) * float64(time.Microsecond)) / float64(time.Second)
}

func secondsToMicroseconds(seconds float64) (microseconds int64) {
	return int64(seconds*float64(time.Second)) / int64(time.Microsecond)
}
