package batch

import (
	"bufio"
	"io"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// dosEOF is the Ctrl-Z marker DOS editors append to text files.
const dosEOF = '\x1a'

// LineSource supplies the raw lines of a batch file.
type LineSource interface {
	// ReadLine returns the next line without its terminator. The boolean is
	// false once the source is exhausted or unreadable.
	ReadLine() (string, bool)

	// Reset rewinds the source to the first line.
	Reset() bool

	// Close releases the source.
	Close() error
}

// Opener opens the batch file at path.
type Opener func(path string) (LineSource, error)

// FsOpener opens batch files from the given filesystem, decoding them with
// enc. A nil enc reads the bytes unchanged.
func FsOpener(fs afero.Fs, enc encoding.Encoding) Opener {
	return func(path string) (LineSource, error) {
		fd, err := fs.Open(path)
		if err != nil {
			return nil, err
		}
		return NewFileLineSource(fd, enc), nil
	}
}

// HostOpener opens batch files from the host OS as code page 437 text.
func HostOpener() Opener {
	return FsOpener(afero.NewOsFs(), charmap.CodePage437)
}

// SeekableFile is the subset of afero.File a FileLineSource needs.
type SeekableFile interface {
	io.ReadSeeker
	io.Closer
}

// FileLineSource reads lines from a seekable file.
type FileLineSource struct {
	file   SeekableFile
	enc    encoding.Encoding
	reader *bufio.Reader
	eof    bool
}

var _ LineSource = (*FileLineSource)(nil)

// NewFileLineSource creates a LineSource over file. The source owns the file
// and closes it on Close.
func NewFileLineSource(file SeekableFile, enc encoding.Encoding) *FileLineSource {
	src := &FileLineSource{file: file, enc: enc}
	src.rewire()
	return src
}

func (f *FileLineSource) rewire() {
	var r io.Reader = f.file
	if f.enc != nil {
		r = transform.NewReader(r, f.enc.NewDecoder())
	}
	f.reader = bufio.NewReader(r)
	f.eof = false
}

// ReadLine implements LineSource.ReadLine.
func (f *FileLineSource) ReadLine() (string, bool) {
	if f.eof || f.reader == nil {
		return "", false
	}

	line, err := f.reader.ReadString('\n')
	if err != nil {
		// Read faults look the same as a clean end of file.
		f.eof = true
		if line == "" {
			return "", false
		}
	}

	if idx := strings.IndexRune(line, dosEOF); idx >= 0 {
		f.eof = true
		line = line[:idx]
		if line == "" {
			return "", false
		}
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true
}

// Reset implements LineSource.Reset.
func (f *FileLineSource) Reset() bool {
	if f.file == nil {
		return false
	}
	if _, err := f.file.Seek(0, io.SeekStart); err != nil {
		return false
	}
	f.rewire()
	return true
}

// Close implements LineSource.Close.
func (f *FileLineSource) Close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	f.reader = nil
	return err
}

// MemoryLineSource serves a fixed set of lines.
type MemoryLineSource struct {
	lines []string
	pos   int
}

var _ LineSource = (*MemoryLineSource)(nil)

// NewMemoryLineSource creates a source over a copy of lines.
func NewMemoryLineSource(lines []string) *MemoryLineSource {
	return &MemoryLineSource{lines: append([]string(nil), lines...)}
}

// NewStringLineSource splits content on LF or CRLF line endings.
func NewStringLineSource(content string) *MemoryLineSource {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return &MemoryLineSource{lines: strings.Split(content, "\n")}
}

// ReadLine implements LineSource.ReadLine.
func (m *MemoryLineSource) ReadLine() (string, bool) {
	if m.pos >= len(m.lines) {
		return "", false
	}
	line := m.lines[m.pos]
	m.pos++
	return line, true
}

// Reset implements LineSource.Reset.
func (m *MemoryLineSource) Reset() bool {
	m.pos = 0
	return true
}

// Close implements LineSource.Close.
func (m *MemoryLineSource) Close() error {
	return nil
}
