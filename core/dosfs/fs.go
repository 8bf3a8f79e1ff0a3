// Package dosfs maps DOS drive letters onto afero filesystems.
package dosfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding"

	"github.com/josephlewis42/dosbatch/core/batch"
)

var (
	// ErrInvalidDrive is returned for unmounted or malformed drive letters.
	ErrInvalidDrive = errors.New("invalid drive specification")
	// ErrInvalidDirectory is returned by Chdir for missing directories.
	ErrInvalidDirectory = errors.New("invalid directory")
)

type drive struct {
	fs afero.Fs
	// cwd is the working directory relative to the drive root, it always
	// starts with a separator.
	cwd string
}

// FS is a set of DOS drives. Paths use DOS syntax and are matched against
// the backing filesystems case-insensitively.
//
// FS is not safe for concurrent use.
type FS struct {
	drives  map[byte]*drive
	current byte
}

// New creates an FS with no drives.
func New() *FS {
	return &FS{drives: make(map[byte]*drive)}
}

func parseDrive(letter string) (byte, error) {
	letter = strings.TrimSuffix(strings.TrimSpace(letter), ":")
	if len(letter) != 1 || !isLetter(letter[0]) {
		return 0, fmt.Errorf("%q: %w", letter, ErrInvalidDrive)
	}
	return upper(letter[0]), nil
}

// Mount attaches fsys as the given drive, e.g. "C" or "c:". The first drive
// mounted becomes the current drive.
func (f *FS) Mount(letter string, fsys afero.Fs) error {
	d, err := parseDrive(letter)
	if err != nil {
		return err
	}
	if fsys == nil {
		return fmt.Errorf("drive %c: no filesystem", d)
	}

	f.drives[d] = &drive{fs: fsys, cwd: Separator}
	if f.current == 0 {
		f.current = d
	}
	return nil
}

// Drives lists the mounted drives, e.g. ["C:", "D:"].
func (f *FS) Drives() []string {
	var out []string
	for d := range f.drives {
		out = append(out, string(d)+":")
	}
	sort.Strings(out)
	return out
}

// CurrentDrive returns the current drive, e.g. "C:".
func (f *FS) CurrentDrive() string {
	if f.current == 0 {
		return ""
	}
	return string(f.current) + ":"
}

// Chdrive changes the current drive.
func (f *FS) Chdrive(letter string) error {
	d, err := parseDrive(letter)
	if err != nil {
		return err
	}
	if _, ok := f.drives[d]; !ok {
		return fmt.Errorf("%c: %w", d, ErrInvalidDrive)
	}
	f.current = d
	return nil
}

// Getwd returns the working directory of the current drive, e.g. `C:\GAMES`.
func (f *FS) Getwd() string {
	d, ok := f.drives[f.current]
	if !ok {
		return ""
	}
	return f.CurrentDrive() + d.cwd
}

// Abs returns the absolute, upper-cased form of a DOS path.
func (f *FS) Abs(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "/", Separator)

	letter, rest := driveOf(p)
	if letter == 0 {
		letter = f.current
	}
	d, ok := f.drives[letter]
	if !ok {
		return "", fmt.Errorf("%q: %w", p, ErrInvalidDrive)
	}

	if !strings.HasPrefix(rest, Separator) {
		rest = d.cwd + Separator + rest
	}
	return string(letter) + ":" + strings.ToUpper(clean(rest)), nil
}

// resolve maps a DOS path to its drive and host path, matching each element
// case-insensitively. Elements that don't exist are kept as written.
func (f *FS) resolve(p string) (afero.Fs, string, string, error) {
	abs, err := f.Abs(p)
	if err != nil {
		return nil, "", "", err
	}

	letter, parts := components(abs)
	fsys := f.drives[letter].fs

	host := "/"
	for _, part := range parts {
		host = path.Join(host, lookupName(fsys, host, part))
	}
	return fsys, host, abs, nil
}

func lookupName(fsys afero.Fs, dir, name string) string {
	if _, err := fsys.Stat(path.Join(dir, name)); err == nil {
		return name
	}

	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return name
	}
	for _, info := range infos {
		if strings.EqualFold(info.Name(), name) {
			return info.Name()
		}
	}
	return name
}

func wrap(abs string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return &fs.PathError{Op: pathErr.Op, Path: abs, Err: pathErr.Err}
	}
	return fmt.Errorf("%s: %w", abs, err)
}

// Open opens the named file for reading.
func (f *FS) Open(p string) (afero.File, error) {
	fsys, host, abs, err := f.resolve(p)
	if err != nil {
		return nil, err
	}

	fd, err := fsys.Open(host)
	if err != nil {
		return nil, wrap(abs, err)
	}
	return fd, nil
}

// Stat returns information about the named file.
func (f *FS) Stat(p string) (os.FileInfo, error) {
	fsys, host, abs, err := f.resolve(p)
	if err != nil {
		return nil, err
	}

	info, err := fsys.Stat(host)
	if err != nil {
		return nil, wrap(abs, err)
	}
	return info, nil
}

// ReadDir lists a directory sorted by name.
func (f *FS) ReadDir(p string) ([]os.FileInfo, error) {
	fsys, host, abs, err := f.resolve(p)
	if err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(fsys, host)
	if err != nil {
		return nil, wrap(abs, err)
	}
	return infos, nil
}

// Exists reports whether a file or directory exists. Wildcards in the last
// element match any file.
func (f *FS) Exists(p string) bool {
	if HasWildcards(p) {
		matches, err := f.Glob(p)
		return err == nil && len(matches) > 0
	}

	_, err := f.Stat(p)
	return err == nil
}

// Glob returns the absolute DOS paths of the files matching a pattern whose
// last element may contain wildcards. Directories are not matched. A pattern
// without wildcards returns the file itself if it exists.
func (f *FS) Glob(pattern string) ([]string, error) {
	abs, err := f.Abs(pattern)
	if err != nil {
		return nil, err
	}

	dir, name := Split(abs)
	if !HasWildcards(name) {
		if info, err := f.Stat(abs); err == nil && !info.IsDir() {
			return []string{abs}, nil
		}
		return nil, nil
	}

	infos, err := f.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var matches []string
	for _, info := range infos {
		if info.IsDir() || !Match(name, info.Name()) {
			continue
		}
		matches = append(matches, Join(dir, strings.ToUpper(info.Name())))
	}
	sort.Strings(matches)
	return matches, nil
}

// Chdir changes the working directory of the drive named in p, or the
// current drive if p has none. It doesn't change the current drive.
func (f *FS) Chdir(p string) error {
	abs, err := f.Abs(p)
	if err != nil {
		return err
	}

	if info, err := f.Stat(abs); err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", abs, ErrInvalidDirectory)
	}

	letter, rest := driveOf(abs)
	f.drives[letter].cwd = rest
	return nil
}

// Mkdir creates a directory. Its parent must exist.
func (f *FS) Mkdir(p string) error {
	fsys, host, abs, err := f.resolve(p)
	if err != nil {
		return err
	}

	if err := fsys.Mkdir(host, 0755); err != nil {
		return wrap(abs, err)
	}
	return nil
}

// Remove deletes a file or an empty directory.
func (f *FS) Remove(p string) error {
	fsys, host, abs, err := f.resolve(p)
	if err != nil {
		return err
	}

	if err := fsys.Remove(host); err != nil {
		return wrap(abs, err)
	}
	return nil
}

// Opener reads batch files from the mounted drives, decoding them with enc.
func (f *FS) Opener(enc encoding.Encoding) batch.Opener {
	return func(p string) (batch.LineSource, error) {
		fd, err := f.Open(p)
		if err != nil {
			return nil, err
		}
		return batch.NewFileLineSource(fd, enc), nil
	}
}
