package dosfs

import (
	"path"
	"strings"
)

// Separator is the DOS path separator.
const Separator = `\`

// driveOf splits a leading "X:" off p, returning the upper-cased drive letter
// or 0 if p has none.
func driveOf(p string) (byte, string) {
	if len(p) >= 2 && p[1] == ':' && isLetter(p[0]) {
		return upper(p[0]), p[2:]
	}
	return 0, p
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// clean resolves "." and ".." in a drive relative path. The result always
// starts with a separator.
func clean(p string) string {
	var parts []string
	for _, part := range strings.Split(p, Separator) {
		switch part {
		case "", ".":
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, part)
		}
	}
	return Separator + strings.Join(parts, Separator)
}

// components splits an absolute DOS path into its drive and path elements.
func components(abs string) (byte, []string) {
	drive, rest := driveOf(abs)
	var parts []string
	for _, part := range strings.Split(rest, Separator) {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return drive, parts
}

// Split returns the directory and file name of a DOS path.
func Split(p string) (dir, file string) {
	p = strings.ReplaceAll(p, "/", Separator)
	idx := strings.LastIndexAny(p, `\:`)
	if idx < 0 {
		return "", p
	}

	dir, file = p[:idx+1], p[idx+1:]
	if len(dir) > 1 && strings.HasSuffix(dir, Separator) && !strings.HasSuffix(dir, `:\`) {
		dir = strings.TrimSuffix(dir, Separator)
	}
	return dir, file
}

// Join joins DOS path elements with a single separator.
func Join(elem ...string) string {
	var sb strings.Builder
	for _, e := range elem {
		if e == "" {
			continue
		}
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), Separator) && !strings.HasSuffix(sb.String(), ":") {
			sb.WriteString(Separator)
		}
		if sb.Len() > 0 {
			e = strings.TrimPrefix(e, Separator)
		}
		sb.WriteString(e)
	}
	return sb.String()
}

// Ext returns the upper-cased extension of the file name in p, including the
// dot, or "" if it has none.
func Ext(p string) string {
	_, file := Split(p)
	if idx := strings.LastIndexByte(file, '.'); idx >= 0 {
		return strings.ToUpper(file[idx:])
	}
	return ""
}

// HasWildcards reports whether p contains * or ?.
func HasWildcards(p string) bool {
	return strings.ContainsAny(p, "*?")
}

// Match reports whether the file name matches a DOS wildcard pattern,
// ignoring case. "*.*" matches names without an extension too.
func Match(pattern, name string) bool {
	pattern = strings.ToUpper(pattern)
	name = strings.ToUpper(name)

	if pattern == "*.*" || pattern == "*" {
		return true
	}
	if !strings.Contains(name, ".") && strings.HasSuffix(pattern, ".*") {
		pattern = strings.TrimSuffix(pattern, ".*")
	}

	escaped := strings.NewReplacer(`\`, `\\`, "[", `\[`).Replace(pattern)
	ok, err := path.Match(escaped, name)
	return err == nil && ok
}
