package shell

import (
	"strings"

	"github.com/josephlewis42/dosbatch/commands"
)

// Prompt expands the PROMPT environment variable. Unknown $ codes are
// dropped.
func (s *Shell) Prompt() string {
	format, ok := s.Env.LookupEnv(commands.EnvPrompt)
	if !ok || format == "" {
		format = commands.DefaultPrompt
	}

	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '$' {
			sb.WriteByte(format[i])
			continue
		}

		i++
		if i >= len(format) {
			break
		}

		switch format[i] {
		case 'P', 'p':
			sb.WriteString(s.FS.Getwd())
		case 'G', 'g':
			sb.WriteByte('>')
		case 'L', 'l':
			sb.WriteByte('<')
		case 'B', 'b':
			sb.WriteByte('|')
		case 'Q', 'q':
			sb.WriteByte('=')
		case 'N', 'n':
			sb.WriteString(strings.TrimSuffix(s.FS.CurrentDrive(), ":"))
		case 'D', 'd':
			sb.WriteString(s.now().Format(commands.DateFormat))
		case 'T', 't':
			sb.WriteString(s.now().Format(commands.TimeFormat))
		case 'V', 'v':
			sb.WriteString(commands.Version)
		case 'E', 'e':
			sb.WriteByte('\x1b')
		case 'H', 'h':
			sb.WriteByte('\b')
		case '_':
			sb.WriteByte('\n')
		case '$':
			sb.WriteByte('$')
		}
	}
	return sb.String()
}
