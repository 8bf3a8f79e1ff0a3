package batch

import (
	"strings"
	"unicode"
)

// echoSeparators may follow ECHO directly, e.g. "ECHO." prints a blank line
// and "ECHO:ON" prints "ON".
const echoSeparators = ".,:;/[+(="

func isEchoSeparator(c byte) bool {
	return strings.IndexByte(echoSeparators, c) >= 0
}

// splitCommand splits a line into its first whitespace delimited word and the
// remainder with leading whitespace removed.
func splitCommand(line string) (command, arguments string) {
	line = strings.TrimSpace(line)
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimLeftFunc(line[idx+1:], unicode.IsSpace)
}

// hasPrefixFold reports whether s starts with prefix, ignoring case.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// ParseCommand decodes a substituted batch line. ECHO ON/OFF and SHIFT take
// effect immediately; everything else is left to the caller to execute.
func (p *Processor) ParseCommand(line string) Command {
	if strings.TrimSpace(line) == "" {
		return Empty{}
	}

	command, arguments := splitCommand(line)
	upper := strings.ToUpper(command)

	if len(upper) > 4 && strings.HasPrefix(upper, "ECHO") && isEchoSeparator(command[4]) {
		message := command[5:]
		if arguments != "" {
			message += " " + arguments
		}
		return PrintMessage{Text: strings.TrimLeftFunc(message, unicode.IsSpace)}
	}

	switch upper {
	case "ECHO":
		return p.parseEcho(arguments)
	case "REM":
		return Empty{}
	case "GOTO":
		return p.parseGoto(arguments)
	case "CALL":
		return p.parseCall(arguments)
	case "SET":
		return parseSet(arguments)
	case "IF":
		return p.parseIf(arguments)
	case "SHIFT":
		if p.current != nil {
			p.current.shiftParameters()
		}
		return Shift{}
	case "PAUSE":
		return Pause{}
	case "EXIT":
		return Exit{}
	case "FOR":
		return p.parseFor(arguments)
	}

	return ExecuteProgram{Name: command, Args: arguments}
}

func (p *Processor) parseEcho(arguments string) Command {
	switch strings.ToUpper(strings.TrimSpace(arguments)) {
	case "":
		return ShowEchoState{On: p.echo}
	case "ON":
		p.echo = true
		p.log.Debug().Msg("ECHO ON")
		return Empty{}
	case "OFF":
		p.echo = false
		p.log.Debug().Msg("ECHO OFF")
		return Empty{}
	}

	if isEchoSeparator(arguments[0]) {
		return PrintMessage{Text: arguments[1:]}
	}
	return PrintMessage{Text: arguments}
}

func (p *Processor) parseGoto(arguments string) Command {
	label := strings.TrimSpace(arguments)
	label = strings.TrimSpace(strings.TrimPrefix(label, ":"))
	if label == "" {
		p.log.Warn().Msg("GOTO without label")
		return Empty{}
	}
	return Goto{Label: label}
}

func (p *Processor) parseCall(arguments string) Command {
	path, args := splitCommand(arguments)
	if path == "" {
		p.log.Warn().Msg("CALL without batch file")
		return Empty{}
	}
	return CallBatch{Path: path, Args: args}
}

func parseSet(arguments string) Command {
	trimmed := strings.TrimSpace(arguments)
	if trimmed == "" {
		return ShowVariables{}
	}

	name, value, found := strings.Cut(trimmed, "=")
	if !found {
		return ShowVariable{Name: strings.ToUpper(trimmed)}
	}

	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return Empty{}
	}
	return SetVariable{Name: name, Value: value}
}

func (p *Processor) parseIf(arguments string) Command {
	rest := strings.TrimSpace(arguments)
	negate := false

	if hasPrefixFold(rest, "NOT ") {
		negate = true
		rest = strings.TrimLeftFunc(rest[4:], unicode.IsSpace)
	}

	switch {
	case hasPrefixFold(rest, "EXIST "):
		return If{Condition: ConditionExist, Rest: strings.TrimLeftFunc(rest[6:], unicode.IsSpace), Negate: negate}
	case hasPrefixFold(rest, "ERRORLEVEL "):
		return If{Condition: ConditionErrorLevel, Rest: strings.TrimLeftFunc(rest[11:], unicode.IsSpace), Negate: negate}
	case strings.Contains(rest, "=="):
		return If{Condition: ConditionCompare, Rest: rest, Negate: negate}
	}

	p.log.Warn().Str("arguments", arguments).Msg("invalid IF syntax")
	return Empty{}
}

// parseFor decodes: %variable IN (set) DO command
func (p *Processor) parseFor(arguments string) Command {
	fail := func(reason string) Command {
		p.log.Warn().Str("arguments", arguments).Msg("invalid FOR syntax: " + reason)
		return Empty{}
	}

	variable, rest := splitCommand(arguments)
	if len(variable) < 2 || variable[0] != '%' {
		return fail("missing %variable")
	}

	if !hasPrefixFold(rest, "IN") {
		return fail("missing IN")
	}
	rest = strings.TrimLeftFunc(rest[2:], unicode.IsSpace)
	if !strings.HasPrefix(rest, "(") {
		return fail("missing (")
	}

	closing := findClosingParen(rest)
	if closing < 0 {
		return fail("missing )")
	}
	set := splitForSet(rest[1:closing])

	rest = strings.TrimLeftFunc(rest[closing+1:], unicode.IsSpace)
	if len(rest) < 3 || !hasPrefixFold(rest, "DO") || (rest[2] != ' ' && rest[2] != '\t') {
		return fail("missing DO")
	}

	template := strings.TrimSpace(rest[3:])
	if template == "" {
		return fail("missing command")
	}

	return NewFor(variable, set, template)
}

// findClosingParen returns the index of the first ')' outside double quotes
// in s, which starts with '('.
func findClosingParen(s string) int {
	quoted := false
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '"':
			quoted = !quoted
		case ')':
			if !quoted {
				return i
			}
		}
	}
	return -1
}

func isForDelimiter(c byte) bool {
	switch c {
	case ' ', ',', ';', '=', '\t':
		return true
	}
	return false
}

// splitForSet splits the body of a FOR set. Quoted text, quotes included,
// stays in one item.
func splitForSet(body string) []string {
	var (
		items   []string
		current strings.Builder
		quoted  bool
	)

	flush := func() {
		if current.Len() > 0 {
			items = append(items, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '"':
			quoted = !quoted
			current.WriteByte(c)
		case !quoted && isForDelimiter(c):
			flush()
		default:
			current.WriteByte(c)
		}
	}
	flush()

	return items
}
