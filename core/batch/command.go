package batch

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a Command.
type Kind int

const (
	KindEmpty Kind = iota
	KindPrintMessage
	KindShowEchoState
	KindExecuteProgram
	KindGoto
	KindCallBatch
	KindSetVariable
	KindShowVariables
	KindShowVariable
	KindIf
	KindShift
	KindPause
	KindExit
	KindFor
)

var kindNames = [...]string{
	KindEmpty:          "Empty",
	KindPrintMessage:   "PrintMessage",
	KindShowEchoState:  "ShowEchoState",
	KindExecuteProgram: "ExecuteProgram",
	KindGoto:           "Goto",
	KindCallBatch:      "CallBatch",
	KindSetVariable:    "SetVariable",
	KindShowVariables:  "ShowVariables",
	KindShowVariable:   "ShowVariable",
	KindIf:             "If",
	KindShift:          "Shift",
	KindPause:          "Pause",
	KindExit:           "Exit",
	KindFor:            "For",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Command is a decoded batch line. The set of implementations is closed, use
// a type switch to handle each one.
type Command interface {
	Kind() Kind
	fmt.Stringer

	isCommand()
}

// Empty does nothing.
type Empty struct{}

// PrintMessage writes Text followed by a newline.
type PrintMessage struct {
	Text string
}

// ShowEchoState reports whether ECHO is on.
type ShowEchoState struct {
	On bool
}

// ExecuteProgram runs an external program or internal command.
type ExecuteProgram struct {
	Name string
	Args string
}

// Goto jumps to a label in the current batch file.
type Goto struct {
	Label string
}

// CallBatch runs another batch file and returns afterwards.
type CallBatch struct {
	Path string
	Args string
}

// SetVariable assigns Value to the upper-cased Name.
type SetVariable struct {
	Name  string
	Value string
}

// ShowVariables lists the environment.
type ShowVariables struct{}

// ShowVariable shows one environment variable.
type ShowVariable struct {
	Name string
}

// Condition is the test performed by an IF command.
type Condition int

const (
	// ConditionExist tests for a file: IF [NOT] EXIST file command
	ConditionExist Condition = iota
	// ConditionErrorLevel tests the last exit code: IF [NOT] ERRORLEVEL n command
	ConditionErrorLevel
	// ConditionCompare tests string equality: IF [NOT] a==b command
	ConditionCompare
)

func (c Condition) String() string {
	switch c {
	case ConditionExist:
		return "EXIST"
	case ConditionErrorLevel:
		return "ERRORLEVEL"
	case ConditionCompare:
		return "COMPARE"
	default:
		return fmt.Sprintf("Condition(%d)", int(c))
	}
}

// If is a conditional command. Rest holds the unparsed operands followed by
// the command to run, e.g. "file.txt echo found" for EXIST.
type If struct {
	Condition Condition
	Rest      string
	Negate    bool
}

// Shift moves the positional parameters down by one.
type Shift struct{}

// Pause waits for a key press.
type Pause struct{}

// Exit leaves the current batch file.
type Exit struct{}

// For runs Command once per item of the set with Variable replaced.
type For struct {
	Variable string
	Command  string

	set []string
}

// NewFor creates a For command holding a copy of set.
func NewFor(variable string, set []string, command string) For {
	return For{
		Variable: variable,
		Command:  command,
		set:      append([]string(nil), set...),
	}
}

// Set returns a copy of the items the loop iterates over.
func (f For) Set() []string {
	return append([]string(nil), f.set...)
}

func (Empty) Kind() Kind          { return KindEmpty }
func (PrintMessage) Kind() Kind   { return KindPrintMessage }
func (ShowEchoState) Kind() Kind  { return KindShowEchoState }
func (ExecuteProgram) Kind() Kind { return KindExecuteProgram }
func (Goto) Kind() Kind           { return KindGoto }
func (CallBatch) Kind() Kind      { return KindCallBatch }
func (SetVariable) Kind() Kind    { return KindSetVariable }
func (ShowVariables) Kind() Kind  { return KindShowVariables }
func (ShowVariable) Kind() Kind   { return KindShowVariable }
func (If) Kind() Kind             { return KindIf }
func (Shift) Kind() Kind          { return KindShift }
func (Pause) Kind() Kind          { return KindPause }
func (Exit) Kind() Kind           { return KindExit }
func (For) Kind() Kind            { return KindFor }

func (Empty) isCommand()          {}
func (PrintMessage) isCommand()   {}
func (ShowEchoState) isCommand()  {}
func (ExecuteProgram) isCommand() {}
func (Goto) isCommand()           {}
func (CallBatch) isCommand()      {}
func (SetVariable) isCommand()    {}
func (ShowVariables) isCommand()  {}
func (ShowVariable) isCommand()   {}
func (If) isCommand()             {}
func (Shift) isCommand()          {}
func (Pause) isCommand()          {}
func (Exit) isCommand()           {}
func (For) isCommand()            {}

func (Empty) String() string { return "Empty" }

func (c PrintMessage) String() string { return fmt.Sprintf("PrintMessage(%q)", c.Text) }

func (c ShowEchoState) String() string {
	if c.On {
		return "ShowEchoState(ON)"
	}
	return "ShowEchoState(OFF)"
}

func (c ExecuteProgram) String() string {
	return fmt.Sprintf("ExecuteProgram(%q, %q)", c.Name, c.Args)
}

func (c Goto) String() string { return fmt.Sprintf("Goto(%q)", c.Label) }

func (c CallBatch) String() string { return fmt.Sprintf("CallBatch(%q, %q)", c.Path, c.Args) }

func (c SetVariable) String() string {
	return fmt.Sprintf("SetVariable(%q, %q)", c.Name, c.Value)
}

func (ShowVariables) String() string { return "ShowVariables" }

func (c ShowVariable) String() string { return fmt.Sprintf("ShowVariable(%q)", c.Name) }

func (c If) String() string {
	not := ""
	if c.Negate {
		not = "NOT "
	}
	return fmt.Sprintf("If(%s%s, %q)", not, c.Condition, c.Rest)
}

func (Shift) String() string { return "Shift" }
func (Pause) String() string { return "Pause" }
func (Exit) String() string  { return "Exit" }

func (c For) String() string {
	quoted := make([]string, len(c.set))
	for i, item := range c.set {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return fmt.Sprintf("For(%q, [%s], %q)", c.Variable, strings.Join(quoted, " "), c.Command)
}
