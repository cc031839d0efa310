package ui

import (
	"encoding/json"
	"io"
)

// Severity is the visual weight of a piece of inline text. Terminal output
// maps it to a colour, tests and JSON only see the text.
type Severity uint8

const (
	SeverityInfo     Severity = iota // plain
	SeveritySuccess                  // green
	SeverityWarn                     // yellow
	SeverityError                    // red
	SeverityCritical                 // bold
)

// StyledText pairs a plain string with a Severity annotation. It marshals
// to JSON as the plain string.
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// UI is all terminal interaction of fundctl commands. Commands get a
// TerminalUI in production and a RecordingUI in tests.
type UI interface {
	// Style returns t coloured by its Severity, or the plain text when
	// colours are off.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error reports a failure. It doesn't exit.
	Error(format string, args ...any)
	// Critical is data the user must review, eg. a tx they are about to
	// broadcast or just broadcasted.
	Critical(format string, args ...any)

	// Section writes "===== title =====".
	Section(title string)
	// KeyValue renders label/value rows with the values aligned.
	KeyValue(rows [][2]string)
	Table(headers []string, rows [][]string)
	// TableWithGroups is Table with a divider between groups of rows.
	TableWithGroups(headers []string, groups [][][]string)

	// Spinner shows msg with an animation until the returned func is called.
	Spinner(msg string) func()

	// Ask reads a line after a "> " prompt until validate accepts it. A nil
	// validate accepts anything.
	Ask(validate func(string) error) string
	// AskSecret reads a line without echoing it.
	AskSecret(prompt string) (string, error)
	Confirm(prompt string, defaultYes bool) bool

	// Indent returns a child UI one level deeper sharing the same input and
	// output.
	Indent() UI
	// Writer prefixes every line with the current indentation.
	Writer() io.Writer
}
