package ui

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Entry is one recorded UI call.
type Entry struct {
	Method string
	Value  string
}

type recorder struct {
	mu      sync.Mutex
	entries []Entry
	inputs  []string
	nextIdx int
	buf     bytes.Buffer
}

// RecordingUI implements UI for tests. Output is kept as entries, input is
// served from the scripted inputs in order. Running out of inputs panics so
// a wrong script fails loudly. Children made by Indent share the log and the
// inputs.
type RecordingUI struct {
	rec         *recorder
	indentLevel int
}

func NewRecordingUI(scriptedInputs ...string) *RecordingUI {
	return &RecordingUI{rec: &recorder{inputs: scriptedInputs}}
}

func (r *RecordingUI) record(method, value string) {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	r.rec.entries = append(r.rec.entries, Entry{Method: method, Value: value})
}

func (r *RecordingUI) nextInput(caller string) string {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	if r.rec.nextIdx >= len(r.rec.inputs) {
		panic(fmt.Sprintf(
			"RecordingUI: no scripted input left for %s (consumed %d so far)",
			caller, r.rec.nextIdx,
		))
	}
	input := r.rec.inputs[r.rec.nextIdx]
	r.rec.nextIdx++
	return input
}

func (r *RecordingUI) Style(t StyledText) string {
	return t.Text
}

func (r *RecordingUI) Info(format string, args ...any) {
	r.record("Info", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Success(format string, args ...any) {
	r.record("Success", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Warn(format string, args ...any) {
	r.record("Warn", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Error(format string, args ...any) {
	r.record("Error", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Critical(format string, args ...any) {
	r.record("Critical", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Section(title string) {
	r.record("Section", title)
}

// KeyValue records one entry per row as "label: value".
func (r *RecordingUI) KeyValue(rows [][2]string) {
	for _, row := range rows {
		r.record("KeyValue", row[0]+": "+row[1])
	}
}

// Table records one entry per row with cells joined by " | ".
func (r *RecordingUI) Table(headers []string, rows [][]string) {
	r.TableWithGroups(headers, [][][]string{rows})
}

func (r *RecordingUI) TableWithGroups(headers []string, groups [][][]string) {
	if len(headers) > 0 {
		r.record("TableHeader", strings.Join(headers, " | "))
	}
	for _, group := range groups {
		for _, row := range group {
			r.record("Table", strings.Join(row, " | "))
		}
	}
}

func (r *RecordingUI) Spinner(msg string) func() {
	r.record("Spinner", msg)
	return func() {}
}

// Ask panics when the scripted input fails validate since there is nobody
// to correct it.
func (r *RecordingUI) Ask(validate func(string) error) string {
	input := r.nextInput("Ask")
	r.record("Ask", input)
	if validate != nil {
		if err := validate(input); err != nil {
			panic(fmt.Sprintf(
				"RecordingUI: scripted input %q failed validation in Ask: %s",
				input, err,
			))
		}
	}
	return input
}

// AskSecret records the prompt, never the secret.
func (r *RecordingUI) AskSecret(prompt string) (string, error) {
	r.record("AskSecret", prompt)
	return r.nextInput("AskSecret"), nil
}

// Confirm accepts "y"/"yes" and "n"/"no", "" meaning defaultYes.
func (r *RecordingUI) Confirm(prompt string, defaultYes bool) bool {
	r.record("Confirm", prompt)
	input := strings.ToLower(strings.TrimSpace(r.nextInput("Confirm")))
	if input == "" {
		return defaultYes
	}
	return input == "y" || input == "yes"
}

func (r *RecordingUI) Indent() UI {
	return &RecordingUI{rec: r.rec, indentLevel: r.indentLevel + 1}
}

// Writer appends to a buffer read back with Output. Indentation isn't
// applied.
func (r *RecordingUI) Writer() io.Writer {
	return &lockedWriter{rec: r.rec}
}

type lockedWriter struct {
	rec *recorder
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.rec.mu.Lock()
	defer w.rec.mu.Unlock()
	return w.rec.buf.Write(p)
}

// --- Test helpers ---

func (r *RecordingUI) Entries() []Entry {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	return append([]Entry{}, r.rec.entries...)
}

func (r *RecordingUI) InfoMessages() []string {
	return r.methodValues("Info")
}

func (r *RecordingUI) ErrorMessages() []string {
	return r.methodValues("Error")
}

func (r *RecordingUI) CriticalMessages() []string {
	return r.methodValues("Critical")
}

func (r *RecordingUI) TableRows() []string {
	return r.methodValues("Table")
}

// HasMessage reports whether any entry contains substr, ignoring case.
func (r *RecordingUI) HasMessage(substr string) bool {
	lower := strings.ToLower(substr)
	for _, e := range r.Entries() {
		if strings.Contains(strings.ToLower(e.Value), lower) {
			return true
		}
	}
	return false
}

func (r *RecordingUI) Output() string {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	return r.rec.buf.String()
}

func (r *RecordingUI) methodValues(method string) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Method == method {
			out = append(out, e.Value)
		}
	}
	return out
}
