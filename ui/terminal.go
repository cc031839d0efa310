package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/logrusorgru/aurora"
	runewidth "github.com/mattn/go-runewidth"
	indent "github.com/openconfig/goyang/pkg/indent"
	"golang.org/x/term"
)

const (
	indentUnit   = "  "
	sectionWidth = 50
	promptPrefix = "> "
	spinnerDelay = 80 * time.Millisecond
)

// console is what the indented children of a TerminalUI share.
type console struct {
	out io.Writer
	in  *bufio.Reader
	au  aurora.Aurora
	// tty enables the spinner. Output that is piped or captured by a tx
	// script only gets the spinner message once.
	tty bool
	// secretFd is the terminal passphrases are read from without echo, -1
	// when stdin is not a terminal.
	secretFd int
}

// TerminalUI writes to stdout and reads from stdin.
type TerminalUI struct {
	*console
	indentLevel int
}

func NewTerminalUI() *TerminalUI {
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	secretFd := int(os.Stdin.Fd())
	if !term.IsTerminal(secretFd) {
		secretFd = -1
	}
	return &TerminalUI{console: &console{
		out:      os.Stdout,
		in:       bufio.NewReader(os.Stdin),
		au:       aurora.NewAurora(tty),
		tty:      tty,
		secretFd: secretFd,
	}}
}

// NewPlainUI talks to out and in without colours or hidden input.
func NewPlainUI(out io.Writer, in io.Reader) *TerminalUI {
	return &TerminalUI{console: &console{
		out:      out,
		in:       bufio.NewReader(in),
		au:       aurora.NewAurora(false),
		secretFd: -1,
	}}
}

func (u *TerminalUI) prefix() string {
	return strings.Repeat(indentUnit, u.indentLevel)
}

func (u *TerminalUI) println(line string) {
	fmt.Fprintf(u.out, "%s%s\n", u.prefix(), line)
}

func (u *TerminalUI) emit(sev Severity, format string, args []any) {
	u.println(u.Style(StyledText{Text: fmt.Sprintf(format, args...), Severity: sev}))
}

func (u *TerminalUI) Style(t StyledText) string {
	switch t.Severity {
	case SeveritySuccess:
		return u.au.Green(t.Text).String()
	case SeverityWarn:
		return u.au.Yellow(t.Text).String()
	case SeverityError:
		return u.au.Red(t.Text).String()
	case SeverityCritical:
		return u.au.Bold(t.Text).String()
	}
	return t.Text
}

func (u *TerminalUI) Info(format string, args ...any)     { u.emit(SeverityInfo, format, args) }
func (u *TerminalUI) Success(format string, args ...any)  { u.emit(SeveritySuccess, format, args) }
func (u *TerminalUI) Warn(format string, args ...any)     { u.emit(SeverityWarn, format, args) }
func (u *TerminalUI) Error(format string, args ...any)    { u.emit(SeverityError, format, args) }
func (u *TerminalUI) Critical(format string, args ...any) { u.emit(SeverityCritical, format, args) }

func (u *TerminalUI) Section(title string) {
	titled := " " + title + " "
	bars := max(sectionWidth-len(titled), 6)
	fmt.Fprintf(u.out, "\n%s%s%s%s\n\n", u.prefix(),
		strings.Repeat("=", bars/2), titled, strings.Repeat("=", bars-bars/2))
}

func (u *TerminalUI) readLine() (string, error) {
	text, err := u.in.ReadString('\n')
	if err != nil && text == "" {
		return "", err
	}
	return strings.TrimRight(text, "\r\n"), nil
}

func (u *TerminalUI) Ask(validate func(string) error) string {
	for {
		fmt.Fprintf(u.out, "%s%s", u.prefix(), promptPrefix)
		input, err := u.readLine()
		if err != nil || validate == nil {
			return input
		}
		verr := validate(input)
		if verr == nil {
			return input
		}
		u.Error("%s", verr)
	}
}

// AskSecret hides the passphrase when stdin is a terminal. Piped input, eg.
// a password manager feeding wallet import, is read as a plain line.
func (u *TerminalUI) AskSecret(prompt string) (string, error) {
	fmt.Fprintf(u.out, "%s%s: ", u.prefix(), prompt)
	if u.secretFd < 0 {
		return u.readLine()
	}
	secret, err := term.ReadPassword(u.secretFd)
	fmt.Fprintln(u.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// Confirm accepts y, n or an empty answer meaning defaultYes.
func (u *TerminalUI) Confirm(prompt string, defaultYes bool) bool {
	options := "[Y/n]"
	if !defaultYes {
		options = "[y/N]"
	}
	u.Info("%s %s", prompt, options)
	answer := u.Ask(func(s string) error {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "y", "n":
			return nil
		}
		return fmt.Errorf("please enter y or n")
	})
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y":
		return true
	case "n":
		return false
	}
	return defaultYes
}

func (u *TerminalUI) KeyValue(rows [][2]string) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}
	for _, r := range rows {
		u.println(fmt.Sprintf("%-*s  %s", width, r[0], r[1]))
	}
}

func (u *TerminalUI) Table(headers []string, rows [][]string) {
	u.TableWithGroups(headers, [][][]string{rows})
}

var tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

func visibleWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

// tableLayout holds the column widths of a table. Cells may be styled, the
// widths only count visible runes.
type tableLayout []int

func newTableLayout(headers []string, groups [][][]string) tableLayout {
	widths := tableLayout(make([]int, len(headers)))
	measure := func(cells []string) {
		for i, c := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], visibleWidth(c))
		}
	}
	measure(headers)
	for _, g := range groups {
		for _, r := range g {
			measure(r)
		}
	}
	return widths
}

func (l tableLayout) rule(left, cross, right string) string {
	parts := make([]string, len(l))
	for i, w := range l {
		parts[i] = strings.Repeat("─", w+2)
	}
	return tableBorder.Render(left + strings.Join(parts, cross) + right)
}

func (l tableLayout) row(cells []string) string {
	bar := tableBorder.Render("│")
	var b strings.Builder
	b.WriteString(bar)
	for i, w := range l {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(" " + cell + strings.Repeat(" ", max(w-visibleWidth(cell), 0)) + " ")
		b.WriteString(bar)
	}
	return b.String()
}

// TableWithGroups draws a bordered table with a divider between groups.
// The header row is left out when headers is empty.
func (u *TerminalUI) TableWithGroups(headers []string, groups [][][]string) {
	if len(groups) == 0 {
		return
	}
	layout := newTableLayout(headers, groups)
	u.println(layout.rule("┌", "┬", "┐"))
	if len(headers) > 0 {
		u.println(layout.row(headers))
		u.println(layout.rule("├", "┼", "┤"))
	}
	for i, g := range groups {
		if i > 0 {
			u.println(layout.rule("├", "┼", "┤"))
		}
		for _, r := range g {
			u.println(layout.row(r))
		}
	}
	u.println(layout.rule("└", "┴", "┘"))
}

// Spinner animates msg while a deploy or tx wait is running. Without a tty
// the message is printed once.
func (u *TerminalUI) Spinner(msg string) func() {
	if !u.tty {
		u.println(msg)
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], spinnerDelay, spinner.WithWriter(u.out))
	s.Prefix = u.prefix()
	s.Suffix = " " + msg
	s.Start()
	return func() {
		s.Stop()
		// the spinner leaves the cursor on its cleared line
		fmt.Fprintln(u.out)
	}
}

func (u *TerminalUI) Indent() UI {
	return &TerminalUI{console: u.console, indentLevel: u.indentLevel + 1}
}

func (u *TerminalUI) Writer() io.Writer {
	if u.indentLevel == 0 {
		return u.out
	}
	return indent.NewWriter(u.out, u.prefix())
}
