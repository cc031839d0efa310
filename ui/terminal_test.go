package ui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal(input string) (*TerminalUI, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewPlainUI(out, strings.NewReader(input)), out
}

func lines(out *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(ansi.Strip(out.String()), "\n"), "\n")
}

func TestTerminalMessagesAndIndent(t *testing.T) {
	u, out := newTestTerminal("")
	u.Info("Network: %s", "development")
	u.Indent().Warn("careful")
	u.Indent().Indent().Critical("Signed tx: %s", "0x01")

	assert.Equal(t, []string{
		"Network: development",
		"  careful",
		"    Signed tx: 0x01",
	}, lines(out))
}

func TestTerminalSection(t *testing.T) {
	u, out := newTestTerminal("")
	u.Section("Deploy")
	line := strings.TrimSpace(out.String())
	assert.Contains(t, line, " Deploy ")
	assert.Len(t, line, sectionWidth)
	assert.True(t, strings.HasPrefix(line, "====="))
}

func TestTerminalKeyValueAligns(t *testing.T) {
	u, out := newTestTerminal("")
	u.KeyValue([][2]string{{"Account", "0xabc"}, {"Balance", "1 ETH"}, {"Source", "keystore"}})
	assert.Equal(t, []string{
		"Account  0xabc",
		"Balance  1 ETH",
		"Source   keystore",
	}, lines(out))
}

func TestTerminalTableWithGroups(t *testing.T) {
	u, out := newTestTerminal("")
	u.TableWithGroups([]string{"Name", "Chain"}, [][][]string{
		{{"development", "1337"}},
		{{"sepolia", "11155111"}},
	})
	got := lines(out)
	require.Len(t, got, 7)
	assert.Equal(t, "┌─────────────┬──────────┐", got[0])
	assert.Equal(t, "│ Name        │ Chain    │", got[1])
	assert.Equal(t, "│ development │ 1337     │", got[3])
	assert.Equal(t, "├─────────────┼──────────┤", got[4])
	assert.Equal(t, "│ sepolia     │ 11155111 │", got[5])
	assert.Equal(t, "└─────────────┴──────────┘", got[6])
}

func TestTerminalAskRetriesUntilValid(t *testing.T) {
	u, out := newTestTerminal("abc\n42\n")
	answer := u.Ask(func(s string) error {
		if s != "42" {
			return fmt.Errorf("not the answer")
		}
		return nil
	})
	assert.Equal(t, "42", answer)
	assert.Contains(t, out.String(), "not the answer")
}

func TestTerminalConfirm(t *testing.T) {
	u, _ := newTestTerminal("\nn\nmaybe\ny\n")
	assert.True(t, u.Confirm("Continue?", true))
	assert.False(t, u.Confirm("Continue?", true))
	assert.True(t, u.Confirm("Continue?", false))
}

func TestTerminalSpinnerWithoutTTY(t *testing.T) {
	u, out := newTestTerminal("")
	stop := u.Spinner("Deploying Funding")
	stop()
	assert.Equal(t, "Deploying Funding\n", out.String())
}

func TestTerminalIndentedWriter(t *testing.T) {
	u, out := newTestTerminal("")
	fmt.Fprint(u.Indent().Writer(), "a\nb\n")
	assert.Equal(t, "  a\n  b\n", out.String())
}

func TestStyleWithoutColours(t *testing.T) {
	u, _ := newTestTerminal("")
	assert.Equal(t, "done", u.Style(StyledText{Text: "done", Severity: SeveritySuccess}))
}

func TestTerminalAskSecretFromPipe(t *testing.T) {
	u, out := newTestTerminal("s3cret\r\n")
	secret, err := u.Indent().AskSecret("Enter passphrase")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", secret)
	assert.Equal(t, "  Enter passphrase: ", out.String())

	_, err = u.AskSecret("Enter it again")
	assert.Error(t, err)
}

func TestTerminalAskStopsAtEOF(t *testing.T) {
	u, _ := newTestTerminal("")
	assert.Equal(t, "", u.Ask(func(string) error { return fmt.Errorf("never valid") }))
}

func TestTerminalTableWithoutHeaders(t *testing.T) {
	u, out := newTestTerminal("")
	u.Table(nil, [][]string{{"a", "bb"}, {"ccc"}})
	assert.Equal(t, []string{
		"┌─────┬────┐",
		"│ a   │ bb │",
		"│ ccc │    │",
		"└─────┴────┘",
	}, lines(out))
}
