package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

func TestPrinter_Table(t *testing.T) {
	var out, errOut bytes.Buffer
	p, err := NewPrinter(&out, &errOut, "", "")
	require.NoError(t, err)

	table := &Table{Headers: []string{"id", "email"}}
	table.Append(1, "a@example.com")
	table.Append(22, "b@example.com")
	require.NoError(t, p.Print([]row{{1, "a@example.com"}}, table))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[2], "b@example.com")
}

func TestPrinter_EmptyTable(t *testing.T) {
	var out bytes.Buffer
	p, err := NewPrinter(&out, &out, FormatTable, "")
	require.NoError(t, err)
	require.NoError(t, p.Print(nil, &Table{Headers: []string{"id"}}))
	assert.Contains(t, out.String(), "(no results)")
}

func TestPrinter_JSONPath(t *testing.T) {
	var out bytes.Buffer
	p, err := NewPrinter(&out, &out, FormatTable, "$[1].email")
	require.NoError(t, err)

	require.NoError(t, p.Print([]row{{1, "a@example.com"}, {2, "b@example.com"}}, &Table{}))
	assert.Equal(t, "b@example.com\n", out.String())
}

func TestPrinter_JSON(t *testing.T) {
	var out bytes.Buffer
	p, err := NewPrinter(&out, &out, FormatJSON, "")
	require.NoError(t, err)

	require.NoError(t, p.Print(row{ID: 5, Email: "c@example.com"}, nil))
	assert.JSONEq(t, `{"id":5,"email":"c@example.com"}`, out.String())
}

func TestNewPrinter_Rejects(t *testing.T) {
	_, err := NewPrinter(nil, nil, "yaml", "")
	assert.Error(t, err)
	_, err = NewPrinter(nil, nil, "json", "users[0]")
	assert.Error(t, err)
}

func TestPrinter_StatusLinesWithoutColor(t *testing.T) {
	var errOut bytes.Buffer
	p, err := NewPrinter(&bytes.Buffer{}, &errOut, "", "")
	require.NoError(t, err)

	p.Success("saved %d", 3)
	p.Warning("careful")
	assert.Equal(t, "✓ saved 3\n⚠ careful\n", errOut.String())
}

func TestCompletionScripts(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		script, err := CompletionScript(shell)
		require.NoError(t, err, shell)
		assert.Contains(t, script, "adminctl")
		assert.Contains(t, script, "deduct-for", shell)
	}

	_, err := CompletionScript("powershell")
	assert.Error(t, err)
}

func TestInstallCompletion(t *testing.T) {
	home := t.TempDir()
	path, err := InstallCompletion(home, "fish")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "fish", "completions", "adminctl.fish"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "discounts")
}

func TestPending_QuietWithinGrace(t *testing.T) {
	var buf bytes.Buffer
	p := newPending(&buf, "loading users", time.Second, true)
	p.Start()
	p.Stop()
	p.Stop()
	assert.Empty(t, buf.String())
}

func TestPending_DrawsThenClears(t *testing.T) {
	var buf bytes.Buffer
	p := newPending(&buf, "loading users", 0, true)
	p.Start()
	time.Sleep(300 * time.Millisecond)
	p.Stop()

	out := buf.String()
	assert.Contains(t, out, "loading users (")
	assert.True(t, strings.HasSuffix(out, clearLine), "the line is erased on stop: %q", out)
}

func TestPending_OffWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := NewPending(&buf, "loading")
	p.Start()
	time.Sleep(pendingGrace + 2*pendingTick)
	p.Stop()
	assert.Empty(t, buf.String())
}
