package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLoggerFormatsCategoryAndCaller(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	l := NewWriter(&buf)

	l.LogEntity("venue", "CREATE", 7, "The Blue Note")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "[VENUE     ]")
	assert.Contains(t, out, "[CREATE] #7 - The Blue Note")

	buf.Reset()
	l.Warn("http", "slow request")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "logger_test.go")
}

func TestFatalUsesExitHook(t *testing.T) {
	var code int
	l := NewDiscard()
	l.exit = func(c int) { code = c }

	l.Fatal("CONFIG", "boom")

	assert.Equal(t, 1, code)
}

func TestFileLoggerWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger(dir)
	l.terminal = &bytes.Buffer{}

	l.LogDatabase("DELETE", "shows", "removed 3 rows")
	l.Close()

	name := filepath.Join(dir, "fyyur-"+time.Now().Format("2006-01-02")+".log")
	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}

	require.NotEmpty(t, entries)
	found := false
	for _, e := range entries {
		if e.Category == "DATABASE" {
			found = true
			assert.Equal(t, "[DELETE] shows - removed 3 rows", e.Message)
		}
	}
	assert.True(t, found)
}
