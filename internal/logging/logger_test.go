package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func resetForTest(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		CloseAll()
		_ = Initialize(Options{})
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestCategoryFilesInDebugMode(t *testing.T) {
	resetForTest(t)
	dir := t.TempDir()

	require.NoError(t, Initialize(Options{
		Level:     "debug",
		DebugMode: true,
		Dir:       dir,
		Categories: map[string]bool{
			"server": false,
		},
	}))

	Compiler("compiled %d attachments", 3)
	Server("this category has file output disabled")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(dir, date+"_compiler.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "compiled 3 attachments")

	_, err = os.Stat(filepath.Join(dir, date+"_server.log"))
	assert.True(t, os.IsNotExist(err), "disabled category should not create a file")
}

func TestNoFilesOutsideDebugMode(t *testing.T) {
	resetForTest(t)
	dir := t.TempDir()

	require.NoError(t, Initialize(Options{Level: "info", Dir: dir}))
	Session("generation started")
	CloseAll()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.False(t, IsDebugMode())
	assert.False(t, IsCategoryEnabled(CategorySession))
}

func TestJSONFormat(t *testing.T) {
	resetForTest(t)
	dir := t.TempDir()

	require.NoError(t, Initialize(Options{Level: "info", Format: "json", DebugMode: true, Dir: dir}))
	Get(CategoryAPI).With("model", "gemini-2.5-flash").Info("request sent")
	Get(CategoryAPI).Info("plain entry")
	CloseAll()

	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(dir, date+"_api.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "{"), "expected JSON lines, got %q", lines[len(lines)-1])
}

func TestDebugModeRequiresDir(t *testing.T) {
	resetForTest(t)
	err := Initialize(Options{DebugMode: true})
	assert.Error(t, err)
}

func TestTimerThreshold(t *testing.T) {
	resetForTest(t)
	timer := StartTimer(CategoryCompiler, "compile")
	time.Sleep(2 * time.Millisecond)
	elapsed := timer.StopWithThreshold(time.Millisecond)
	assert.GreaterOrEqual(t, elapsed, 2*time.Millisecond)
}
