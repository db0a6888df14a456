package repoaudit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternsCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"patterns"})

	require.NoError(t, rootCmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "AWS_ACCESS_KEY")
	assert.Contains(t, out, "GITHUB_TOKEN")
	assert.Contains(t, out, "SSH_PRIVATE_KEY")
}

func TestScanCommandLocalOnly(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))

	out := filepath.Join(t.TempDir(), "artifacts")
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"scan", root, "--local-only", "--out", out, "--no-audit-log"})

	require.NoError(t, rootCmd.Execute(), "partial scans must exit zero")

	for _, name := range []string{"report.json", "report.md", "manifest.json", "redaction_log.json"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}

func TestPickDurationPrecedence(t *testing.T) {
	s := func(v string) *string { return &v }

	assert.Equal(t, 2*time.Minute, pickDuration(2*time.Minute, s("5m"), s("1h")), "flag wins")
	assert.Equal(t, 5*time.Minute, pickDuration(0, s("5m"), s("1h")), "local config before global")
	assert.Equal(t, time.Hour, pickDuration(0, nil, s("1h")))
	assert.Equal(t, time.Hour, pickDuration(0, s("bogus"), s("1h")), "unparseable value is skipped")
	assert.Zero(t, pickDuration(0, nil, nil))
}

func TestScanCommandBadRootFails(t *testing.T) {
	rootCmd.SetArgs([]string{"scan", filepath.Join(t.TempDir(), "missing"), "--local-only"})
	assert.Error(t, rootCmd.Execute())
}
