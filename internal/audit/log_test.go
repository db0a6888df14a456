package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndHistory(t *testing.T) {
	root := t.TempDir()
	l := NewLog(root)

	require.NoError(t, l.Append(RunRecord{RunID: "r1", Timestamp: time.Now(), TotalFindings: 2}))
	require.NoError(t, l.Append(RunRecord{RunID: "r2", Timestamp: time.Now(), TotalFindings: 5}))

	recs, err := l.History()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "r2", recs[0].RunID, "newest first")
	assert.Equal(t, "r1", recs[1].RunID)
}

func TestLogPlacedInGitDirWhenPresent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	l := NewLog(root)
	require.NoError(t, l.Append(RunRecord{RunID: "r1"}))

	_, err := os.Stat(filepath.Join(root, ".git", "repoaudit_audit.jsonl"))
	assert.NoError(t, err)
}

func TestLogPermissionsOwnerOnly(t *testing.T) {
	root := t.TempDir()
	l := NewLog(root)
	require.NoError(t, l.Append(RunRecord{RunID: "r1"}))

	st, err := os.Stat(filepath.Join(root, ".repoaudit_audit.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), st.Mode().Perm())
}

func TestHistorySkipsMalformedLines(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, ".repoaudit_audit.jsonl")
	require.NoError(t, os.WriteFile(p, []byte("{\"run_id\":\"ok\"}\nnot json\n"), 0600))

	l := NewLog(root)
	recs, err := l.History()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "ok", recs[0].RunID)
}
