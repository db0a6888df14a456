package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, content, 0o644))
}

func fileByPath(snap *Snapshot, rel string) (ScannedFile, bool) {
	for _, f := range snap.Files {
		if f.RelPath == rel {
			return f, true
		}
	}
	return ScannedFile{}, false
}

func TestIngestBasicWalk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", []byte("package main\n"))
	writeFile(t, root, "internal/app/app.go", []byte("package app\n"))
	writeFile(t, root, "node_modules/lib/index.js", []byte("ignored"))
	writeFile(t, root, ".git/config", []byte("ignored"))

	snap, err := Ingest(context.Background(), root, Options{})
	require.NoError(t, err)

	_, ok := fileByPath(snap, "main.go")
	assert.True(t, ok)
	_, ok = fileByPath(snap, "internal/app/app.go")
	assert.True(t, ok)
	_, ok = fileByPath(snap, "node_modules/lib/index.js")
	assert.False(t, ok, "node_modules must be excluded")
	_, ok = fileByPath(snap, ".git/config")
	assert.False(t, ok, ".git must be excluded")
}

func TestIngestNotADirectory(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	_, err := Ingest(context.Background(), p, Options{})
	var ierr *IngestError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, ErrNotADirectory, ierr.Kind)
}

func TestIngestMissingRoot(t *testing.T) {
	_, err := Ingest(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	var ierr *IngestError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, ErrIo, ierr.Kind)
}

func TestIngestTooLargeUnread(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.txt.data", []byte(strings.Repeat("a", 2048)))

	snap, err := Ingest(context.Background(), root, Options{MaxFileSize: 1024})
	require.NoError(t, err)

	f, ok := fileByPath(snap, "big.txt.data")
	require.True(t, ok)
	assert.Equal(t, ExcludedTooLarge, f.Excluded)
	assert.Empty(t, f.Content, "oversized file content must not be read")
}

func TestIngestBinaryExcluded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "blob.dat", []byte{0x01, 0x00, 0x02, 0x03})

	snap, err := Ingest(context.Background(), root, Options{})
	require.NoError(t, err)

	f, ok := fileByPath(snap, "blob.dat")
	require.True(t, ok)
	assert.Equal(t, ExcludedBinary, f.Excluded)
	assert.Empty(t, f.Content)
}

func TestIngestCancellation(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 200; i++ {
		writeFile(t, root, filepath.Join("d", "f"+strings.Repeat("x", i%7)+string(rune('a'+i%26))+".txt.src"), []byte("content\n"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Ingest(ctx, root, Options{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestIngestGlobFilters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", []byte("package a\n"))
	writeFile(t, root, "b.py", []byte("x = 1\n"))

	snap, err := Ingest(context.Background(), root, Options{Include: "**/*.go"})
	require.NoError(t, err)
	_, ok := fileByPath(snap, "a.go")
	assert.True(t, ok)
	_, ok = fileByPath(snap, "b.py")
	assert.False(t, ok)

	snap, err = Ingest(context.Background(), root, Options{Exclude: "**/*.py"})
	require.NoError(t, err)
	_, ok = fileByPath(snap, "b.py")
	assert.False(t, ok)
}

func TestTechStackDetection(t *testing.T) {
	files := []ScannedFile{
		{RelPath: "go.mod", Content: "module x\n"},
		{RelPath: "web/package.json", Content: "{}"},
		{RelPath: "Dockerfile", Content: "FROM scratch\n"},
		{RelPath: ".github/workflows/ci.yml", Content: "on: push\n"},
	}
	sum := detectTechStack(files)

	names := make([]string, 0, len(sum.Detected))
	for _, d := range sum.Detected {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "Go")
	assert.Contains(t, names, "JavaScript/Node.js")
	assert.Contains(t, names, "Docker")
	assert.Contains(t, names, "GitHub Actions")
	assert.Contains(t, sum.PackageManagers, "go modules")
	assert.Contains(t, sum.PackageManagers, "npm")
}

func TestEntrypointDetectionOrdersShallowFirst(t *testing.T) {
	files := []ScannedFile{
		{RelPath: "cmd/tool/main.go"},
		{RelPath: "main.go"},
		{RelPath: "Dockerfile"},
	}
	eps := detectEntrypoints(files)
	require.NotEmpty(t, eps)
	assert.Equal(t, 0, strings.Count(eps[0].RelPath, "/"))
}

func TestTreeSummaryBoundedAndDeterministic(t *testing.T) {
	var files []ScannedFile
	for i := 0; i < 100; i++ {
		files = append(files, ScannedFile{RelPath: "pkg/sub/file" + string(rune('a'+i%26)) + string(rune('a'+i/26)) + ".src"})
	}
	s1 := buildTreeSummary(files)
	s2 := buildTreeSummary(files)
	assert.Equal(t, s1, s2)
	assert.LessOrEqual(t, strings.Count(s1, "\n"), treeMaxLines+1)
	assert.True(t, strings.HasSuffix(s1, "...\n"))
}
