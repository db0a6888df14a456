// Package ingest walks a repository root and produces the immutable file
// snapshot the rest of the pipeline consumes.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/repoaudit/repoaudit/internal/redact"
)

// ExcludedReason marks files recorded in the snapshot without content.
type ExcludedReason string

const (
	ExcludedTooLarge   ExcludedReason = "too_large"
	ExcludedUnreadable ExcludedReason = "unreadable"
	ExcludedBinary     ExcludedReason = "binary"
)

// IngestErrorKind classifies the fatal pre-scan failures.
type IngestErrorKind string

const (
	ErrNotADirectory    IngestErrorKind = "not_a_directory"
	ErrIo               IngestErrorKind = "io"
	ErrPermissionDenied IngestErrorKind = "permission_denied"
)

// IngestError is fatal: the scan cannot start.
type IngestError struct {
	Kind IngestErrorKind
	Path string
	Err  error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// ScannedFile is one entry of the snapshot. Content is empty when
// Excluded is set. Immutable after creation; redaction produces new
// strings rather than mutating Content.
type ScannedFile struct {
	RelPath   string
	Content   string
	SizeBytes int64
	Hash      uint64
	Excluded  ExcludedReason
}

// Snapshot is the result of walking one repository root.
type Snapshot struct {
	Root        string
	Files       []ScannedFile
	TreeSummary string
	TechStack   TechStackSummary
	Entrypoints []DetectedEntrypoint
}

// Options bounds the walk.
type Options struct {
	// Include and Exclude are comma-separated doublestar globs over
	// slash-separated relative paths. Empty Include means everything.
	Include string
	Exclude string
	// MaxFileSize in bytes; larger files are recorded as TooLarge with
	// content unread. Zero means 1 MiB.
	MaxFileSize int64
	// MaxDepth bounds directory nesting below the root. Zero means 12.
	MaxDepth int
}

const (
	defaultMaxFileSize = 1 << 20
	defaultMaxDepth    = 12
	// cancellation is checked every checkInterval directory entries
	checkInterval = 64
)

// Ingest walks root depth-first and returns the snapshot. It fails only on
// pre-scan conditions (root missing, not a directory, unreadable); read
// failures on individual files downgrade to ExcludedUnreadable.
func Ingest(ctx context.Context, root string, opts Options) (*Snapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		kind := ErrIo
		if errors.Is(err, fs.ErrPermission) {
			kind = ErrPermissionDenied
		}
		return nil, &IngestError{Kind: kind, Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &IngestError{Kind: ErrNotADirectory, Path: root, Err: fmt.Errorf("not a directory")}
	}
	if _, err := os.ReadDir(root); err != nil {
		kind := ErrIo
		if errors.Is(err, fs.ErrPermission) {
			kind = ErrPermissionDenied
		}
		return nil, &IngestError{Kind: kind, Path: root, Err: err}
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	snap := &Snapshot{Root: root}
	visited := 0

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		visited++
		if visited%checkInterval == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			if strings.Count(rel, "/")+1 >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if !allowedByGlobs(rel, opts.Include, opts.Exclude) {
			return nil
		}
		lower := strings.ToLower(rel)
		if isDefaultFileExcluded(lower) {
			return nil
		}

		fi, infoErr := d.Info()
		if infoErr != nil {
			snap.Files = append(snap.Files, ScannedFile{RelPath: rel, Excluded: ExcludedUnreadable})
			return nil
		}
		if fi.Size() > maxSize {
			snap.Files = append(snap.Files, ScannedFile{RelPath: rel, SizeBytes: fi.Size(), Excluded: ExcludedTooLarge})
			return nil
		}

		b, readErr := os.ReadFile(p)
		if readErr != nil {
			snap.Files = append(snap.Files, ScannedFile{RelPath: rel, SizeBytes: fi.Size(), Excluded: ExcludedUnreadable})
			return nil
		}
		if redact.LooksBinary(b) {
			snap.Files = append(snap.Files, ScannedFile{RelPath: rel, SizeBytes: fi.Size(), Excluded: ExcludedBinary})
			return nil
		}

		snap.Files = append(snap.Files, ScannedFile{
			RelPath:   rel,
			Content:   string(b),
			SizeBytes: fi.Size(),
			Hash:      xxhash.Sum64(b),
		})
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, &IngestError{Kind: ErrIo, Path: root, Err: walkErr}
	}

	snap.TreeSummary = buildTreeSummary(snap.Files)
	snap.TechStack = detectTechStack(snap.Files)
	snap.Entrypoints = detectEntrypoints(snap.Files)
	return snap, nil
}
