// Package heuristics runs the line-oriented local checks over a snapshot.
// No check performs network or filesystem access.
package heuristics

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/repoaudit/repoaudit/internal/ingest"
	"github.com/repoaudit/repoaudit/internal/types"
)

// Analyzer fans per-file checks out over a bounded worker pool and returns
// findings in a deterministic order regardless of scheduling.
type Analyzer struct {
	threads int
	log     zerolog.Logger
}

// NewAnalyzer builds an analyzer. threads <= 0 means GOMAXPROCS.
func NewAnalyzer(threads int, log zerolog.Logger) *Analyzer {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	return &Analyzer{threads: threads, log: log}
}

// Analyze runs every check over the snapshot. Per-file findings keep the
// snapshot's file order; repository-level findings follow. Workers write
// into per-file slots, so concurrency never reorders output.
func (a *Analyzer) Analyze(ctx context.Context, snap *ingest.Snapshot) []types.LocalFinding {
	slots := make([][]types.LocalFinding, len(snap.Files))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < a.threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				slots[idx] = checkFile(snap.Files[idx])
			}
		}()
	}

feed:
	for i := range snap.Files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	var out []types.LocalFinding
	for _, s := range slots {
		out = append(out, s...)
	}
	out = append(out, repoChecks(snap)...)

	a.log.Debug().
		Int("files", len(snap.Files)).
		Int("findings", len(out)).
		Msg("local analysis complete")
	return out
}
