package core

import (
	"context"

	"github.com/repoaudit/repoaudit/internal/pipeline"
	"github.com/repoaudit/repoaudit/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Config = pipeline.Config
type ScanResult = pipeline.ScanResult
type Report = types.Report
type Finding = types.Finding
type ScanLimits = types.ScanLimits

// DefaultLimits returns the stock transmission budget.
func DefaultLimits() ScanLimits { return types.DefaultScanLimits() }

// Scan is the stable entrypoint for other programs.
func Scan(ctx context.Context, cfg Config) (*ScanResult, error) {
	return pipeline.Run(ctx, cfg)
}
