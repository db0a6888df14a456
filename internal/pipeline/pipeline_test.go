package pipeline

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repoaudit/repoaudit/internal/ingest"
	"github.com/repoaudit/repoaudit/internal/llm"
	"github.com/repoaudit/repoaudit/internal/types"
)

func fixtureRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("README.md", "# demo\n")
	write("src/creds.py", "AWS_SECRET=\"wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY\"\n")
	write("src/db.py", `query = "SELECT * FROM users WHERE id=" + user_id`+"\n")
	return root
}

func localScan(t *testing.T, root string) *ScanResult {
	t.Helper()
	res, err := Run(context.Background(), Config{
		Root:      root,
		Limits:    types.DefaultScanLimits(),
		LocalOnly: true,
		Log:       zerolog.Nop(),
	})
	require.NoError(t, err)
	return res
}

func TestLocalOnlyScanEndToEnd(t *testing.T) {
	res := localScan(t, fixtureRepo(t))

	assert.True(t, res.Report.IsPartial, "local-only scans are partial")
	require.NotEmpty(t, res.Report.ExecutiveSummary.Blockers)

	security := res.Report.Categorized[types.CatSecurity]
	var sqlFound bool
	for _, f := range security {
		if f.Evidence.File == "src/db.py" {
			sqlFound = true
			assert.Equal(t, types.OriginLocal, f.Origin)
		}
	}
	assert.True(t, sqlFound, "SQL concat file must produce a Security finding")
}

func TestScanRedactsBeforeTransmission(t *testing.T) {
	root := fixtureRepo(t)

	var sawSecret bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "wJalrXUtnFEMI") {
			sawSecret = true
		}
		w.Write([]byte(`{"choices": [{"message": {"content": "{\"findings\": [], \"is_partial\": false}"}}]}`))
	}))
	defer srv.Close()

	client := llm.NewClient(llm.ClientOptions{BaseURL: srv.URL, Model: "m", APIKey: "k"}, zerolog.Nop())
	an := llm.NewAnalyzer(client, llm.NewRetryHandler(zerolog.Nop()), zerolog.Nop())

	res, err := Run(context.Background(), Config{
		Root:     root,
		Limits:   types.DefaultScanLimits(),
		Analyzer: an,
		Log:      zerolog.Nop(),
	})
	require.NoError(t, err)

	assert.False(t, sawSecret, "raw secret must never reach the provider")
	assert.Equal(t, 1, res.Redactions.TotalRedactions, "exactly one secret in the fixture")
	assert.False(t, res.Report.IsPartial)
}

func TestLocalOnlyScanStillRedacts(t *testing.T) {
	res := localScan(t, fixtureRepo(t))

	assert.Equal(t, 1, res.Redactions.TotalRedactions,
		"redaction runs even when the LLM phase is skipped")
	assert.Equal(t, 1, res.Redactions.ByType["AWS_SECRET_KEY"])
}

func TestLlmFailureYieldsPartialNotError(t *testing.T) {
	root := fixtureRepo(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := llm.NewClient(llm.ClientOptions{BaseURL: srv.URL, Model: "m", APIKey: "bad"}, zerolog.Nop())
	an := llm.NewAnalyzer(client, llm.NewRetryHandler(zerolog.Nop()), zerolog.Nop())

	res, err := Run(context.Background(), Config{
		Root:     root,
		Limits:   types.DefaultScanLimits(),
		Analyzer: an,
		Log:      zerolog.Nop(),
	})
	require.NoError(t, err, "post-ingestion failures must not abort the scan")
	assert.True(t, res.Report.IsPartial)
	require.NotEmpty(t, res.Report.ExecutiveSummary.Blockers)
}

func TestIngestFailureIsFatal(t *testing.T) {
	_, err := Run(context.Background(), Config{
		Root:      filepath.Join(t.TempDir(), "missing"),
		Limits:    types.DefaultScanLimits(),
		LocalOnly: true,
		Log:       zerolog.Nop(),
	})
	var ierr *ingest.IngestError
	require.ErrorAs(t, err, &ierr)
}

func TestManifestPopulated(t *testing.T) {
	res := localScan(t, fixtureRepo(t))

	assert.NotEmpty(t, res.Manifest.RunID)
	assert.Equal(t, res.Manifest.RunID, res.Report.RunID)
	assert.NotNil(t, res.Manifest.Timestamps.Ended)
	assert.Equal(t, types.DefaultScanLimits(), res.Manifest.Limits)
	assert.GreaterOrEqual(t, res.FilesScanned, 3)
}
