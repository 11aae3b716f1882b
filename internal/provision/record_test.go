package provision

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/internal/platform"
)

func TestWriteRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "connect", RecordFileName)
	writer := &FileRecordWriter{Path: path}

	result := BatchResult{
		BatchID:     "batch-1",
		Credential:  "Aa1!secretsecret",
		GeneratedAt: time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC),
		PerInstance: map[string]ApplyState{
			"i-a": StateApplied,
			"i-b": StateFailed,
			"i-c": StateSkipped,
		},
		Failures: map[string]string{"i-b": "access denied"},
	}
	instances := []platform.Instance{
		{ID: "i-a", PublicIP: "203.0.113.10"},
		{ID: "i-b", PublicIP: "203.0.113.11"},
		{ID: "i-c"},
	}

	require.NoError(t, writer.WriteRecord(result, instances))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, "batch-1")
	require.Contains(t, text, "Aa1!secretsecret")
	require.Contains(t, text, "[ok]      i-a (203.0.113.10) - password set")
	require.Contains(t, text, "[failed]  i-b (203.0.113.11) - access denied")
	require.Contains(t, text, "[skipped] i-c (no public IP)")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteRecordOverwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), RecordFileName)
	writer := &FileRecordWriter{Path: path}

	first := BatchResult{
		BatchID:     "batch-1",
		Credential:  "first-credential",
		PerInstance: map[string]ApplyState{"i-a": StateApplied},
	}
	second := BatchResult{
		BatchID:     "batch-2",
		Credential:  "second-credential",
		PerInstance: map[string]ApplyState{"i-a": StateApplied},
	}
	instances := []platform.Instance{{ID: "i-a", PublicIP: "203.0.113.10"}}

	require.NoError(t, writer.WriteRecord(first, instances))
	require.NoError(t, writer.WriteRecord(second, instances))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "second-credential")
	require.NotContains(t, string(data), "first-credential")
}
