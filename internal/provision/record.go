package provision

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deskforge/deskforge/internal/platform"
)

// RecordFileName is the well-known credential record inside the
// connection directory.
const RecordFileName = "PASSWORDS.txt"

// FileRecordWriter persists batch outcomes as a single plain-text file.
// The file is always overwritten whole; the latest batch is authoritative.
type FileRecordWriter struct {
	Path string
}

// WriteRecord implements RecordWriter. The record is written in one shot
// after the batch completes, so an interrupted run leaves either the
// previous record or a complete new one, never a partial rollout summary.
func (w *FileRecordWriter) WriteRecord(result BatchResult, instances []platform.Instance) error {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 50) + "\n")
	b.WriteString("Instance Administrator Passwords\n")
	fmt.Fprintf(&b, "Batch:     %s\n", result.BatchID)
	fmt.Fprintf(&b, "Generated: %s\n", result.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	fmt.Fprintf(&b, "Administrator password (shared across batch): %s\n\n", result.Credential)

	b.WriteString("Instance status:\n")
	for _, inst := range instances {
		ip := inst.PublicIP
		if ip == "" {
			ip = "no public IP"
		}
		switch result.PerInstance[inst.ID] {
		case StateApplied:
			fmt.Fprintf(&b, "  [ok]      %s (%s) - password set\n", inst.ID, ip)
		case StateFailed:
			fmt.Fprintf(&b, "  [failed]  %s (%s) - %s\n", inst.ID, ip, result.Failures[inst.ID])
		case StateSkipped:
			fmt.Fprintf(&b, "  [skipped] %s (%s) - never became ready\n", inst.ID, ip)
		}
	}

	if err := os.MkdirAll(filepath.Dir(w.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create record directory: %w", err)
	}
	if err := os.WriteFile(w.Path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write credential record: %w", err)
	}
	return nil
}
