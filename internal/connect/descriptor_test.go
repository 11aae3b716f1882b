package connect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deskforge/deskforge/internal/platform"
)

func TestWriteDescriptorDCV(t *testing.T) {
	t.Parallel()

	w := &Writer{Dir: filepath.Join(t.TempDir(), "connect"), Format: FormatDCV}
	inst := platform.Instance{ID: "i-1", Name: "client-1", PublicIP: "203.0.113.10"}

	path, err := w.WriteDescriptor(inst, "Administrator", "Aa1!secret")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(w.Dir, "client-1.dcv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, "[version]\nformat=1.0\n")
	require.Contains(t, text, "host=203.0.113.10\n")
	require.Contains(t, text, "port=8443\n")
	require.Contains(t, text, "sessionid=console\n")
	require.Contains(t, text, "user=Administrator\n")
	require.Contains(t, text, "password=Aa1!secret\n")
	require.Contains(t, text, "preferred-video-codec=h264\n")
}

func TestWriteDescriptorOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	w := &Writer{Dir: t.TempDir(), Format: FormatDCV}
	inst := platform.Instance{ID: "i-1", Name: "client-1", PublicIP: "203.0.113.10"}

	path, err := w.WriteDescriptor(inst, "", "")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "user=")
	require.NotContains(t, string(data), "password=")
}

func TestWriteDescriptorRDP(t *testing.T) {
	t.Parallel()

	w := &Writer{Dir: t.TempDir(), Format: FormatRDP}
	inst := platform.Instance{ID: "i-1", Name: "client-1", PublicIP: "203.0.113.10"}

	path, err := w.WriteDescriptor(inst, "Administrator", "ignored")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(w.Dir, "client-1.rdp"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, "full address:s:203.0.113.10:3389\n")
	require.Contains(t, text, "username:s:Administrator\n")
	// RDP files never embed the credential.
	require.NotContains(t, text, "ignored")
}

func TestWriteDescriptorOverwritesOnIPChange(t *testing.T) {
	t.Parallel()

	w := &Writer{Dir: t.TempDir(), Format: FormatDCV}
	inst := platform.Instance{ID: "i-1", Name: "client-1", PublicIP: "203.0.113.10"}

	_, err := w.WriteDescriptor(inst, "Administrator", "old-secret")
	require.NoError(t, err)

	// Stop/start gave the instance a new public IP.
	inst.PublicIP = "198.51.100.7"
	path, err := w.WriteDescriptor(inst, "", "")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, "host=198.51.100.7\n")
	require.NotContains(t, text, "203.0.113.10")
	require.NotContains(t, text, "old-secret")
}

func TestWriteDescriptorRequiresIP(t *testing.T) {
	t.Parallel()

	w := &Writer{Dir: t.TempDir()}
	_, err := w.WriteDescriptor(platform.Instance{ID: "i-1", Name: "client-1"}, "", "")
	require.ErrorContains(t, err, "no public IP")
}

func TestWriteDescriptorFallsBackToID(t *testing.T) {
	t.Parallel()

	w := &Writer{Dir: t.TempDir()}
	path, err := w.WriteDescriptor(platform.Instance{ID: "i-1", PublicIP: "203.0.113.10"}, "", "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(w.Dir, "i-1.dcv"), path)
}
