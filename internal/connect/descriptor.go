// Package connect writes remote-desktop connection descriptors for
// provisioned instances and probes their remote-desktop endpoints.
package connect

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/deskforge/deskforge/internal/platform"
)

// Format selects the descriptor flavor.
type Format string

const (
	// FormatDCV writes NICE DCV session files.
	FormatDCV Format = "dcv"
	// FormatRDP writes Windows Remote Desktop files.
	FormatRDP Format = "rdp"
)

// DCVPort is the NICE DCV server port.
const DCVPort = 8443

// DefaultDirName is the connection directory created on the operator's
// desktop.
const DefaultDirName = "DeskForge-Connect"

// DefaultDir returns ~/Desktop/DeskForge-Connect, falling back to the
// working directory when the home directory cannot be determined.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, "Desktop", DefaultDirName)
}

// Writer emits connection descriptors into a single directory, one file
// per display name, overwriting prior versions.
type Writer struct {
	Dir    string
	Format Format
}

// WriteDescriptor writes the descriptor for one instance and returns its
// path. The parent directory is created if absent. Username and credential
// lines are only written when non-empty; their absence makes the
// remote-desktop client prompt instead of auto-filling.
func (w *Writer) WriteDescriptor(inst platform.Instance, username, credential string) (string, error) {
	if inst.PublicIP == "" {
		return "", fmt.Errorf("instance %s has no public IP", inst.ID)
	}

	name := inst.Name
	if name == "" {
		name = inst.ID
	}

	var content string
	switch w.Format {
	case FormatRDP:
		content = rdpDescriptor(inst.PublicIP, username)
	default:
		content = dcvDescriptor(inst.PublicIP, username, credential)
	}

	if err := os.MkdirAll(w.Dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create connection directory: %w", err)
	}
	path := filepath.Join(w.Dir, name+"."+string(w.format()))
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write descriptor for %s: %w", name, err)
	}
	return path, nil
}

func (w *Writer) format() Format {
	if w.Format == "" {
		return FormatDCV
	}
	return w.Format
}

func dcvDescriptor(ip, username, credential string) string {
	var b strings.Builder
	b.WriteString("[version]\n")
	b.WriteString("format=1.0\n\n")
	b.WriteString("[connect]\n")
	fmt.Fprintf(&b, "host=%s\n", ip)
	fmt.Fprintf(&b, "port=%d\n", DCVPort)
	b.WriteString("sessionid=console\n")
	if username != "" {
		fmt.Fprintf(&b, "user=%s\n", username)
	}
	if credential != "" {
		fmt.Fprintf(&b, "password=%s\n", credential)
	}
	b.WriteString("\n[options]\n")
	b.WriteString("fullscreen=false\n")
	b.WriteString("preferred-video-codec=h264\n")
	return b.String()
}

func rdpDescriptor(ip, username string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "full address:s:%s:3389\n", ip)
	if username != "" {
		fmt.Fprintf(&b, "username:s:%s\n", username)
	}
	b.WriteString("screen mode id:i:2\n")
	b.WriteString("desktopwidth:i:1920\n")
	b.WriteString("desktopheight:i:1080\n")
	b.WriteString("authentication level:i:2\n")
	b.WriteString("prompt for credentials:i:1\n")
	return b.String()
}

// ProbeDCV reports whether the DCV server on the given IP accepts TCP
// connections. It is a reachability hint for the status display, not a
// health check.
func ProbeDCV(ip string, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(ip, fmt.Sprint(DCVPort)), timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
