package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// maxDisplayLen bounds remote command output shown on the console; the
// full text always goes to the session log.
const maxDisplayLen = 200

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// printHeader prints a section header with an underline.
func printHeader(title string) {
	fmt.Println()
	fmt.Printf("  %s\n", headerStyle.Render(title))
	fmt.Println("  " + strings.Repeat("=", len(title)))
	fmt.Println()
}

// printRow prints one check/status line.
func printRow(name string, ok bool, extra string) {
	mark := okStyle.Render("[OK]")
	if !ok {
		mark = failStyle.Render("[!!]")
	}
	if extra != "" {
		fmt.Printf("  %s  %-24s %s\n", mark, name, dimStyle.Render(extra))
	} else {
		fmt.Printf("  %s  %s\n", mark, name)
	}
}

// truncateForDisplay collapses output to a single line capped at
// maxDisplayLen runes.
func truncateForDisplay(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxDisplayLen {
		return s
	}
	return string(runes[:maxDisplayLen]) + "..."
}

// maskSecret hides all but the first characters of a secret value.
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}
