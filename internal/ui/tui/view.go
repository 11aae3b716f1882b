package tui

import (
	"fmt"
	"strings"
	"time"
)

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderPhases(&b, m)
	if len(m.Rows) > 0 {
		renderInstances(&b, m)
	}
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	b.WriteString(titleStyle.Render("deskforge: " + m.Title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Done:
		status += readyStyle.Render("Done")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame))
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Phases"))
	b.WriteString("\n")
	for _, phase := range m.Phases {
		var mark, name string
		switch {
		case phase.Err != nil:
			mark = failedStyle.Render(crossMark)
			name = failedStyle.Render(phase.Name)
		case phase.Done:
			mark = readyStyle.Render(checkMark)
			name = phase.Name
		case phase.Active:
			mark = activeStyle.Render(currentSpinner(m.SpinnerFrame))
			name = activeStyle.Render(phase.Name)
		default:
			mark = dimStyle.Render(pending)
			name = dimStyle.Render(phase.Name)
		}
		line := fmt.Sprintf("  %s %s", mark, name)
		if phase.Detail != "" {
			line += " " + dimStyle.Render(phase.Detail)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func renderInstances(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Instances"))
	b.WriteString("\n")
	for _, row := range m.Rows {
		var mark string
		switch row.State {
		case "Applied":
			mark = readyStyle.Render(checkMark)
		case "Failed":
			mark = failedStyle.Render(crossMark)
		case "Skipped":
			mark = warningStyle.Render(skipMark)
		default:
			mark = activeStyle.Render(currentSpinner(m.SpinnerFrame))
		}
		line := fmt.Sprintf("  %s %s", mark, row.InstanceID)
		if row.Reason != "" {
			line += " " + dimStyle.Render(row.Reason)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	b.WriteString(footerStyle.Render(fmt.Sprintf("  elapsed %s  |  q to quit", elapsed)))
	b.WriteString("\n")
}
