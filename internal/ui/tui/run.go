package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// RunProvisionTUI wraps the credential provisioning flow with the
// dashboard. provisionFn runs the batch, sending phase and instance
// updates on the channel; it executes on its own goroutine while the UI
// owns the terminal.
func RunProvisionTUI(title string, provisionFn func(ch chan<- tea.Msg) error) error {
	m := NewProvisionModel(title)

	p := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		ch := make(chan tea.Msg, 16)
		go func() {
			defer close(ch)
			if err := provisionFn(ch); err != nil {
				p.Send(ErrMsg{Err: err})
			}
		}()

		for msg := range ch {
			p.Send(msg)
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}
