package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"mend/internal/engine"
	"mend/internal/ui"
)

// evaluateWithUI runs evaluate while a progress view consumes events.
// evaluate must not return before every sink write is done.
func evaluateWithUI(ctx context.Context, out io.Writer, title string, candidates []ui.Candidate, events chan engine.Event, evaluate func() []engine.Report) ([]engine.Report, error) {
	done := make(chan []engine.Report, 1)
	go func() {
		reports := evaluate()
		close(events)
		done <- reports
	}()

	model := ui.NewProgressModel(title, candidates, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// сток не должен блокировать воркеров
		go func() {
			for range events {
			}
		}()
	}
	return <-done, uiErr
}
