package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"strand/internal/driver"
	"strand/internal/ui"
)

type dirOutcome struct {
	result *driver.DirResult
	err    error
}

// runDirWithUI runs TokenizeDir while a progress view consumes its events.
func runDirWithUI(ctx context.Context, title string, files []string, dir string, opts driver.Options) (*driver.DirResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.TokenizeDir(ctx, dir, opts)
		outcomeCh <- dirOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
