package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arnevik/readygate/internal/pipeline"
	"github.com/arnevik/readygate/internal/result"
)

// Run executes the pipeline with a live terminal view attached. The
// pipeline runs in the background; its events stream into the Bubble Tea
// program. Quitting the view cancels the run, which then finalizes as
// Aborted like any other cancellation.
func Run(ctx context.Context, target string, phases []pipeline.Phase, build func(pipeline.Observer) *pipeline.Pipeline) (*result.Run, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	observer := pipeline.NewChanObserver()
	program := tea.NewProgram(NewModel(target, phases), tea.WithContext(ctx))

	runCh := make(chan *result.Run, 1)
	go func() {
		runCh <- build(observer).Run(ctx)
	}()

	go func() {
		for event := range observer.C {
			program.Send(EventMsg(event))
			if event.Type == pipeline.EventRunCompleted {
				program.Send(DoneMsg{})
				return
			}
		}
	}()

	_, tuiErr := program.Run()

	// View exited (completion, user quit, or terminal failure); stop any
	// remaining work and collect the finalized run. The run is returned
	// even when the view broke, so a report is always produced.
	cancel()
	run := <-runCh

	if tuiErr != nil && !errors.Is(tuiErr, context.Canceled) {
		return run, fmt.Errorf("terminal view failed: %w", tuiErr)
	}
	return run, nil
}
