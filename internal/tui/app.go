package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joe/scan-dir/internal/scan"
	"github.com/joe/scan-dir/internal/tui/shared"
)

// outcome is what the engine goroutine hands back.
type outcome struct {
	result *scan.Result
	err    error
}

// Run scans root with engine while showing the progress view.
// extra, if non-nil, receives every event as well (the log reporter).
//
// Closing the view does not stop the scan; Run returns once both the view and
// the engine are done.
func Run(engine *scan.Engine, root string, extra scan.EventEmitter, opts ...tea.ProgramOption) (*scan.Result, error) {
	bridge := shared.NewEventBridge()
	engine.SetEventEmitter(scan.Emitters{extra, bridge})

	done := make(chan outcome, 1)

	go func() {
		result, err := engine.Run(root)
		done <- outcome{result: result, err: err}
	}()

	program := tea.NewProgram(NewModel(root, bridge), opts...)

	finalModel, viewErr := program.Run()
	bridge.Close()

	out := <-done

	if viewErr != nil {
		return out.result, fmt.Errorf("progress view failed: %w", viewErr)
	}

	if model, ok := finalModel.(Model); ok && model.Quitting() && !model.Done() {
		engine.Logger.Info("progress view closed before the scan finished")
	}

	return out.result, out.err
}
