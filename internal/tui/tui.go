// Package tui hosts the scan workflow in a terminal program.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"alfredoptarigan/ats-scanner/internal/client"
	"alfredoptarigan/ats-scanner/internal/models"
	"alfredoptarigan/ats-scanner/internal/workflow"
)

type Options struct {
	BaseURL     string
	SettleDelay time.Duration
	ExportDir   string
	// InitialJD is highlighted in the picker once the list loads.
	InitialJD models.JDDescriptor
	// LogFile receives log output while the program owns the terminal.
	LogFile string
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, api client.Client, opts Options) error {
	if opts.LogFile != "" {
		f, err := tea.LogToFile(opts.LogFile, "scan")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
	}

	exec := workflow.NewExecutor(ctx, api)
	defer exec.Close()

	m := newModel(exec, workflow.NewState(opts.SettleDelay), opts)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run scanner: %w", err)
	}
	return nil
}
