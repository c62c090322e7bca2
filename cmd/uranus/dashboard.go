package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/uranus/internal/app"
	"github.com/j-veylop/uranus/internal/logger"
	"github.com/j-veylop/uranus/internal/services"
	"github.com/j-veylop/uranus/internal/ui/tabs/dashboard"
	"github.com/j-veylop/uranus/internal/ui/tabs/history"
	"github.com/j-veylop/uranus/internal/ui/tabs/info"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Browse recorded telemetry in the terminal",
	Long: `Open the telemetry dashboard. It reads the telemetry log written by
"uranus serve" and follows it while the server keeps recording.

Keys:
  1-3             switch tabs (Dashboard, History, Info)
  Tab/Shift+Tab   next/previous tab
  f               cycle the model type filter
  t               toggle the history range
  r               reload the telemetry log
  ?               toggle help
  q, Ctrl+C       quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.DashboardLogPath), 0o750); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(cfg.DashboardLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open dashboard log: %w", err)
	}
	defer logFile.Close()
	logger.Configure(logFile, cfg.LogLevel)

	svcManager, err := services.NewManager(cfg, services.WithPollInterval(cfg.RefreshInterval))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			logger.Error("error closing services", "error", closeErr)
		}
	}()

	model := app.NewModel(svcManager)
	state := model.GetState()
	commands := model.GetCommands()
	model.SetTabs([]app.Tab{
		dashboard.New(state, commands),
		history.New(state, svcManager, commands),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(tea.Quit())
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
