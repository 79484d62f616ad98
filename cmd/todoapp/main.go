package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/qianzhouyu594-ai/todoAPP/internal/notify"
	"github.com/qianzhouyu594-ai/todoAPP/internal/scheduler"
	"github.com/qianzhouyu594-ai/todoAPP/internal/storage"
	"github.com/qianzhouyu594-ai/todoAPP/internal/store"
	"github.com/qianzhouyu594-ai/todoAPP/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "todoapp failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())

	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	kv, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer kv.Close()

	tasks := storage.LoadSnapshot(context.Background(), kv)

	// Capability selection happens once, here: platform notifications when
	// the desktop supports them, the fallback timer path otherwise.
	var svc notify.Service = notify.AbsentService{}
	if cfg.DesktopNotifications {
		if execSvc := notify.NewExecService(); execSvc.Available() {
			svc = execSvc
		}
	}

	sched := scheduler.New(svc, cfg.SchedulerBuffer)
	defer sched.Stop()
	sched.ReconcileOnLoad(tasks)

	st := store.New(kv, sched, tasks)
	defer st.Close()

	program := tea.NewProgram(update.NewModel(st, sched))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
