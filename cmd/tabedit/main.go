// Command tabedit opens a TSV/CSV file in the modal grid editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	bubble_adapter "github.com/ionut-t/tabedit/adapter-bubbletea"
	"github.com/ionut-t/tabedit/codec"
	"github.com/ionut-t/tabedit/core"
	"github.com/ionut-t/tabedit/internal/clipboard"
	"github.com/ionut-t/tabedit/internal/config"
	"github.com/ionut-t/tabedit/internal/log"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default ~/.config/tabedit/config.yaml)")
	debug := flag.Bool("debug", false, "enable structured debug logging")
	rows := flag.Int("rows", 50, "row count for a new document (ignored when opening an existing file)")
	cols := flag.Int("cols", core.MinVisibleColumns, "column count for a new document")
	// --folder is the one CLI surface the core names for a workspace-root
	// shell (spec §6); this thin adapter has no folder browser, so it is
	// accepted but otherwise unused — a fuller shell would pass it to its
	// own tree view.
	_ = flag.String("folder", "", "open this directory as the workspace root (honored by a folder-browser shell, not this one)")
	flag.Parse()

	if log.IsDebugRequested(*debug) {
		if cleanup, err := log.Init(logPath(), "tabedit"); err == nil {
			defer cleanup()
		}
	}

	cfg, loader, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tabedit: loading config:", err)
		os.Exit(1)
	}

	doc, err := openOrCreate(flag.Arg(0), *rows, *cols)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tabedit:", err)
		os.Exit(1)
	}

	engine := core.NewEngine(clipboard.New(), cfg)
	engine.SaveFunc = codec.Save

	width, height := 100, 30
	m := bubble_adapter.New(engine, doc, width, height)
	m.Focus()

	p := tea.NewProgram(m, tea.WithAltScreen())

	loader.Watch(cfg, func() {
		p.Send(tea.WindowSizeMsg{}) // nudge a repaint after a live config reload
	})

	clipCtx, stopClipWatch := context.WithCancel(context.Background())
	defer stopClipWatch()
	go clipboard.WatchExternalChanges(clipCtx, time.Second, func() {
		core.OnClipboardExternalChange(m.State())
	})

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "tabedit:", err)
		os.Exit(1)
	}
}

// openOrCreate opens path if given, detecting its delimiter from the
// extension; otherwise it returns a blank document padded to at least
// core.MinVisibleColumns, per the startup behavior named for the editor.
func openOrCreate(path string, rows, cols int) (*core.Document, error) {
	if path == "" {
		if cols < core.MinVisibleColumns {
			cols = core.MinVisibleColumns
		}
		return core.CreateEmpty(rows, cols), nil
	}
	doc, err := codec.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			d := core.CreateEmpty(rows, cols)
			d.FilePath = path
			d.HasPath = true
			return d, nil
		}
		return nil, err
	}
	return doc, nil
}

func logPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "tabedit-debug.log"
	}
	dir = dir + "/tabedit"
	_ = os.MkdirAll(dir, 0o750)
	return dir + "/debug.log"
}
