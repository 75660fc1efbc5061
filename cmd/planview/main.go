package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"modulmate/internal/editor/store"
	"modulmate/internal/planview"

	"github.com/gdamore/tcell/v2"
)

// ============================================================
// Terminal Plan Viewer
// ============================================================

func main() {
	projectPath := flag.String("project", "", "project file to display")
	editorURL := flag.String("url", "", "editor service to follow, e.g. http://localhost:3003")
	interval := flag.Duration("interval", time.Second, "poll interval for -url")
	logPath := flag.String("log", "planview.log", "log file (the terminal is taken by the viewer)")
	flag.Parse()

	if *projectPath == "" && *editorURL == "" {
		log.Fatalf("either -project or -url is required")
	}

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("open log: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	st := store.New()
	if *projectPath != "" {
		f, err := os.Open(*projectPath)
		if err != nil {
			log.Fatalf("open project: %v", err)
		}
		err = st.LoadProject(f)
		f.Close()
		if err != nil {
			log.Fatalf("load project: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *editorURL != "" {
		go planview.Follow(ctx, &http.Client{Timeout: 5 * time.Second}, *editorURL, st, *interval)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen init: %v", err)
	}
	defer screen.Fini()

	log.Printf("[PLANVIEW] started")
	if err := planview.New(screen, st).Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("[PLANVIEW] run: %v", err)
	}
}
