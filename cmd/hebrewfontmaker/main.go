package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/term"

	"github.com/uberstorm/hebrewfontmaker/internal/config"
	"github.com/uberstorm/hebrewfontmaker/internal/httpapi"
	"github.com/uberstorm/hebrewfontmaker/internal/session"
)

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.Addr, "address to listen on")
	uploadDir := flag.String("upload-dir", cfg.UploadDir, "directory for saved uploads")
	outputDir := flag.String("output-dir", cfg.OutputDir, "directory for generated fonts")
	flag.Parse()

	cfg.Addr = *addr
	cfg.UploadDir = *uploadDir
	cfg.OutputDir = *outputDir

	log := newLogger()

	sess := session.New()
	srv := httpapi.New(sess, cfg, log)

	log.Info("starting server", "addr", cfg.Addr, "upload_dir", cfg.UploadDir, "output_dir", cfg.OutputDir)
	if err := http.ListenAndServe(cfg.Addr, srv.Routes()); err != nil {
		fmt.Fprintf(os.Stderr, "server exited: %v\n", err)
		os.Exit(1)
	}
}

// newLogger picks a TTY-friendly text handler when stdout is a terminal
// and a plain JSON handler otherwise, for log aggregation when stdout is
// redirected.
func newLogger() *slog.Logger {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
