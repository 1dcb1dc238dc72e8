package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/svgfx/fegraph/pkg/config"
	"github.com/svgfx/fegraph/pkg/docstore"
	"github.com/svgfx/fegraph/pkg/editor"
	"github.com/svgfx/fegraph/pkg/logging"
	"github.com/svgfx/fegraph/pkg/output"
	"github.com/svgfx/fegraph/pkg/render"
	"github.com/svgfx/fegraph/pkg/render/raster"
	"github.com/svgfx/fegraph/pkg/render/svgout"
	"github.com/svgfx/fegraph/pkg/svgdoc"
	"github.com/svgfx/fegraph/pkg/watcher"
	"github.com/svgfx/fegraph/pkg/web"
)

func main() {
	flags := pflag.NewFlagSet("fegraph", pflag.ExitOnError)
	flags.String("document", "", "SVG document to edit")
	flags.String("filter", "", "id of the filter element (default: first filter)")
	flags.Bool("web", false, "serve the live preview instead of printing to console")
	flags.Int("port", 8080, "port for the preview server")
	flags.Bool("watch", false, "reload the document when it changes on disk")
	flags.String("svgout", "", "write the pipeline frame as SVG to this path")
	flags.String("pngout", "", "write the pipeline frame as PNG to this path")
	flags.String("font", "", "font file for PNG labels")
	flags.CountP("verbose", "v", "increase log verbosity")
	flags.Bool("jsonlog", false, "log as JSON instead of compact console lines")
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := logging.LevelFromVerbosity(cfg.Verbose)
	if cfg.JSONLog {
		logging.SetJSONOutput(level)
	} else {
		logging.SetLevel(level)
	}

	if cfg.Document == "" {
		fmt.Fprintln(os.Stderr, "Error: --document is required")
		os.Exit(1)
	}

	store, err := svgdoc.LoadFilter(cfg.Document, cfg.Filter)
	if err != nil {
		logging.Fatal("failed to load document", "path", cfg.Document, "error", err)
	}

	ed := editor.New(store)
	defer ed.Close()
	logging.Info("document loaded", "path", cfg.Document, "primitives", ed.Graph().Len())

	if cfg.SVGOut != "" {
		if err := exportSVG(ed, cfg.SVGOut); err != nil {
			logging.Fatal("svg export failed", "path", cfg.SVGOut, "error", err)
		}
		logging.Info("wrote svg frame", "path", cfg.SVGOut)
	}
	if cfg.PNGOut != "" {
		if err := exportPNG(ed, cfg.PNGOut, cfg.Font); err != nil {
			logging.Fatal("png export failed", "path", cfg.PNGOut, "error", err)
		}
		logging.Info("wrote png frame", "path", cfg.PNGOut)
	}

	if cfg.WebMode {
		runServer(cfg, store, ed)
		return
	}

	if cfg.SVGOut == "" && cfg.PNGOut == "" {
		output.PrintPipelineReport(cfg.Document, ed.Graph())
	}
}

func exportSVG(ed *editor.Editor, path string) error {
	a := render.NewAdapter(ed.Graph(), render.DefaultMetrics())
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := svgout.NewEncoder(svgout.DefaultPalette())
	return enc.Encode(f, a.Width(), a.Height(), a.Frame(nil))
}

func exportPNG(ed *editor.Editor, path, font string) error {
	a := render.NewAdapter(ed.Graph(), render.DefaultMetrics())
	r := raster.New(a.Width(), a.Height())
	if font != "" {
		if err := r.LoadFont(font, 12); err != nil {
			return fmt.Errorf("loading font: %w", err)
		}
	}
	if err := r.Draw(a.Frame(nil)); err != nil {
		return err
	}
	return r.SavePNG(path)
}

func runServer(cfg *config.Config, store *docstore.Memory, ed *editor.Editor) {
	server := web.NewServer(ed, cfg.Document)
	if err := server.PublishDocumentStatus("loaded", "document loaded"); err != nil {
		logging.Warn("failed to publish document status", "error", err)
	}

	if cfg.Watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := startWatch(ctx, cfg, store, server); err != nil {
			logging.Fatal("failed to watch document", "error", err)
		}
	}

	if err := server.Start(cfg.Port); err != nil {
		logging.Fatal("preview server failed", "error", err)
	}
}

// startWatch reloads the document store whenever the file changes on disk
// and pushes the outcome to SSE subscribers.
func startWatch(ctx context.Context, cfg *config.Config, store *docstore.Memory, server *web.Server) error {
	dw, err := watcher.NewDocumentWatcher(cfg.Document)
	if err != nil {
		return err
	}
	if err := dw.Start(ctx); err != nil {
		return err
	}

	deb := watcher.NewDebouncer(dw.Events(), 200*time.Millisecond, 2*time.Second)
	deb.Start(ctx)

	go func() {
		for range deb.Output() {
			if err := svgdoc.Reload(store, cfg.Document, cfg.Filter); err != nil {
				logging.Error("document reload failed", "path", cfg.Document, "error", err)
				server.PublishDocumentStatus("reload_failed", err.Error())
				continue
			}
			logging.Info("document reloaded", "path", cfg.Document)
			server.PublishDocumentStatus("reloaded", "document reloaded from disk")
		}
	}()
	return nil
}
