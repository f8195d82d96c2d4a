package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultNote = "untitled"

type App struct {
	Store   string
	Dir     string
	DBPath  string
	LogFile string

	config    *Config
	log       zerolog.Logger
	logCloser io.Closer
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "sketchpad [note]",
		Short:        "Freehand sketches and text notes in the terminal",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Open (or start) the note called "ideas"
  sketchpad ideas

  # Keep notes in a SQLite database instead of one file per note
  sketchpad --store sqlite ideas

  # Scriptable commands
  sketchpad ls
  sketchpad render ideas
  sketchpad export ideas ideas.png
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			note := defaultNote
			if len(args) == 1 {
				note = args[0]
			}
			return runTUI(cmd.Context(), app.config, note, app.log)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logCloser != nil {
			return app.logCloser.Close()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Store, "store", envOr("SKETCHPAD_STORE", ""), "Note store (file|sqlite)")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("SKETCHPAD_DIR", ""), "Directory notes are saved in")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", envOr("SKETCHPAD_DB", ""), "SQLite database path (sqlite store)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log", envOr("SKETCHPAD_LOG", ""), "Write a debug log to this file")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newCatCmd(app))
	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newExportCmd(app))

	return cmd
}

// setup merges ~/.sketchpadrc with the command line and opens the log.
func (app *App) setup() error {
	cfg := loadConfig()
	home, _ := os.UserHomeDir()
	if app.Store != "" {
		cfg.Store = strings.ToLower(app.Store)
	}
	if app.Dir != "" {
		cfg.SaveDirectory = expandPath(app.Dir, home)
	}
	if app.DBPath != "" {
		cfg.DBPath = expandPath(app.DBPath, home)
	}
	if app.LogFile != "" {
		cfg.LogFile = expandPath(app.LogFile, home)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	app.config = cfg

	log, closer, err := newLogBuild().FromPath(cfg.LogFile).Make()
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	app.log, app.logCloser = log, closer
	app.log.Debug().Str("store", cfg.Store).Str("dir", cfg.SaveDirectory).Msg("config loaded")
	return nil
}

// loadNote streams one note through a bridge into a fresh session and returns
// its document.
func (app *App) loadNote(ctx context.Context, note string) (*Document, ImportReport, error) {
	bridge, err := openBridge(ctx, app.config, note)
	if err != nil {
		return nil, ImportReport{}, err
	}
	defer bridge.Close()

	session := NewSession(note, bridge, sessionOptions(app.config, app.log))
	defer session.Close()

	var (
		report    ImportReport
		importErr error
	)
	bridge.OnNoteStreamed(func(text string) {
		report, importErr = session.Receive(text)
	})
	if err := bridge.Stream(ctx); err != nil {
		return nil, report, err
	}
	if importErr != nil {
		return nil, report, fmt.Errorf("note %q: %w", note, importErr)
	}
	return session.Document(), report, nil
}

func warnSkipped(w io.Writer, report ImportReport) {
	if report.Skipped == 0 {
		return
	}
	fmt.Fprintf(w, "warning: skipped %d records", report.Skipped)
	if len(report.Unknown) > 0 {
		fmt.Fprintf(w, " (unknown: %s)", strings.Join(report.Unknown, ", "))
	}
	fmt.Fprintln(w)
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List saved notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), app.config)
			if err != nil {
				return err
			}
			defer store.close()
			notes, err := store.list(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range notes {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newCatCmd(app *App) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "cat <note>",
		Short: "Print a note as stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, report, err := app.loadNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if check {
				fmt.Fprintf(cmd.OutOrStdout(), "%d elements, %d skipped\n", report.Added, report.Skipped)
				warnSkipped(cmd.ErrOrStderr(), report)
				return nil
			}
			text, err := Marshal(doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Only report how many records load")
	return cmd
}

func newRenderCmd(app *App) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "render <note>",
		Short: "Draw a note to the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, report, err := app.loadNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			warnSkipped(cmd.ErrOrStderr(), report)
			g, err := renderFitted(doc)
			if err != nil {
				return err
			}
			lines := g.Lines()
			if plain {
				lines = g.PlainLines()
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "No colour")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var scale float64
	cmd := &cobra.Command{
		Use:   "export <note> <out.png|out.txt>",
		Short: "Export a note as a PNG image or plain text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, report, err := app.loadNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			warnSkipped(cmd.ErrOrStderr(), report)
			out := args[1]
			if scale <= 0 {
				scale = app.config.PNGScale
			}
			switch strings.ToLower(filepath.Ext(out)) {
			case ".txt":
				err = exportTXT(doc, out)
			case ".png", "":
				err = exportPNG(doc, out, scale)
			default:
				return fmt.Errorf("unsupported export format %q", filepath.Ext(out))
			}
			if err != nil {
				return err
			}
			app.log.Info().Str("note", args[0]).Str("out", out).Msg("exported")
			return nil
		},
	}
	cmd.Flags().Float64Var(&scale, "scale", 0, "Pixels per surface unit (PNG)")
	return cmd
}
