package main

import (
	"context"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Messages delivered from the note bridge. The bridge calls back on its own
// goroutines, so everything reaches the model through program.Send.
type (
	noteStreamedMsg struct{ text string }
	noteSavedMsg    struct{ err error }
	streamFailedMsg struct{ err error }
)

type model struct {
	width    int
	height   int
	cursorX  int
	cursorY  int
	panX     int
	panY     int
	zPanMode bool

	config  *Config
	session *Session
	bridge  NoteBridge
	log     zerolog.Logger

	mode       Mode
	help       bool
	helpScroll int

	editor    textarea.Model
	editID    int
	editIsNew bool

	filename      string
	fileOp        FileOperation
	confirmAction ConfirmAction

	colorIndex     int
	loaded         bool
	lastReport     ImportReport
	saveErr        error
	errorMessage   string
	successMessage string
}

func newModel(cfg *Config, session *Session, bridge NoteBridge) model {
	ta := textarea.New()
	ta.Placeholder = "Write…"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(40)
	ta.SetHeight(6)

	colorIndex := 0
	for i, c := range palette {
		if c == cfg.PenColor {
			colorIndex = i
		}
	}

	return model{
		config:     cfg,
		session:    session,
		bridge:     bridge,
		log:        session.Logger(),
		mode:       ModeNormal,
		editor:     ta,
		colorIndex: colorIndex,
	}
}

func (m model) Init() tea.Cmd {
	return streamNote(m.bridge)
}

func streamNote(bridge NoteBridge) tea.Cmd {
	return func() tea.Msg {
		if err := bridge.Stream(context.Background()); err != nil {
			return streamFailedMsg{err: err}
		}
		return nil
	}
}

// runTUI opens the editor on one note and blocks until the user quits.
func runTUI(ctx context.Context, cfg *Config, note string, log zerolog.Logger) error {
	bridge, err := openBridge(ctx, cfg, note)
	if err != nil {
		return err
	}
	defer func() {
		if err := bridge.Close(); err != nil {
			log.Error().Err(err).Msg("closing note store")
		}
	}()

	session := NewSession(note, bridge, sessionOptions(cfg, log))
	p := tea.NewProgram(
		newModel(cfg, session, bridge),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	bridge.OnNoteStreamed(func(text string) { p.Send(noteStreamedMsg{text: text}) })
	session.SetOnSaved(func(err error) { p.Send(noteSavedMsg{err: err}) })

	_, err = p.Run()
	session.Close()
	return err
}
