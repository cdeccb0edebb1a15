package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"tarsterm/internal/client"
	"tarsterm/internal/model/settings"
	"tarsterm/internal/mood"
	"tarsterm/internal/store"
)

// mode selects which surface owns the keyboard.
type mode int

const (
	modeChat mode = iota
	modePalette
	modeHistory
	modeSliders
	modeRename
	modeSearch
)

// Deps are the long-lived collaborators the view renders and dispatches to.
type Deps struct {
	Store    *store.Store
	Mood     *mood.Engine
	Streamer *client.Streamer
	Syncer   *client.SettingsSyncer
	API      *client.API
	Logger   *zap.Logger
}

// Model is the Bubble Tea root model.
type Model struct {
	deps Deps

	mode   mode
	width  int
	height int
	ready  bool

	input    textinput.Model
	entry    textinput.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	paletteCursor int
	filtered      []Command

	historyCursor int
	sliderCursor  int
	renameTarget  string

	retort    string
	retortSeq int

	note    string
	noteErr bool
	noteSeq int

	pick mood.Picker
}

// New builds the root model. The program is not connected yet; the caller
// dials after tea.NewProgram so notifications have somewhere to go.
func New(deps Deps) Model {
	input := textinput.New()
	input.Placeholder = "Talk to TARS..."
	input.CharLimit = 2000
	input.Focus()

	entry := textinput.New()
	entry.CharLimit = 200

	return Model{
		deps:  deps,
		input: input,
		entry: entry,
		pick:  mood.DefaultPicker,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

// sliderFields fixes the order the sliders panel walks the scalars in.
var sliderFields = []struct {
	name string
	get  func(settings.Personality) int
	set  func(*settings.Personality, int)
}{
	{"Humor", func(p settings.Personality) int { return p.Humor }, func(p *settings.Personality, v int) { p.Humor = v }},
	{"Honesty", func(p settings.Personality) int { return p.Honesty }, func(p *settings.Personality, v int) { p.Honesty = v }},
	{"Discretion", func(p settings.Personality) int { return p.Discretion }, func(p *settings.Personality, v int) { p.Discretion = v }},
	{"Response Speed", func(p settings.Personality) int { return p.ResponseSpeed }, func(p *settings.Personality, v int) { p.ResponseSpeed = v }},
	{"Verbosity", func(p settings.Personality) int { return p.Verbosity }, func(p *settings.Personality, v int) { p.Verbosity = v }},
	{"Caution Level", func(p settings.Personality) int { return p.CautionLevel }, func(p *settings.Personality, v int) { p.CautionLevel = v }},
	{"Trust Level", func(p settings.Personality) int { return p.TrustLevel }, func(p *settings.Personality, v int) { p.TrustLevel = v }},
}
