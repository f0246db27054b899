package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/qi-duel/internal/config"
	"github.com/tatianab/qi-duel/internal/engine"
	"github.com/tatianab/qi-duel/internal/ledger"
	"github.com/tatianab/qi-duel/internal/models"
	"github.com/tatianab/qi-duel/internal/strategist"
)

type sessionState int

const (
	stateChooseVariant sessionState = iota
	statePlaying
	stateEnded
	stateError
)

// levelHealthBonus is the extra starting health per battle won in a row.
const levelHealthBonus = 5

type model struct {
	state     sessionState
	cfg       config.Battle
	saveDir   string
	adviser   strategist.Strategist
	engine    *engine.Engine
	ledger    *ledger.Ledger
	textInput textinput.Model
	viewport  viewport.Model
	playerBar progress.Model
	enemyBar  progress.Model
	err       error
	gameLog   string
	preview   string
	level     int
	saved     string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87AFD7"))

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D75F5F"))
)

// NewModel builds the client. adviser answers /hint and may be nil.
func NewModel(cfg config.Battle, saveDir string, adviser strategist.Strategist) model {
	ti := textinput.New()
	ti.Placeholder = "Opponent: default, aggressive or defensive"
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 40

	return model{
		state:     stateChooseVariant,
		cfg:       cfg,
		saveDir:   saveDir,
		adviser:   adviser,
		ledger:    ledger.New(),
		textInput: ti,
		playerBar: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		enemyBar:  progress.New(progress.WithGradient("#FF7CCB", "#D75F5F"), progress.WithoutPercentage()),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type hintMsg struct {
	alloc models.Allocation
	err   error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			input := strings.TrimSpace(m.textInput.Value())
			m.textInput.Reset()
			m.preview = ""

			switch input {
			case "/quit":
				return m, tea.Quit
			case "/restart":
				m.level = 0
				return m.chooseVariant(), nil
			}

			switch m.state {
			case stateChooseVariant:
				return m.startBattle(input), nil
			case stateEnded:
				if input == "/next" && m.engine.Winner() == models.Player {
					m.level++
					return m.startBattle(m.engine.Variant()), nil
				}
				return m, nil
			case statePlaying:
				if input == "/hint" {
					return m, m.hint()
				}
				if input == "" {
					return m, nil
				}
				return m.commit(input), nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.6)
		m.viewport.Height = msg.Height - 8
		barWidth := max(10, int(float64(msg.Width)*0.3)-4)
		m.playerBar.Width = barWidth
		m.enemyBar.Width = barWidth
		if m.engine != nil {
			m.viewport.SetContent(m.renderLog())
		}

	case hintMsg:
		if msg.err != nil {
			m.appendLog(lockedStyle.Render("Hint failed: " + msg.err.Error()))
		} else {
			m.appendLog(helpStyle.Render(fmt.Sprintf("Hint: try %g %g", msg.alloc.Yang, msg.alloc.Yin)))
		}
		return m, nil
	}

	if m.state != stateError {
		m.textInput, cmd = m.textInput.Update(msg)
		if m.state == statePlaying {
			m.preview = m.renderPreview(m.textInput.Value())
		}
		return m, cmd
	}

	return m, nil
}

func (m model) chooseVariant() model {
	m.state = stateChooseVariant
	m.engine = nil
	m.gameLog = ""
	m.saved = ""
	m.textInput.Placeholder = "Opponent: default, aggressive or defensive"
	return m
}

func (m model) startBattle(variant string) model {
	cfg := m.cfg
	if variant != "" {
		cfg.Opponent.Variant = variant
	}
	eng, err := engine.New(cfg,
		engine.WithHealthBonus(m.level*levelHealthBonus),
		engine.WithListener(func(ev engine.Event) {
			slog.Debug("battle event", "kind", ev.Kind, "side", ev.Side, "amount", ev.Amount, "state", ev.State, "action", ev.Action)
		}),
	)
	if err != nil {
		if m.state == stateChooseVariant {
			m.textInput.Placeholder = "Unknown opponent, try default, aggressive or defensive"
			return m
		}
		m.err = err
		m.state = stateError
		return m
	}

	m.engine = eng
	m.state = statePlaying
	m.saved = ""
	m.textInput.Placeholder = "yang yin (e.g. 4 3)"
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(int(float64(m.width)*0.6), max(5, m.height-8))
	}

	header := gameStyle.Bold(true).Render(fmt.Sprintf("Level %d vs %s (%s)", m.level+1, cfg.Enemy.Name, eng.Variant()))
	m.gameLog = header + "\n\n"
	lines, _ := eng.Drain()
	m.appendLines(lines)
	return m
}

func (m model) commit(input string) model {
	yang, yin, err := parseAllocation(input)
	if err != nil {
		m.appendLog(lockedStyle.Render(err.Error()))
		return m
	}

	logWidth := m.viewport.Width
	m.gameLog += "\n" + userStyle.Width(logWidth).Render("> "+input) + "\n"

	res, err := m.engine.Commit(yang, yin)
	switch {
	case errors.Is(err, engine.ErrLockedStateAttempt), errors.Is(err, engine.ErrInvalidAllocation):
		m.appendLog(lockedStyle.Render(err.Error()))
		return m
	case err != nil:
		m.err = err
		m.state = stateError
		return m
	}

	m.appendLines(res.Log)
	for _, ev := range res.Events {
		if ev.Kind == engine.EventBattleEnded {
			m.state = stateEnded
			m.saved = m.saveRecord()
		}
	}
	return m
}

func (m model) saveRecord() string {
	name := "battle-" + time.Now().Format("20060102-150405")
	rec := m.engine.Record(name)
	rec.FinishedAt = time.Now()
	if err := rec.Save(m.saveDir); err != nil {
		slog.Warn("saving battle record", "name", name, "err", err)
		return ""
	}
	return name
}

func (m *model) appendLines(lines []string) {
	for _, line := range lines {
		m.gameLog += gameStyle.Width(m.viewport.Width).Render(line) + "\n"
	}
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
}

func (m *model) appendLog(line string) {
	m.gameLog += line + "\n"
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
}

func (m model) renderLog() string {
	return m.gameLog
}

func (m model) hint() tea.Cmd {
	if m.adviser == nil {
		return func() tea.Msg { return hintMsg{err: errors.New("no adviser configured")} }
	}
	// The adviser previews against its own copy so the battle can go on.
	snap := m.engine.State()
	sandbox, err := engine.Restore(m.cfg, snap)
	if err != nil {
		return func() tea.Msg { return hintMsg{err: err} }
	}
	adviser := m.adviser
	return func() tea.Msg {
		alloc, err := adviser.Choose(context.Background(), snap, sandbox)
		return hintMsg{alloc: alloc, err: err}
	}
}

// parseAllocation reads "yang yin", separated by spaces, a comma or a slash.
func parseAllocation(input string) (yang, yin float64, err error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == '\t'
	})
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("enter two numbers: yang yin")
	}
	yang, err = strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("yang %q is not a number", fields[0])
	}
	yin, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("yin %q is not a number", fields[1])
	}
	return yang, yin, nil
}

// Run starts the client in the alternate screen.
func Run(cfg config.Battle, saveDir string, adviser strategist.Strategist) error {
	p := tea.NewProgram(NewModel(cfg, saveDir, adviser), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
