package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/treeir/render"
	"github.com/wippyai/treeir/source"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	methodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err       error
	ctx       context.Context
	results   []result
	viewport  viewport.Model
	cfg       config
	className string
	selected  int
	width     int
	height    int
	pane      paneMode
	state     modelState
	loaded    bool
}

type modelState int

const (
	stateSelectMethod modelState = iota
	stateShowBody
)

type paneMode int

const (
	paneBoth paneMode = iota
	paneTree
	paneFlat
)

func (p paneMode) next() paneMode { return (p + 1) % 3 }

func newInteractiveModel(ctx context.Context, cfg config) *interactiveModel {
	return &interactiveModel{
		ctx:      ctx,
		cfg:      cfg,
		viewport: viewport.New(80, 20),
		state:    stateSelectMethod,
	}
}

type loadedMsg struct {
	err       error
	className string
	results   []result
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

func (m *interactiveModel) load() tea.Msg {
	class, err := source.Load(m.cfg.input)
	if err != nil {
		return loadedMsg{err: err}
	}
	results, err := translateAll(m.ctx, class, m.cfg)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{className: class.Name, results: results}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectMethod {
				if m.selected > 0 {
					m.selected--
				}
				return m, nil
			}

		case "down", "j":
			if m.state == stateSelectMethod {
				if m.selected < len(m.results)-1 {
					m.selected++
				}
				return m, nil
			}

		case "enter":
			if m.state == stateSelectMethod && len(m.results) > 0 {
				m.state = stateShowBody
				m.refresh()
				return m, nil
			}

		case "tab":
			if m.state == stateShowBody {
				m.pane = m.pane.next()
				m.refresh()
				return m, nil
			}

		case "r":
			if m.state == stateSelectMethod {
				m.err = nil
				return m, m.load
			}

		case "esc":
			if m.state == stateShowBody {
				m.state = stateSelectMethod
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		if m.state == stateShowBody {
			m.refresh()
		}
		return m, nil

	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.className = msg.className
		m.results = msg.results
		if m.selected >= len(m.results) {
			m.selected = 0
		}
		return m, nil
	}

	if m.state == stateShowBody {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refresh renders the selected method into the viewport.
func (m *interactiveModel) refresh() {
	r := m.results[m.selected]
	p := &render.Printer{Styles: render.DefaultStyles(), Names: r.names}

	var flat, tr strings.Builder
	_ = p.Flat(&flat, r.flat)
	_ = p.Tree(&tr, r.tree)

	var content string
	switch m.pane {
	case paneTree:
		content = paneStyle.Render(tr.String())
	case paneFlat:
		content = paneStyle.Render(flat.String())
	default:
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			paneStyle.Render(flat.String()), " ", paneStyle.Render(tr.String()))
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress r to reload or q to quit.", m.err))
	}

	if !m.loaded {
		return "Translating " + m.cfg.input + "..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Grimp"))
	b.WriteString(" ")
	b.WriteString(m.className)
	b.WriteString(" ")
	b.WriteString(helpStyle.Render(m.cfg.opts.Regime().String()))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectMethod:
		if len(m.results) == 0 {
			b.WriteString("No methods.\n\n")
		} else {
			b.WriteString("Select a method:\n\n")
		}
		for i, r := range m.results {
			line := m.formatMethod(r)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter show • r reload • q quit"))

	case stateShowBody:
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • tab flat/tree/both • esc back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatMethod(r result) string {
	counts := fmt.Sprintf("%d -> %d stmts, %d -> %d locals",
		len(r.flat.Stmts), len(r.tree.Stmts), len(r.flat.Locals), len(r.tree.Locals))
	return methodStyle.Render(r.flat.Signature()) + " " + countStyle.Render(counts)
}

func runInteractive(ctx context.Context, cfg config) error {
	p := tea.NewProgram(newInteractiveModel(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
