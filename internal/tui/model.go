// Package tui is the terminal front end for the recovery-phrase screen.
package tui

import (
	"errors"
	"strings"

	"github.com/Klingon-tech/klingnet-seed/internal/i18n"
	"github.com/Klingon-tech/klingnet-seed/internal/mnemonic"
	"github.com/Klingon-tech/klingnet-seed/internal/onboard"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configures a Model. Dispatcher and Localizer are required.
type Options struct {
	Validator   *mnemonic.Validator
	Dispatcher  onboard.Dispatcher
	Localizer   onboard.Localizer
	ImportCount int
	RouteParams onboard.RouteParams

	// Paste reads the clipboard. nil uses the system clipboard.
	Paste func() (string, error)
}

// navigation records the screen's single Advance call.
type navigation struct {
	advanced bool
	params   onboard.RouteParams
}

func (n *navigation) Advance(params onboard.RouteParams) {
	n.advanced = true
	n.params = params
}

// Model drives an onboard.Screen from terminal input. Every edit of the
// text field, typed or pasted, reaches the screen as the whole field value.
type Model struct {
	screen *onboard.Screen
	input  textinput.Model
	loc    onboard.Localizer
	nav    *navigation
	paste  func() (string, error)

	ui       onboard.UIState
	pasteErr error
	quitting bool
	width    int
}

// New creates a model showing an empty field.
func New(opts Options) (*Model, error) {
	if opts.Localizer == nil {
		return nil, errors.New("tui: localizer is required")
	}
	nav := &navigation{}
	screen, err := onboard.NewScreen(onboard.Options{
		Validator:   opts.Validator,
		Dispatcher:  opts.Dispatcher,
		Navigator:   nav,
		Localizer:   opts.Localizer,
		ImportCount: opts.ImportCount,
		RouteParams: opts.RouteParams,
	})
	if err != nil {
		return nil, err
	}

	ti := textinput.New()
	ti.Placeholder = opts.Localizer.Localize(i18n.MsgPlaceholder, nil)
	ti.Prompt = "› "
	ti.CharLimit = 1024
	ti.Width = 72
	ti.Focus()

	paste := opts.Paste
	if paste == nil {
		paste = clipboard.ReadAll
	}

	return &Model{
		screen: screen,
		input:  ti,
		loc:    opts.Localizer,
		nav:    nav,
		paste:  paste,
		ui:     screen.UI(),
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			if !m.ui.SubmitEnabled {
				return m, nil
			}
			m.ui = m.screen.Submit()
			if m.nav.advanced {
				m.input.Blur()
				return m, tea.Quit
			}
			return m, nil

		case "ctrl+p":
			text, err := m.paste()
			m.pasteErr = err
			if err != nil {
				return m, nil
			}
			m.input.SetValue(text)
			m.input.CursorEnd()
			m.ui = m.screen.Change(m.input.Value())
			return m, nil
		}
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != prev {
		m.pasteErr = nil
		m.ui = m.screen.Change(v)
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.loc.Localize(i18n.MsgTitle, nil)))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(m.loc.Localize(i18n.MsgSubtitle, nil)))
	b.WriteString("\n\n")

	if m.ui.State == onboard.Submitted {
		b.WriteString(successStyle.Render(m.loc.Localize(i18n.MsgImporting, nil)))
		b.WriteString("\n")
		return b.String()
	}

	box := inputBoxStyle
	if m.width > 4 {
		box = box.MaxWidth(m.width)
	}
	b.WriteString(box.Render(m.input.View()))
	b.WriteString("\n")

	switch {
	case m.pasteErr != nil:
		b.WriteString(errorStyle.Render(m.pasteErr.Error()))
	case m.ui.ErrorMessage != "":
		b.WriteString(errorStyle.Render(m.ui.ErrorMessage))
	case m.ui.ShowSuccess:
		b.WriteString(successStyle.Render(m.loc.Localize(i18n.MsgSuccess, nil)))
	}
	b.WriteString("\n\n")

	label := m.loc.Localize(i18n.MsgContinue, nil)
	if m.ui.SubmitEnabled {
		b.WriteString(buttonStyle.Render(label))
	} else {
		b.WriteString(buttonDisabledStyle.Render(label))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.loc.Localize(i18n.MsgHelp, nil)))
	b.WriteString("\n")

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// UI returns the screen state last drawn.
func (m *Model) UI() onboard.UIState { return m.ui }

// Advanced reports whether the screen moved on, with the route parameters
// it forwarded.
func (m *Model) Advanced() (onboard.RouteParams, bool) {
	return m.nav.params, m.nav.advanced
}

// Run shows the model until the phrase is submitted or the user
// quits. It reports whether the screen advanced.
func Run(m *Model, opts ...tea.ProgramOption) (bool, error) {
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return false, err
	}
	_, ok := m.Advanced()
	return ok, nil
}
