package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/Klingon-tech/klingnet-seed/internal/i18n"
	"github.com/Klingon-tech/klingnet-seed/internal/onboard"
	tea "github.com/charmbracelet/bubbletea"
)

const validPhrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type recorder struct {
	reqs []onboard.ImportRequest
}

func (r *recorder) Dispatch(req onboard.ImportRequest) { r.reqs = append(r.reqs, req) }

func newTestModel(t *testing.T, paste func() (string, error)) (*Model, *recorder) {
	t.Helper()
	rec := &recorder{}
	m, err := New(Options{
		Dispatcher:  rec,
		Localizer:   i18n.MustNewBundle().Localizer("en"),
		ImportCount: 3,
		RouteParams: onboard.RouteParams{"from": "welcome"},
		Paste:       paste,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return m, rec
}

func typeText(m *Model, text string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return cmd
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNew_RequiresLocalizer(t *testing.T) {
	if _, err := New(Options{Dispatcher: &recorder{}}); err == nil {
		t.Fatal("expected error without localizer")
	}
	if _, err := New(Options{Localizer: i18n.MustNewBundle().Localizer("en")}); err == nil {
		t.Fatal("expected error without dispatcher")
	}
}

func TestModel_InitialView(t *testing.T) {
	m, _ := newTestModel(t, nil)

	if m.UI().State != onboard.Empty || m.UI().SubmitEnabled {
		t.Fatalf("initial UI = %+v", m.UI())
	}
	out := m.View()
	for _, want := range []string{"Enter your recovery phrase", "Continue"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestModel_TypingUpdatesScreen(t *testing.T) {
	m, rec := newTestModel(t, nil)

	typeText(m, "abandon qqq")
	if m.UI().State != onboard.TypingInvalid || m.UI().SubmitEnabled {
		t.Fatalf("UI = %+v", m.UI())
	}
	// The word is still being typed, so no message yet.
	if m.UI().ErrorMessage != "" {
		t.Errorf("ErrorMessage = %q, want empty", m.UI().ErrorMessage)
	}

	if cmd := press(m, tea.KeyEnter); isQuit(cmd) {
		t.Fatal("enter on an invalid phrase should not quit")
	}
	if len(rec.reqs) != 0 {
		t.Fatalf("dispatched %d requests, want 0", len(rec.reqs))
	}
}

func TestModel_EnterIgnoredWhileDisabled(t *testing.T) {
	m, rec := newTestModel(t, nil)

	typeText(m, strings.Repeat("abandon ", 11))
	before := m.UI()
	if before.SubmitEnabled || before.ErrorMessage != "" {
		t.Fatalf("UI = %+v, want disabled with no message", before)
	}

	press(m, tea.KeyEnter)
	if m.UI() != before {
		t.Errorf("UI after enter = %+v, want unchanged %+v", m.UI(), before)
	}
	if len(rec.reqs) != 0 {
		t.Fatalf("dispatched %d requests, want 0", len(rec.reqs))
	}
	if strings.Contains(m.View(), "Recovery phrase must be 12-24 words") {
		t.Errorf("disabled continue should not reveal the word count message:\n%s", m.View())
	}
}

func TestModel_SubmitValid(t *testing.T) {
	m, rec := newTestModel(t, nil)

	typeText(m, validPhrase)
	if !m.UI().SubmitEnabled || !m.UI().ShowSuccess {
		t.Fatalf("UI = %+v", m.UI())
	}
	if !strings.Contains(m.View(), "Valid recovery phrase") {
		t.Errorf("view missing success line:\n%s", m.View())
	}

	if cmd := press(m, tea.KeyEnter); !isQuit(cmd) {
		t.Fatal("enter on a valid phrase should quit")
	}
	if len(rec.reqs) != 1 {
		t.Fatalf("dispatched %d requests, want 1", len(rec.reqs))
	}
	if rec.reqs[0].Mnemonic != validPhrase || len(rec.reqs[0].DerivationIndexes) != 3 {
		t.Errorf("request = %+v", rec.reqs[0])
	}

	params, ok := m.Advanced()
	if !ok || params["from"] != "welcome" {
		t.Errorf("Advanced() = %v, %v", params, ok)
	}

	// Further input is ignored once submitted.
	typeText(m, " more")
	press(m, tea.KeyEnter)
	if len(rec.reqs) != 1 || m.UI().State != onboard.Submitted {
		t.Errorf("after submit: reqs=%d UI=%+v", len(rec.reqs), m.UI())
	}
}

func TestModel_Paste(t *testing.T) {
	m, _ := newTestModel(t, func() (string, error) { return "  " + strings.ToUpper(validPhrase) + "\n", nil })

	typeText(m, "zzz")
	press(m, tea.KeyCtrlP)
	if m.UI().State != onboard.TypingValid || !m.UI().SubmitEnabled {
		t.Fatalf("UI after paste = %+v", m.UI())
	}
}

func TestModel_PasteError(t *testing.T) {
	m, _ := newTestModel(t, func() (string, error) { return "", errors.New("no clipboard") })

	press(m, tea.KeyCtrlP)
	if !strings.Contains(m.View(), "no clipboard") {
		t.Errorf("view should show the paste error:\n%s", m.View())
	}
	if m.UI().State != onboard.Empty {
		t.Errorf("State = %v, want empty", m.UI().State)
	}
}

func TestModel_Quit(t *testing.T) {
	m, rec := newTestModel(t, nil)
	typeText(m, validPhrase)

	if cmd := press(m, tea.KeyEsc); !isQuit(cmd) {
		t.Fatal("esc should quit")
	}
	if _, ok := m.Advanced(); ok {
		t.Error("quitting must not advance")
	}
	if len(rec.reqs) != 0 {
		t.Errorf("dispatched %d requests, want 0", len(rec.reqs))
	}
	if m.View() != "" {
		t.Errorf("view after quit = %q", m.View())
	}
}
