package onboard

import (
	"strings"
	"testing"

	"github.com/Klingon-tech/klingnet-seed/internal/i18n"
)

const validPhrase = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type recorder struct {
	requests []ImportRequest
	advances []RouteParams
}

func (r *recorder) Dispatch(req ImportRequest) { r.requests = append(r.requests, req) }
func (r *recorder) Advance(params RouteParams) { r.advances = append(r.advances, params) }
func (r *recorder) reset()                     { r.requests, r.advances = nil, nil }
func (r *recorder) counts() (int, int)         { return len(r.requests), len(r.advances) }

func repeat(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func assertNoSuccess(t *testing.T, ui UIState) {
	t.Helper()
	if ui.ShowSuccess {
		t.Error("ShowSuccess should be false")
	}
}

func assertSubmitOff(t *testing.T, ui UIState) {
	t.Helper()
	if ui.SubmitEnabled {
		t.Error("SubmitEnabled should be false")
	}
}

func assertMessage(t *testing.T, ui UIState, want string) {
	t.Helper()
	if ui.ErrorMessage != want {
		t.Errorf("ErrorMessage = %q, want %q", ui.ErrorMessage, want)
	}
}

func newTestScreen(t *testing.T, rec *recorder, params RouteParams) *Screen {
	t.Helper()
	loc, err := i18n.New("en")
	if err != nil {
		t.Fatalf("i18n.New() error: %v", err)
	}
	s, err := NewScreen(Options{
		Dispatcher:  rec,
		Navigator:   rec,
		Localizer:   loc,
		RouteParams: params,
	})
	if err != nil {
		t.Fatalf("NewScreen() error: %v", err)
	}
	return s
}

func TestNewScreen_RequiresCollaborators(t *testing.T) {
	rec := &recorder{}
	loc, _ := i18n.New("en")

	tests := []struct {
		name string
		opts Options
	}{
		{"no dispatcher", Options{Navigator: rec, Localizer: loc}},
		{"no navigator", Options{Dispatcher: rec, Localizer: loc}},
		{"no localizer", Options{Dispatcher: rec, Navigator: rec}},
		{"negative count", Options{Dispatcher: rec, Navigator: rec, Localizer: loc, ImportCount: -1}},
	}
	for _, tt := range tests {
		if _, err := NewScreen(tt.opts); err == nil {
			t.Errorf("%s: NewScreen() should fail", tt.name)
		}
	}
}

func TestScreen_StartsEmpty(t *testing.T) {
	s := newTestScreen(t, &recorder{}, nil)
	ui := s.UI()
	if ui.State != Empty {
		t.Errorf("State = %v, want %v", ui.State, Empty)
	}
	assertSubmitOff(t, ui)
	assertNoSuccess(t, ui)
	assertMessage(t, ui, "")
}

func TestScreen_SubmitValidPhrase(t *testing.T) {
	rec := &recorder{}
	params := RouteParams{"origin": "onboarding"}
	s := newTestScreen(t, rec, params)

	ui := s.Change(validPhrase)
	if !ui.SubmitEnabled || !ui.ShowSuccess || ui.ErrorMessage != "" {
		t.Fatalf("Change() = %+v, want enabled success", ui)
	}
	if ui.State != TypingValid {
		t.Errorf("State = %v, want %v", ui.State, TypingValid)
	}

	ui = s.Submit()
	if ui.State != Submitted {
		t.Errorf("State = %v, want %v", ui.State, Submitted)
	}

	reqs, navs := rec.counts()
	if reqs != 1 || navs != 1 {
		t.Fatalf("dispatches = %d, navigations = %d; want 1, 1", reqs, navs)
	}

	req := rec.requests[0]
	if req.AccountType != AccountTypeMnemonic {
		t.Errorf("AccountType = %q", req.AccountType)
	}
	if req.Mnemonic != validPhrase {
		t.Errorf("Mnemonic = %q", req.Mnemonic)
	}
	if req.ID == "" {
		t.Error("request should carry an ID")
	}
	if len(req.DerivationIndexes) != DefaultImportCount {
		t.Fatalf("len(indexes) = %d, want %d", len(req.DerivationIndexes), DefaultImportCount)
	}
	for i, idx := range req.DerivationIndexes {
		if idx != uint32(i) {
			t.Errorf("indexes[%d] = %d", i, idx)
		}
	}
	if rec.advances[0]["origin"] != "onboarding" {
		t.Errorf("route params not forwarded: %v", rec.advances[0])
	}
	if s.Phrase() != "" {
		t.Error("phrase should be discarded after submit")
	}
}

func TestScreen_SubmittedIsTerminal(t *testing.T) {
	rec := &recorder{}
	s := newTestScreen(t, rec, nil)
	s.Change(validPhrase)
	s.Submit()

	s.Submit()
	s.Change(validPhrase)
	s.Submit()

	if reqs, navs := rec.counts(); reqs != 1 || navs != 1 {
		t.Errorf("dispatches = %d, navigations = %d; want 1, 1", reqs, navs)
	}
	if s.State() != Submitted {
		t.Errorf("State = %v, want %v", s.State(), Submitted)
	}
}

func TestScreen_CanonicalisesBeforeDispatch(t *testing.T) {
	rec := &recorder{}
	s := newTestScreen(t, rec, nil)
	s.Change("  " + strings.ToUpper(strings.ReplaceAll(validPhrase, " ", "\t ")) + " \n")
	s.Submit()

	if len(rec.requests) != 1 {
		t.Fatalf("dispatches = %d, want 1", len(rec.requests))
	}
	if rec.requests[0].Mnemonic != validPhrase {
		t.Errorf("Mnemonic = %q, want %q", rec.requests[0].Mnemonic, validPhrase)
	}
}

func TestScreen_ElevenWords(t *testing.T) {
	rec := &recorder{}
	s := newTestScreen(t, rec, nil)

	ui := s.Change(repeat("abandon", 11))
	// NotEnoughWords is hidden while typing but still blocks submit.
	assertMessage(t, ui, "")
	assertSubmitOff(t, ui)
	assertNoSuccess(t, ui)
	if ui.State != TypingInvalid {
		t.Errorf("State = %v, want %v", ui.State, TypingInvalid)
	}

	ui = s.Submit()
	assertSubmitOff(t, ui)
	assertNoSuccess(t, ui)
	assertMessage(t, ui, "Recovery phrase must be 12-24 words")
	if ui.State != TypingInvalid {
		t.Errorf("State = %v, want %v", ui.State, TypingInvalid)
	}
	if reqs, navs := rec.counts(); reqs != 0 || navs != 0 {
		t.Errorf("dispatches = %d, navigations = %d; want 0, 0", reqs, navs)
	}
}

func TestScreen_TooManyWordsShownWhileTyping(t *testing.T) {
	s := newTestScreen(t, &recorder{}, nil)
	ui := s.Change(repeat("abandon", 25))
	assertMessage(t, ui, "Recovery phrase must be 12-24 words")
	assertSubmitOff(t, ui)
	assertNoSuccess(t, ui)
}

func TestScreen_MisspelledWord(t *testing.T) {
	rec := &recorder{}
	s := newTestScreen(t, rec, nil)

	// Still typing: the error is hidden but submit stays off.
	ui := s.Change(repeat("abandon", 11) + " abandnn")
	assertMessage(t, ui, "")
	assertSubmitOff(t, ui)

	// Past the word boundary the error is shown.
	ui = s.Change(repeat("abandon", 11) + " abandnn ")
	assertMessage(t, ui, "Invalid word: abandnn")
	assertNoSuccess(t, ui)
	assertSubmitOff(t, ui)
	if ui.State != TypingInvalid {
		t.Errorf("State = %v, want %v", ui.State, TypingInvalid)
	}

	ui = s.Submit()
	assertMessage(t, ui, "Invalid word: abandnn")
	assertNoSuccess(t, ui)
	if reqs, _ := rec.counts(); reqs != 0 {
		t.Errorf("dispatches = %d, want 0", reqs)
	}
}

func TestScreen_MisspelledWordInMiddle(t *testing.T) {
	rec := &recorder{}
	s := newTestScreen(t, rec, nil)

	// Only the last token is checked while typing.
	ui := s.Change("abandon abandnn " + repeat("abandon", 9) + " about")
	if !ui.SubmitEnabled {
		t.Fatal("incremental check should only inspect the last word")
	}

	ui = s.Submit()
	assertMessage(t, ui, "Invalid word: abandnn")
	assertSubmitOff(t, ui)
	assertNoSuccess(t, ui)
	if reqs, navs := rec.counts(); reqs != 0 || navs != 0 {
		t.Errorf("dispatches = %d, navigations = %d; want 0, 0", reqs, navs)
	}
}

func TestScreen_BadChecksum(t *testing.T) {
	rec := &recorder{}
	s := newTestScreen(t, rec, nil)

	ui := s.Change(repeat("abandon", 12))
	if !ui.SubmitEnabled || !ui.ShowSuccess {
		t.Fatalf("Change() = %+v, want enabled success before the final check", ui)
	}

	ui = s.Submit()
	assertMessage(t, ui, "Invalid phrase")
	assertNoSuccess(t, ui)
	assertSubmitOff(t, ui)
	if reqs, _ := rec.counts(); reqs != 0 {
		t.Errorf("dispatches = %d, want 0", reqs)
	}

	// Fixing the phrase re-enables submit.
	ui = s.Change(validPhrase)
	if !ui.SubmitEnabled || ui.ErrorMessage != "" {
		t.Errorf("Change() = %+v, want enabled without message", ui)
	}
}

func TestScreen_SuppressedInvalidWordKeepsSuccess(t *testing.T) {
	s := newTestScreen(t, &recorder{}, nil)
	// "abx" is not a prefix of any word, and the user has not left it yet.
	ui := s.Change(repeat("abandon", 11) + " abx")
	assertMessage(t, ui, "")
	assertSubmitOff(t, ui)
	if !ui.ShowSuccess {
		t.Error("ShowSuccess should follow the valid length while the error is hidden")
	}
}

func TestScreen_SuccessAndMessageExclusive(t *testing.T) {
	s := newTestScreen(t, &recorder{}, nil)
	inputs := []string{
		"", "a", repeat("abandon", 11), validPhrase, repeat("abandon", 11) + " zzz ",
		repeat("abandon", 11) + " zz", repeat("abandon", 24), repeat("abandon", 30),
	}
	for _, in := range inputs {
		ui := s.Change(in)
		if ui.ShowSuccess && ui.ErrorMessage != "" {
			t.Errorf("Change(%q) shows success and %q", in, ui.ErrorMessage)
		}
	}
}

func TestScreen_Reset(t *testing.T) {
	rec := &recorder{}
	s := newTestScreen(t, rec, nil)
	s.Change(validPhrase)
	s.Submit()

	s.Reset()
	if s.State() != Empty {
		t.Fatalf("State = %v, want %v", s.State(), Empty)
	}

	rec.reset()
	s.Change(validPhrase)
	s.Submit()
	if reqs, navs := rec.counts(); reqs != 1 || navs != 1 {
		t.Errorf("after reset: dispatches = %d, navigations = %d; want 1, 1", reqs, navs)
	}
}

func TestScreen_EmptyTextDoesNotReturnToEmpty(t *testing.T) {
	s := newTestScreen(t, &recorder{}, nil)
	s.Change("abandon")
	ui := s.Change("")
	if ui.State != TypingInvalid {
		t.Errorf("State = %v, want %v", ui.State, TypingInvalid)
	}
}

func TestScreen_ImportCount(t *testing.T) {
	rec := &recorder{}
	loc, _ := i18n.New("en")
	s, err := NewScreen(Options{Dispatcher: rec, Navigator: rec, Localizer: loc, ImportCount: 3})
	if err != nil {
		t.Fatalf("NewScreen() error: %v", err)
	}
	s.Change(validPhrase)
	s.Submit()
	if got := rec.requests[0].DerivationIndexes; len(got) != 3 || got[2] != 2 {
		t.Errorf("indexes = %v, want [0 1 2]", got)
	}
}

func TestScreen_GermanMessages(t *testing.T) {
	rec := &recorder{}
	loc, _ := i18n.New("de")
	s, err := NewScreen(Options{Dispatcher: rec, Navigator: rec, Localizer: loc})
	if err != nil {
		t.Fatalf("NewScreen() error: %v", err)
	}
	s.Change(repeat("abandon", 12))
	ui := s.Submit()
	assertMessage(t, ui, "Ungültige Phrase")
}

func TestFuncAdapters(t *testing.T) {
	var got []string
	s := newTestScreen(t, &recorder{}, nil)
	s.dispatcher = DispatcherFunc(func(req ImportRequest) { got = append(got, "dispatch") })
	s.navigator = NavigatorFunc(func(RouteParams) { got = append(got, "advance") })

	s.Change(validPhrase)
	s.Submit()
	if strings.Join(got, ",") != "dispatch,advance" {
		t.Errorf("calls = %v, want dispatch then advance", got)
	}
}
