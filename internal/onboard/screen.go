package onboard

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-seed/internal/i18n"
	klog "github.com/Klingon-tech/klingnet-seed/internal/log"
	"github.com/Klingon-tech/klingnet-seed/internal/mnemonic"
)

// State is the screen's position in the entry flow. Typing has no value of
// its own: Change passes through it and settles on TypingValid or
// TypingInvalid before returning.
type State int

const (
	Empty State = iota
	TypingValid
	TypingInvalid
	Submitted
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case TypingValid:
		return "typing_valid"
	case TypingInvalid:
		return "typing_invalid"
	case Submitted:
		return "submitted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// UIState is everything the presentation layer needs to draw the screen.
// ShowSuccess implies an empty ErrorMessage.
type UIState struct {
	State         State
	SubmitEnabled bool
	ErrorMessage  string
	ShowSuccess   bool
}

// Options configures a Screen. Dispatcher, Navigator and Localizer are
// required.
type Options struct {
	Validator   *mnemonic.Validator // nil means English
	Dispatcher  Dispatcher
	Navigator   Navigator
	Localizer   Localizer
	ImportCount int // accounts to derive; 0 means DefaultImportCount
	RouteParams RouteParams
}

// Screen is the recovery-phrase entry state machine. It is driven from a
// single event loop and is not safe for concurrent use.
type Screen struct {
	validator   *mnemonic.Validator
	dispatcher  Dispatcher
	navigator   Navigator
	localizer   Localizer
	importCount int
	params      RouteParams

	phrase string
	ui     UIState
}

// NewScreen creates a screen in the Empty state.
func NewScreen(opts Options) (*Screen, error) {
	if opts.Dispatcher == nil {
		return nil, errors.New("onboard: dispatcher is required")
	}
	if opts.Navigator == nil {
		return nil, errors.New("onboard: navigator is required")
	}
	if opts.Localizer == nil {
		return nil, errors.New("onboard: localizer is required")
	}
	if opts.ImportCount < 0 {
		return nil, fmt.Errorf("onboard: import count must be positive, got %d", opts.ImportCount)
	}

	v := opts.Validator
	if v == nil {
		v = mnemonic.NewValidator(nil)
	}
	count := opts.ImportCount
	if count == 0 {
		count = DefaultImportCount
	}

	return &Screen{
		validator:   v,
		dispatcher:  opts.Dispatcher,
		navigator:   opts.Navigator,
		localizer:   opts.Localizer,
		importCount: count,
		params:      opts.RouteParams,
	}, nil
}

// UI returns the current UI state.
func (s *Screen) UI() UIState { return s.ui }

// State returns the current state.
func (s *Screen) State() State { return s.ui.State }

// Phrase returns the text as last delivered by Change.
func (s *Screen) Phrase() string { return s.phrase }

// Change handles a complete-string update from the text field.
//
// An InvalidWord error is hidden while the user is still typing that word,
// and NotEnoughWords is never shown. Hidden errors still disable submit.
func (s *Screen) Change(text string) UIState {
	if s.ui.State == Submitted {
		return s.ui
	}

	check := s.validator.ValidateSetOfWords(text)
	s.phrase = text

	shown := check.Kind
	switch {
	case shown == mnemonic.InvalidWord && !s.validator.UserFinishedTypingWord(text):
		shown = mnemonic.None
	case shown == mnemonic.NotEnoughWords:
		shown = mnemonic.None
	}

	s.ui = UIState{
		SubmitEnabled: check.Kind == mnemonic.None,
		ErrorMessage:  s.message(shown, check.InvalidWord),
		ShowSuccess:   check.ValidLength && shown == mnemonic.None,
	}
	if check.Kind == mnemonic.None {
		s.ui.State = TypingValid
	} else {
		s.ui.State = TypingInvalid
	}
	return s.ui
}

// Submit runs the full check on the current phrase. A rejected phrase
// leaves the screen in TypingInvalid with a message. An accepted phrase
// dispatches one ImportRequest, advances navigation once and discards the
// phrase.
func (s *Screen) Submit() UIState {
	if s.ui.State == Submitted {
		return s.ui
	}

	res := s.validator.ValidateMnemonic(s.phrase)
	if !res.Valid {
		klog.Onboard.Debug().
			Str("reason", res.Kind.String()).
			Int("words", len(mnemonic.Tokenize(s.phrase))).
			Msg("Recovery phrase rejected")
		s.ui = UIState{
			State:         TypingInvalid,
			SubmitEnabled: false,
			ErrorMessage:  s.message(res.Kind, res.InvalidWord),
			ShowSuccess:   false,
		}
		return s.ui
	}

	req := NewImportRequest(res.Mnemonic, s.importCount)
	s.phrase = ""
	s.ui = UIState{State: Submitted}

	klog.Onboard.Info().
		Str("request", req.ID).
		Int("accounts", len(req.DerivationIndexes)).
		Msg("Recovery phrase accepted")

	s.dispatcher.Dispatch(req)
	s.navigator.Advance(s.params)
	return s.ui
}

// Reset returns the screen to Empty, as when it is mounted again.
func (s *Screen) Reset() {
	s.phrase = ""
	s.ui = UIState{}
}

func (s *Screen) message(kind mnemonic.Kind, word string) string {
	return Message(s.localizer, kind, word)
}

// Message renders the user-facing text for a validation kind.
// None renders as the empty string.
func Message(loc Localizer, kind mnemonic.Kind, word string) string {
	switch kind {
	case mnemonic.InvalidPhrase:
		return loc.Localize(i18n.MsgInvalidPhrase, nil)
	case mnemonic.InvalidWord:
		return loc.Localize(i18n.MsgInvalidWord, map[string]any{"Word": word})
	case mnemonic.TooManyWords, mnemonic.NotEnoughWords:
		return loc.Localize(i18n.MsgWordCount, nil)
	}
	return ""
}
