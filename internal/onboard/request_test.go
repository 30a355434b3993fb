package onboard

import (
	"testing"

	"github.com/Klingon-tech/klingnet-seed/internal/mnemonic"
)

func TestIndexes(t *testing.T) {
	if got := Indexes(0); len(got) != 0 {
		t.Errorf("Indexes(0) = %v", got)
	}
	if got := Indexes(-3); len(got) != 0 {
		t.Errorf("Indexes(-3) = %v", got)
	}
	got := Indexes(4)
	for i, v := range got {
		if v != uint32(i) {
			t.Fatalf("Indexes(4) = %v", got)
		}
	}
}

func TestNewImportRequest_UniqueIDs(t *testing.T) {
	a := NewImportRequest(validPhrase, 2)
	b := NewImportRequest(validPhrase, 2)
	if a.ID == b.ID {
		t.Error("request IDs should be unique")
	}
	if a.AccountType != AccountTypeMnemonic {
		t.Errorf("AccountType = %q", a.AccountType)
	}
}

type staticLocalizer struct{}

func (staticLocalizer) Localize(id string, data map[string]any) string {
	if w, ok := data["Word"]; ok {
		return id + ":" + w.(string)
	}
	return id
}

func TestMessage(t *testing.T) {
	tests := []struct {
		kind mnemonic.Kind
		word string
		want string
	}{
		{mnemonic.None, "", ""},
		{mnemonic.InvalidPhrase, "", "import.invalid_phrase"},
		{mnemonic.InvalidWord, "qq", "import.invalid_word:qq"},
		{mnemonic.TooManyWords, "", "import.word_count"},
		{mnemonic.NotEnoughWords, "", "import.word_count"},
	}
	for _, tt := range tests {
		if got := Message(staticLocalizer{}, tt.kind, tt.word); got != tt.want {
			t.Errorf("Message(%v) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
