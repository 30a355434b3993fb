package types

import (
	"strings"
	"testing"
)

func TestAddress_IsZero(t *testing.T) {
	var zero Address
	if !zero.IsZero() {
		t.Error("zero-value Address should be zero")
	}

	nonZero := Address{0x01}
	if nonZero.IsZero() {
		t.Error("non-zero Address should not be zero")
	}
}

func TestAddress_Encode(t *testing.T) {
	a := Address{0xab}
	a[19] = 0xcd

	tests := []struct {
		hrp    string
		prefix string
	}{
		{MainnetHRP, "kgx1"},
		{TestnetHRP, "tkgx1"},
	}
	for _, tt := range tests {
		t.Run(tt.hrp, func(t *testing.T) {
			s, err := a.Encode(tt.hrp)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if !strings.HasPrefix(s, tt.prefix) {
				t.Errorf("Encode() = %s, want prefix %s", s, tt.prefix)
			}
		})
	}
}

func TestParseAddress_Bech32(t *testing.T) {
	a := Address{0x8f, 0x3a, 0x44, 0xb8, 0x05, 0x6c, 0xaf, 0xec, 0x36, 0x8d,
		0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa}

	s, err := a.Encode(TestnetHRP)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	got, hrp, err := ParseAddress(s)
	if err != nil {
		t.Fatalf("ParseAddress() error: %v", err)
	}
	if got != a {
		t.Errorf("ParseAddress() = %x, want %x", got, a)
	}
	if hrp != TestnetHRP {
		t.Errorf("hrp = %q, want %q", hrp, TestnetHRP)
	}
}

func TestParseAddress_Hex(t *testing.T) {
	a := Address{0x01, 0x02}
	got, hrp, err := ParseAddress(a.Hex())
	if err != nil {
		t.Fatalf("ParseAddress() error: %v", err)
	}
	if got != a {
		t.Errorf("ParseAddress() = %x, want %x", got, a)
	}
	if hrp != "" {
		t.Errorf("hrp = %q, want empty", hrp)
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	for _, s := range []string{"", "   ", "kgx1notvalid", "zz"} {
		if _, _, err := ParseAddress(s); err == nil {
			t.Errorf("ParseAddress(%q) should fail", s)
		}
	}
}

func TestHRPFor(t *testing.T) {
	if got := HRPFor("testnet"); got != TestnetHRP {
		t.Errorf("HRPFor(testnet) = %q", got)
	}
	if got := HRPFor("mainnet"); got != MainnetHRP {
		t.Errorf("HRPFor(mainnet) = %q", got)
	}
}
