package portal_test

import (
	"errors"
	"testing"

	"github.com/frontiertower/portal-backend/internal/portal"
)

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"colon separated", "aa:bb:cc:dd:ee:ff", "aa:bb:cc:dd:ee:ff"},
		{"hyphen separated", "AA-BB-CC-DD-EE-FF", "aa:bb:cc:dd:ee:ff"},
		{"dot separated", "aabb.ccdd.eeff", "aa:bb:cc:dd:ee:ff"},
		{"bare hex uppercase", "AABBCCDDEEFF", "aa:bb:cc:dd:ee:ff"},
		{"mixed case with spaces", " aA:Bb:cC:dD:eE:fF ", "aa:bb:cc:dd:ee:ff"},
		{"digits only", "001122334455", "00:11:22:33:44:55"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := portal.NormalizeMAC(tt.in)
			if err != nil {
				t.Fatalf("NormalizeMAC(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeMAC(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeMAC_Idempotent(t *testing.T) {
	inputs := []string{"AA-BB-CC-DD-EE-FF", "aabbccddeeff", "00:11:22:33:44:55"}

	for _, in := range inputs {
		once, err := portal.NormalizeMAC(in)
		if err != nil {
			t.Fatalf("NormalizeMAC(%q): %v", in, err)
		}
		twice, err := portal.NormalizeMAC(once)
		if err != nil {
			t.Fatalf("NormalizeMAC(%q): %v", once, err)
		}
		if once != twice {
			t.Errorf("normalize not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestNormalizeMAC_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"aa:bb:cc:dd:ee",       // too short
		"aa:bb:cc:dd:ee:ff:00", // too long
		"gg:hh:ii:jj:kk:ll",    // not hex
		"not a mac",
	}

	for _, in := range inputs {
		_, err := portal.NormalizeMAC(in)
		if err == nil {
			t.Errorf("NormalizeMAC(%q): expected error", in)
			continue
		}
		var mErr *portal.MalformedAddressError
		if !errors.As(err, &mErr) {
			t.Errorf("NormalizeMAC(%q): expected MalformedAddressError, got %T", in, err)
		}
	}
}
