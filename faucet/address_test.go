package faucet

import (
	"strings"
	"testing"
)

// validTestAddress is a syntactically valid 56-character account address.
const validTestAddress = "KABC2DEF3GHI4JKL5MNO6PQR7STU2VWX3YZ4ABC5DEF6GHI7JKL2PQR7"

func TestValidAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"full alphabet address", validTestAddress, true},
		{"all A payload", "K" + strings.Repeat("A", 55), true},
		{"all 7 payload", "K" + strings.Repeat("7", 55), true},
		{"empty", "", false},
		{"truncated to 55", validTestAddress[:55], false},
		{"extended to 57", validTestAddress + "A", false},
		{"lowercase appended", validTestAddress[:55] + "a", false},
		{"wrong prefix", "G" + strings.Repeat("A", 55), false},
		{"lowercase prefix", "k" + strings.Repeat("A", 55), false},
		{"digit 0 in payload", "K0" + strings.Repeat("A", 54), false},
		{"digit 1 in payload", "K" + strings.Repeat("A", 54) + "1", false},
		{"digit 8 in payload", "K" + strings.Repeat("A", 27) + "8" + strings.Repeat("A", 27), false},
		{"leading whitespace", " " + validTestAddress, false},
		{"trailing whitespace", validTestAddress + " ", false},
		{"embedded newline", validTestAddress[:30] + "\n" + validTestAddress[31:], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidAddress(tt.address); got != tt.want {
				t.Fatalf("ValidAddress(%q) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}
