package faucet

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// NewChallenge generates a random 32-byte challenge, hex-encoded. Challenges
// are advisory: the admission pipeline never requires a proof derived from one.
func NewChallenge() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate challenge: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// CheckProof reports whether SHA3-256(challenge || nonce) has at least
// difficulty leading zero bits. Used only for advisory logging of client-side
// work; never for admission.
func CheckProof(challenge string, nonce uint64, difficulty int) bool {
	raw, err := hex.DecodeString(challenge)
	if err != nil {
		return false
	}

	var nonceBytes [8]byte
	binary.BigEndian.PutUint64(nonceBytes[:], nonce)

	digest := sha3.Sum256(append(raw, nonceBytes[:]...))
	return leadingZeroBits(digest[:]) >= difficulty
}

func leadingZeroBits(b []byte) int {
	bits := 0
	for _, c := range b {
		if c == 0 {
			bits += 8
			continue
		}
		for mask := byte(0x80); mask > 0; mask >>= 1 {
			if c&mask != 0 {
				return bits
			}
			bits++
		}
	}
	return bits
}
