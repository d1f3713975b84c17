package faucet

import "regexp"

// AddressLen is the exact length of a Kalon account address.
const AddressLen = 56

// Kalon account addresses: prefix K, then 55 base-32 symbols (A-Z, 2-7).
var addressPattern = regexp.MustCompile(`^K[A-Z2-7]{55}$`)

// ValidAddress reports whether address is a well-formed Kalon account address.
// Anchored exact match: case-sensitive, no surrounding whitespace tolerated.
func ValidAddress(address string) bool {
	return len(address) == AddressLen && addressPattern.MatchString(address)
}
