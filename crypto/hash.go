package crypto

import (
	"golang.org/x/crypto/sha3"
)

// Keccak256 returns the legacy Keccak-256 digest of the concatenated inputs,
// the hash Ethereum uses for selectors and addresses (not FIPS SHA3-256).
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Selector returns the 4-byte function selector for a canonical signature
// such as "claimWin(uint256,address)".
func Selector(signature string) []byte {
	return Keccak256([]byte(signature))[:4]
}
