package config

import (
	"fmt"
	"strings"

	addresscodec "github.com/Peersyst/xrpl-go/address-codec"

	"github.com/LeJamon/goSettle/internal/crypto"
)

// ParseAccount accepts a classic address ("r...") or a hex account ID.
func ParseAccount(s string) (crypto.AccountID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return crypto.AccountID{}, fmt.Errorf("account is required")
	}
	if strings.HasPrefix(s, "r") {
		_, raw, err := addresscodec.DecodeClassicAddressToAccountID(s)
		if err != nil {
			return crypto.AccountID{}, fmt.Errorf("invalid classic address %q: %w", s, err)
		}
		return crypto.AccountIDFromBytes(raw)
	}
	return crypto.AccountIDFromHex(s)
}
