package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// AccountIDSize is the size of a ledger account ID in bytes.
const AccountIDSize = 20

// AccountID identifies a ledger account.
type AccountID [AccountIDSize]byte

// CalcAccountID computes RIPEMD160(SHA256(data)) over the concatenated
// inputs. The same derivation serves key-derived and module-derived accounts.
func CalcAccountID(data ...[]byte) AccountID {
	sha := sha256.New()
	for _, d := range data {
		sha.Write(d)
	}

	ripemd160Hasher := ripemd160.New()
	ripemd160Hasher.Write(sha.Sum(nil))

	var result AccountID
	copy(result[:], ripemd160Hasher.Sum(nil))
	return result
}

// AccountIDFromBytes creates an account ID from a 20 byte slice.
func AccountIDFromBytes(b []byte) (AccountID, error) {
	var result AccountID
	if len(b) != AccountIDSize {
		return result, fmt.Errorf("account id must be %d bytes, got %d", AccountIDSize, len(b))
	}
	copy(result[:], b)
	return result, nil
}

// AccountIDFromHex parses a hex-encoded account ID.
func AccountIDFromHex(s string) (AccountID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return AccountID{}, fmt.Errorf("invalid account id %q: %w", s, err)
	}
	return AccountIDFromBytes(b)
}

// IsZero reports whether the account ID is all zeros.
func (id AccountID) IsZero() bool {
	return id == AccountID{}
}

func (id AccountID) Bytes() []byte {
	result := make([]byte, AccountIDSize)
	copy(result, id[:])
	return result
}

func (id AccountID) String() string {
	return hex.EncodeToString(id[:])
}
