package keylet

import (
	"encoding/binary"

	"github.com/LeJamon/goSettle/internal/crypto"
	sha "github.com/LeJamon/goSettle/internal/crypto/common"
)

// Space identifiers for keylet generation
const (
	spaceAccount  uint16 = 'a' // Account root
	spaceIssuance uint16 = 'c' // Total issuance (singleton)
)

// Type identifies the kind of ledger entry a keylet addresses.
type Type uint16

const (
	TypeAccountRoot Type = 0x0061
	TypeIssuance    Type = 0x0063
)

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return sha.Sha512Half(inputs...)
}

// Account returns the keylet for an account root entry.
func Account(accountID crypto.AccountID) Keylet {
	return Keylet{
		Type: TypeAccountRoot,
		Key:  indexHash(spaceAccount, accountID[:]),
	}
}

// Issuance returns the keylet for the singleton total issuance entry.
func Issuance() Keylet {
	return Keylet{
		Type: TypeIssuance,
		Key:  indexHash(spaceIssuance),
	}
}

// StorageKey returns the key under which the entry is persisted. The type
// prefix keeps entries of one kind contiguous for range scans.
func (k Keylet) StorageKey() []byte {
	out := make([]byte, 2+len(k.Key))
	binary.BigEndian.PutUint16(out, uint16(k.Type))
	copy(out[2:], k.Key[:])
	return out
}

// TypeRange returns the [start, end) storage key range holding every entry
// of type t.
func TypeRange(t Type) (start, end []byte) {
	start = make([]byte, 2)
	binary.BigEndian.PutUint16(start, uint16(t))
	end = make([]byte, 2)
	binary.BigEndian.PutUint16(end, uint16(t)+1)
	return start, end
}
