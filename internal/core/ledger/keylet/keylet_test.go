package keylet

import (
	"bytes"
	"testing"

	"github.com/LeJamon/goSettle/internal/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountKeyletIsDeterministic(t *testing.T) {
	id := crypto.CalcAccountID([]byte("alice"))

	k1 := Account(id)
	k2 := Account(id)
	require.Equal(t, k1, k2)
	assert.Equal(t, TypeAccountRoot, k1.Type)

	other := Account(crypto.CalcAccountID([]byte("bob")))
	assert.NotEqual(t, k1.Key, other.Key)
}

func TestIssuanceSingleton(t *testing.T) {
	assert.Equal(t, Issuance(), Issuance())
	assert.Equal(t, TypeIssuance, Issuance().Type)
}

func TestStorageKeyWithinTypeRange(t *testing.T) {
	start, end := TypeRange(TypeAccountRoot)
	key := Account(crypto.CalcAccountID([]byte("carol"))).StorageKey()

	require.Len(t, key, 34)
	assert.True(t, bytes.Compare(key, start) >= 0)
	assert.True(t, bytes.Compare(key, end) < 0)

	issuance := Issuance().StorageKey()
	assert.False(t, bytes.Compare(issuance, start) >= 0 && bytes.Compare(issuance, end) < 0)
}
