package ledger

import (
	"fmt"

	"github.com/LeJamon/goSettle/internal/core/XRPAmount"
	"github.com/LeJamon/goSettle/internal/crypto"
	"github.com/ugorji/go/codec"
)

// AccountRoot is the persisted state of one account.
type AccountRoot struct {
	Account crypto.AccountID    `codec:"account"`
	Balance XRPAmount.XRPAmount `codec:"balance"`
}

type issuanceRecord struct {
	Total XRPAmount.XRPAmount `codec:"total"`
}

var msgpackHandle = &codec.MsgpackHandle{}

func encodeRecord(v interface{}) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, msgpackHandle).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return out, nil
}

func decodeRecord(data []byte, v interface{}) error {
	if err := codec.NewDecoderBytes(data, msgpackHandle).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return nil
}
