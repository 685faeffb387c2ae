// Package txcbor reads the CBOR transactions returned by the build service.
// It never constructs or re-serializes a transaction: every check works on
// the exact bytes the provider produced.
package txcbor

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// ErrMalformed wraps every structural decoding failure
var ErrMalformed = errors.New("malformed transaction")

const (
	cborMajorUint  = 0
	cborMajorArray = 4
	cborMajorMap   = 5
	cborMajorTag   = 6
)

var (
	cborNull     = []byte{0xf6}
	cborEmptyMap = []byte{0xa0}
)

// Transaction is a decoded top-level transaction array.
type Transaction struct {
	Body          cbor.RawMessage
	WitnessSet    cbor.RawMessage
	Valid         bool
	AuxiliaryData cbor.RawMessage // CBOR null when absent
}

// DecodeHex decodes a hex encoded transaction
func DecodeHex(s string) (*Transaction, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex: %v", ErrMalformed, err)
	}
	return Decode(raw)
}

// Decode splits a transaction into its parts.
// Both the pre-Alonzo 3 element form and the current 4 element form are accepted.
func Decode(raw []byte) (*Transaction, error) {
	var parts []cbor.RawMessage
	if err := cbor.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	tx := &Transaction{Valid: true}
	switch len(parts) {
	case 3:
		tx.Body, tx.WitnessSet, tx.AuxiliaryData = parts[0], parts[1], parts[2]
	case 4:
		tx.Body, tx.WitnessSet, tx.AuxiliaryData = parts[0], parts[1], parts[3]
		if err := cbor.Unmarshal(parts[2], &tx.Valid); err != nil {
			return nil, fmt.Errorf("%w: isValid flag: %v", ErrMalformed, err)
		}
	default:
		return nil, fmt.Errorf("%w: expected 3 or 4 elements, got %d", ErrMalformed, len(parts))
	}

	if majorType(tx.Body) != cborMajorMap {
		return nil, fmt.Errorf("%w: body is not a map", ErrMalformed)
	}
	if majorType(tx.WitnessSet) != cborMajorMap {
		return nil, fmt.Errorf("%w: witness set is not a map", ErrMalformed)
	}
	return tx, nil
}

// Hash returns the transaction id: blake2b-256 of the body bytes.
func (t *Transaction) Hash() [32]byte {
	return blake2b.Sum256(t.Body)
}

// HashHex returns Hash as lowercase hex
func (t *Transaction) HashHex() string {
	h := t.Hash()
	return hex.EncodeToString(h[:])
}

// HasAuxiliaryData reports whether metadata or scripts are attached
func (t *Transaction) HasAuxiliaryData() bool {
	return len(t.AuxiliaryData) > 0 && !bytes.Equal(t.AuxiliaryData, cborNull)
}

// IsStripped reports whether the witness set is empty
func (t *Transaction) IsStripped() bool {
	return bytes.Equal(t.WitnessSet, cborEmptyMap)
}

func majorType(raw []byte) int {
	if len(raw) == 0 {
		return -1
	}
	return int(raw[0] >> 5)
}

// unwrapTag strips an optional tag (e.g. 258 for sets) and returns the content.
func unwrapTag(raw cbor.RawMessage) (cbor.RawMessage, error) {
	if majorType(raw) != cborMajorTag {
		return raw, nil
	}
	var tag cbor.RawTag
	if err := cbor.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}
	return tag.Content, nil
}

// decodeList decodes an array or a tagged set into its elements
func decodeList(raw cbor.RawMessage) ([]cbor.RawMessage, error) {
	content, err := unwrapTag(raw)
	if err != nil {
		return nil, err
	}
	var items []cbor.RawMessage
	if err := cbor.Unmarshal(content, &items); err != nil {
		return nil, err
	}
	return items, nil
}
