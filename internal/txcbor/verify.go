package txcbor

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/AlexZinkM/anvil-tx/internal/model"
)

// MismatchError is returned when a build response is not self-consistent
type MismatchError struct {
	Field string
	Want  string
	Got   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s mismatch: response says %s, transaction has %s", e.Field, shorten(e.Want), shorten(e.Got))
}

// VerifyBuildResponse checks that the fields of a build response describe
// the same transaction: hash is the body id, witnessSet and auxiliaryData
// are the matching elements of complete, and stripped is complete with an
// empty witness set. Returns the decoded complete transaction.
func VerifyBuildResponse(resp *model.BuildResponse) (*Transaction, error) {
	tx, err := DecodeHex(resp.Complete)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	if got := tx.HashHex(); !strings.EqualFold(resp.Hash, got) {
		return nil, &MismatchError{Field: "hash", Want: resp.Hash, Got: got}
	}

	if resp.WitnessSet != "" {
		if got := hex.EncodeToString(tx.WitnessSet); !strings.EqualFold(resp.WitnessSet, got) {
			return nil, &MismatchError{Field: "witnessSet", Want: resp.WitnessSet, Got: got}
		}
	}

	if resp.AuxiliaryData != "" {
		if got := hex.EncodeToString(tx.AuxiliaryData); !strings.EqualFold(resp.AuxiliaryData, got) {
			return nil, &MismatchError{Field: "auxiliaryData", Want: resp.AuxiliaryData, Got: got}
		}
	}

	if resp.Stripped != "" {
		stripped, err := DecodeHex(resp.Stripped)
		if err != nil {
			return nil, fmt.Errorf("stripped: %w", err)
		}
		if !bytes.Equal(stripped.Body, tx.Body) {
			return nil, &MismatchError{Field: "stripped body", Want: stripped.HashHex(), Got: tx.HashHex()}
		}
		if !stripped.IsStripped() {
			return nil, &MismatchError{Field: "stripped witnessSet", Want: "a0", Got: hex.EncodeToString(stripped.WitnessSet)}
		}
	}

	return tx, nil
}

func shorten(s string) string {
	if len(s) <= 24 {
		return s
	}
	return s[:12] + "..." + s[len(s)-8:]
}
