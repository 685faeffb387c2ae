package model

import (
	"fmt"
	"time"

	"github.com/AlexZinkM/anvil-tx/internal/common"
)

// Output is a single payment in a build request.
type Output struct {
	Address  string `json:"address"`
	Lovelace uint64 `json:"lovelace"`
}

// BuildRequest represents the body of POST /transactions/build
type BuildRequest struct {
	ChangeAddress   string   `json:"changeAddress"`
	Outputs         []Output `json:"outputs"`
	Utxos           []string `json:"utxos,omitempty"` // CBOR hex; when set the provider skips its own UTxO lookup
	Message         string   `json:"message,omitempty"`
	RequiredSigners []string `json:"requiredSigners,omitempty"`
}

// BuildResponse represents the provider reply to POST /transactions/build.
// All fields are hex encoded CBOR except Hash, which is the hex transaction id.
type BuildResponse struct {
	Hash          string `json:"hash"`
	Complete      string `json:"complete"`
	Stripped      string `json:"stripped"`
	WitnessSet    string `json:"witnessSet"`
	AuxiliaryData string `json:"auxiliaryData,omitempty"`
}

// Validate validates BuildRequest for the given network.
func (r *BuildRequest) Validate(network string) error {
	if r.ChangeAddress == "" {
		return &ValidationError{Field: "changeAddress", Message: "is required"}
	}
	if err := common.ValidateAddress(r.ChangeAddress, network); err != nil {
		return &ValidationError{Field: "changeAddress", Message: err.Error()}
	}
	if len(r.Outputs) == 0 {
		return &ValidationError{Field: "outputs", Message: "at least one output is required"}
	}
	for i, out := range r.Outputs {
		field := fmt.Sprintf("outputs[%d]", i)
		if err := common.ValidateAddress(out.Address, network); err != nil {
			return &ValidationError{Field: field + ".address", Message: err.Error()}
		}
		if out.Lovelace < common.MinOutputLovelace {
			return &ValidationError{
				Field:   field + ".lovelace",
				Message: fmt.Sprintf("must be at least %d (%s ADA)", common.MinOutputLovelace, common.LovelaceToADA(common.MinOutputLovelace)),
			}
		}
	}
	for i, u := range r.Utxos {
		if !common.IsHex(u) {
			return &ValidationError{Field: fmt.Sprintf("utxos[%d]", i), Message: "must be CBOR hex"}
		}
	}
	return nil
}

// TotalLovelace sums all requested outputs.
func (r *BuildRequest) TotalLovelace() uint64 {
	var total uint64
	for _, out := range r.Outputs {
		total += out.Lovelace
	}
	return total
}

// BuildResult represents response for POST /cardano/build
type BuildResult struct {
	BuildResponse
	Summary   *TxSummary `json:"summary"`
	ExpiresAt time.Time  `json:"expiresAt"`
}
