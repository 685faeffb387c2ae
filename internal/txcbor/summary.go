package txcbor

import (
	"fmt"

	"github.com/AlexZinkM/anvil-tx/internal/common"
	"github.com/AlexZinkM/anvil-tx/internal/model"

	"github.com/fxamacker/cbor/v2"
)

// transaction body map keys
const (
	bodyInputs          = 0
	bodyOutputs         = 1
	bodyFee             = 2
	bodyTTL             = 3
	bodyValidityStart   = 8
	bodyRequiredSigners = 14
)

const witnessVKeys = 0

// post-Alonzo map form output keys
const (
	outputAddress = 0
	outputValue   = 1
)

// Summary decodes the body fields a human wants to check before signing.
func (t *Transaction) Summary() (*model.TxSummary, error) {
	var body map[uint64]cbor.RawMessage
	if err := cbor.Unmarshal(t.Body, &body); err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrMalformed, err)
	}

	summary := &model.TxSummary{
		Hash:             t.HashHex(),
		HasAuxiliaryData: t.HasAuxiliaryData(),
		Valid:            t.Valid,
	}

	if raw, ok := body[bodyInputs]; ok {
		inputs, err := decodeList(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: inputs: %v", ErrMalformed, err)
		}
		summary.Inputs = len(inputs)
	}

	if raw, ok := body[bodyOutputs]; ok {
		outputs, err := decodeList(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: outputs: %v", ErrMalformed, err)
		}
		summary.Outputs = make([]model.OutputSummary, 0, len(outputs))
		for i, o := range outputs {
			out, err := decodeOutput(o)
			if err != nil {
				return nil, fmt.Errorf("%w: output %d: %v", ErrMalformed, i, err)
			}
			summary.Outputs = append(summary.Outputs, *out)
		}
	}

	if raw, ok := body[bodyFee]; ok {
		if err := cbor.Unmarshal(raw, &summary.Fee); err != nil {
			return nil, fmt.Errorf("%w: fee: %v", ErrMalformed, err)
		}
	}
	summary.FeeADA = common.LovelaceToADA(summary.Fee)

	var err error
	if summary.TTL, err = optionalUint(body, bodyTTL); err != nil {
		return nil, fmt.Errorf("%w: ttl: %v", ErrMalformed, err)
	}
	if summary.ValidityStart, err = optionalUint(body, bodyValidityStart); err != nil {
		return nil, fmt.Errorf("%w: validity start: %v", ErrMalformed, err)
	}

	if raw, ok := body[bodyRequiredSigners]; ok {
		signers, err := decodeList(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: required signers: %v", ErrMalformed, err)
		}
		summary.RequiredSigners = len(signers)
	}

	var witnesses map[uint64]cbor.RawMessage
	if err := cbor.Unmarshal(t.WitnessSet, &witnesses); err != nil {
		return nil, fmt.Errorf("%w: witness set: %v", ErrMalformed, err)
	}
	if raw, ok := witnesses[witnessVKeys]; ok {
		vkeys, err := decodeList(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: vkey witnesses: %v", ErrMalformed, err)
		}
		summary.VKeyWitnesses = len(vkeys)
	}

	return summary, nil
}

// TotalOutputLovelace sums the ADA part of every output
func TotalOutputLovelace(s *model.TxSummary) uint64 {
	var total uint64
	for _, o := range s.Outputs {
		total += o.Lovelace
	}
	return total
}

func optionalUint(body map[uint64]cbor.RawMessage, key uint64) (*uint64, error) {
	raw, ok := body[key]
	if !ok {
		return nil, nil
	}
	var v uint64
	if err := cbor.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// decodeOutput handles both the legacy [address, value] array and the
// {0: address, 1: value, ...} map form.
func decodeOutput(raw cbor.RawMessage) (*model.OutputSummary, error) {
	var addrRaw, valueRaw cbor.RawMessage

	switch majorType(raw) {
	case cborMajorArray:
		var fields []cbor.RawMessage
		if err := cbor.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("expected at least 2 fields, got %d", len(fields))
		}
		addrRaw, valueRaw = fields[0], fields[1]
	case cborMajorMap:
		var fields map[uint64]cbor.RawMessage
		if err := cbor.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		var ok bool
		if addrRaw, ok = fields[outputAddress]; !ok {
			return nil, fmt.Errorf("missing address")
		}
		if valueRaw, ok = fields[outputValue]; !ok {
			return nil, fmt.Errorf("missing value")
		}
	default:
		return nil, fmt.Errorf("unexpected CBOR major type %d", majorType(raw))
	}

	var addrBytes []byte
	if err := cbor.Unmarshal(addrRaw, &addrBytes); err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}
	address, err := EncodeAddress(addrBytes)
	if err != nil {
		return nil, err
	}

	out := &model.OutputSummary{Address: address}
	switch majorType(valueRaw) {
	case cborMajorUint:
		if err := cbor.Unmarshal(valueRaw, &out.Lovelace); err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
	case cborMajorArray:
		// [coin, multiasset]
		var value []cbor.RawMessage
		if err := cbor.Unmarshal(valueRaw, &value); err != nil || len(value) != 2 {
			return nil, fmt.Errorf("value: expected [coin, assets]")
		}
		if err := cbor.Unmarshal(value[0], &out.Lovelace); err != nil {
			return nil, fmt.Errorf("value coin: %w", err)
		}
		out.Assets = true
	default:
		return nil, fmt.Errorf("value: unexpected CBOR major type %d", majorType(valueRaw))
	}
	out.ADA = common.LovelaceToADA(out.Lovelace)

	return out, nil
}
