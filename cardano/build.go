package cardano

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/anvil-tx/internal/metrics"
	"github.com/AlexZinkM/anvil-tx/internal/model"
	"github.com/AlexZinkM/anvil-tx/internal/txcbor"

	"go.uber.org/zap"
)

// OutputMismatchError is returned when the built transaction does not pay a
// requested output
type OutputMismatchError struct {
	Output model.Output
}

func (e *OutputMismatchError) Error() string {
	return fmt.Sprintf("built transaction does not pay %d lovelace to %s", e.Output.Lovelace, e.Output.Address)
}

// Build asks the provider for a transaction, checks that the reply is
// consistent and pays every requested output, and keeps it until submission.
func (s *Service) Build(ctx context.Context, req *model.BuildRequest) (*model.BuildResult, error) {
	if err := req.Validate(s.opts.Network); err != nil {
		return nil, err
	}

	resp, err := s.api.BuildTransaction(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	tx, err := txcbor.VerifyBuildResponse(resp)
	if err != nil {
		metrics.VerificationFailures.Inc()
		s.logger.Error("build response failed verification", zap.String("hash", resp.Hash), zap.Error(err))
		return nil, fmt.Errorf("failed to verify transaction: %w", err)
	}

	summary, err := tx.Summary()
	if err != nil {
		metrics.VerificationFailures.Inc()
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	if err := checkOutputs(req.Outputs, summary); err != nil {
		metrics.VerificationFailures.Inc()
		s.logger.Error("built transaction misses an output", zap.String("hash", resp.Hash), zap.Error(err))
		return nil, err
	}

	now := s.now()
	pending := &model.PendingTransaction{
		Hash:          resp.Hash,
		Complete:      resp.Complete,
		Stripped:      resp.Stripped,
		WitnessSet:    resp.WitnessSet,
		AuxiliaryData: resp.AuxiliaryData,
		ChangeAddress: req.ChangeAddress,
		Lovelace:      req.TotalLovelace(),
		Status:        model.PendingStatusBuilt,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.opts.PendingTTL),
	}
	if err := s.store.Put(pending); err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	metrics.TransactionsBuilt.Inc()
	metrics.PendingTransactions.Set(float64(s.store.Count()))
	s.logger.Info("transaction built",
		zap.String("hash", resp.Hash),
		zap.Int("inputs", summary.Inputs),
		zap.Int("outputs", len(summary.Outputs)),
		zap.String("fee_ada", summary.FeeADA),
	)

	return &model.BuildResult{
		BuildResponse: *resp,
		Summary:       summary,
		ExpiresAt:     pending.ExpiresAt,
	}, nil
}

// checkOutputs requires one distinct transaction output per requested output
// with the same address and at least the requested lovelace.
func checkOutputs(requested []model.Output, summary *model.TxSummary) error {
	used := make([]bool, len(summary.Outputs))
	for _, want := range requested {
		found := false
		for i, got := range summary.Outputs {
			if used[i] || got.Address != want.Address || got.Lovelace < want.Lovelace {
				continue
			}
			used[i] = true
			found = true
			break
		}
		if !found {
			return &OutputMismatchError{Output: want}
		}
	}
	return nil
}

// Inspect decodes the stored transaction with the given hash
func (s *Service) Inspect(hash string) (*model.TxSummary, error) {
	pending, err := s.store.Get(hash)
	if err != nil {
		return nil, err
	}
	return InspectHex(pending.Complete)
}

// InspectHex decodes a hex encoded transaction
func InspectHex(txHex string) (*model.TxSummary, error) {
	tx, err := txcbor.DecodeHex(txHex)
	if err != nil {
		return nil, err
	}
	return tx.Summary()
}
