package cardano

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlexZinkM/anvil-tx/internal/common"
	"github.com/AlexZinkM/anvil-tx/internal/metrics"
	"github.com/AlexZinkM/anvil-tx/internal/model"

	"go.uber.org/zap"
)

// ErrAlreadySubmitted is returned when a stored transaction was submitted before
var ErrAlreadySubmitted = errors.New("transaction already submitted")

// CooldownError is returned while the submit cooldown is active
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, please wait %v", e.Remaining.Round(time.Second))
}

// Submit sends a stored transaction together with wallet signatures.
func (s *Service) Submit(ctx context.Context, req *model.SubmitPendingRequest) (*model.SubmitResult, error) {
	if req.Hash == "" {
		return nil, &model.ValidationError{Field: "hash", Message: "is required"}
	}
	for i, sig := range req.Signatures {
		if !common.IsHex(sig) {
			return nil, &model.ValidationError{Field: fmt.Sprintf("signatures[%d]", i), Message: "must be CBOR hex"}
		}
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	if !s.lastSubmitTime.IsZero() && s.opts.SubmitCooldown > 0 {
		if elapsed := s.now().Sub(s.lastSubmitTime); elapsed < s.opts.SubmitCooldown {
			return nil, &CooldownError{Remaining: s.opts.SubmitCooldown - elapsed}
		}
	}

	pending, err := s.store.Get(req.Hash)
	if err != nil {
		return nil, err
	}
	if pending.Status == model.PendingStatusSubmitted {
		return nil, ErrAlreadySubmitted
	}

	resp, err := s.api.SubmitTransaction(ctx, &model.SubmitRequest{
		Signatures:  req.Signatures,
		Transaction: pending.Complete,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit transaction: %w", err)
	}
	s.lastSubmitTime = s.now()

	if resp.TxHash != pending.Hash {
		s.logger.Warn("submitted hash differs from built hash",
			zap.String("built", pending.Hash),
			zap.String("submitted", resp.TxHash),
		)
	}

	if err := s.store.MarkSubmitted(pending.Hash, resp.TxHash); err != nil {
		// the transaction is on its way, only bookkeeping failed
		s.logger.Error("failed to mark transaction submitted", zap.String("hash", pending.Hash), zap.Error(err))
	}

	metrics.TransactionsSubmitted.Inc()
	metrics.PendingTransactions.Set(float64(s.store.Count()))

	explorerURL := common.ExplorerTxURL(s.opts.Network, resp.TxHash)
	qrCode, err := generateQRCode(explorerURL)
	if err != nil {
		s.logger.Warn("failed to generate QR code", zap.Error(err))
	}

	s.logger.Info("transaction submitted",
		zap.String("tx_hash", resp.TxHash),
		zap.Int("signatures", len(req.Signatures)),
	)

	return &model.SubmitResult{
		TxHash:      resp.TxHash,
		ExplorerURL: explorerURL,
		QR:          qrCode,
	}, nil
}
