package cardano

import (
	"context"
	"time"

	"github.com/AlexZinkM/anvil-tx/internal/common"
	"github.com/AlexZinkM/anvil-tx/internal/metrics"
	"github.com/AlexZinkM/anvil-tx/internal/model"

	"go.uber.org/zap"
)

// Pending lists stored transactions with filtering
func (s *Service) Pending(req *model.PendingRequest) (*model.PendingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &model.ValidationError{Message: err.Error()}
	}

	list, err := s.store.List(req)
	if err != nil {
		return nil, err
	}

	var total uint64
	for _, p := range list {
		total += p.Lovelace
	}

	return &model.PendingResponse{
		Transactions: list,
		TotalADA:     common.LovelaceToADA(total),
	}, nil
}

// RunPruner deletes expired transactions every interval until ctx is done.
func (s *Service) RunPruner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.prune()
		}
	}
}

func (s *Service) prune() {
	n, err := s.store.PruneExpired()
	if err != nil {
		s.logger.Warn("failed to prune expired transactions", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("pruned expired transactions", zap.Int("count", n))
	}
	metrics.PendingTransactions.Set(float64(s.store.Count()))
}
