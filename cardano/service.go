package cardano

import (
	"context"
	"sync"
	"time"

	"github.com/AlexZinkM/anvil-tx/internal/client"
	"github.com/AlexZinkM/anvil-tx/internal/config"
	"github.com/AlexZinkM/anvil-tx/internal/model"

	"go.uber.org/zap"
)

// PendingStore persists built transactions until they are submitted.
type PendingStore interface {
	Put(p *model.PendingTransaction) error
	Get(hash string) (*model.PendingTransaction, error)
	List(filter *model.PendingRequest) ([]model.PendingTransaction, error)
	MarkSubmitted(hash, txHash string) error
	PruneExpired() (int, error)
	Count() int
}

// Options tunes a Service
type Options struct {
	Network        string
	PendingTTL     time.Duration
	SubmitCooldown time.Duration
}

// Service builds, verifies, keeps and submits transactions through the provider.
type Service struct {
	api    client.TransactionAPI
	store  PendingStore
	logger *zap.Logger
	opts   Options
	now    func() time.Time

	submitMu       sync.Mutex
	lastSubmitTime time.Time
}

// NewService creates a Service
func NewService(api client.TransactionAPI, store PendingStore, logger *zap.Logger, opts Options) *Service {
	return &Service{
		api:    api,
		store:  store,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// OptionsFromConfig reads Options from the global configuration
func OptionsFromConfig() Options {
	return Options{
		Network:        config.GetNetwork(),
		PendingTTL:     config.GetPendingTTL(),
		SubmitCooldown: config.GetSubmitCooldown(),
	}
}

// Network returns the configured network name
func (s *Service) Network() string {
	return s.opts.Network
}

// Health returns provider health
func (s *Service) Health(ctx context.Context) (*model.HealthResponse, error) {
	body, err := s.api.Health(ctx)
	if err != nil {
		return nil, err
	}
	return &model.HealthResponse{
		Status:   "ok",
		Network:  s.opts.Network,
		Provider: body,
	}, nil
}
