package client

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/AlexZinkM/anvil-tx/internal/model"
)

// MockAnvil implements TransactionAPI for testing.
type MockAnvil struct {
	mu sync.Mutex

	BuildResponse *model.BuildResponse
	BuildErr      error
	SubmitTxHash  string
	SubmitErr     error
	HealthBody    string
	HealthErr     error

	BuildRequests  []model.BuildRequest
	SubmitRequests []model.SubmitRequest
}

// NewMockAnvil creates a mock with a healthy default configuration.
func NewMockAnvil() *MockAnvil {
	return &MockAnvil{
		HealthBody: `{"status":"ok"}`,
	}
}

func (m *MockAnvil) BuildTransactionRaw(ctx context.Context, body []byte) ([]byte, error) {
	var req model.BuildRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	resp, err := m.BuildTransaction(ctx, &req)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resp)
}

func (m *MockAnvil) BuildTransaction(_ context.Context, req *model.BuildRequest) (*model.BuildResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BuildRequests = append(m.BuildRequests, *req)
	if m.BuildErr != nil {
		return nil, m.BuildErr
	}
	resp := *m.BuildResponse
	return &resp, nil
}

func (m *MockAnvil) SubmitTransaction(_ context.Context, req *model.SubmitRequest) (*model.SubmitResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitRequests = append(m.SubmitRequests, *req)
	if m.SubmitErr != nil {
		return nil, m.SubmitErr
	}
	return &model.SubmitResponse{TxHash: m.SubmitTxHash}, nil
}

func (m *MockAnvil) Health(_ context.Context) (string, error) {
	return m.HealthBody, m.HealthErr
}
