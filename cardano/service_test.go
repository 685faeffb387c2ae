package cardano

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlexZinkM/anvil-tx/internal/client"
	"github.com/AlexZinkM/anvil-tx/internal/model"
	"github.com/AlexZinkM/anvil-tx/internal/store"
	"github.com/AlexZinkM/anvil-tx/internal/txcbor"

	"go.uber.org/zap"
)

const (
	senderAddress   = "addr_test1qrydyk6uw6cehk5u3zspyz3dhnwzmhfls2fp42vv5dv9g2z3885pg4kpkn30ptezc855lu3w5ey93zcr5lrezjmwkftqg8xvge"
	receiverAddress = "addr_test1qr0tkwvlln0v5fljdxceudmlpt5y6szc84vpj4skm836tgn4hsqaesgg97l8ppy5rsn0alj8pth6lqe20fdyydsdgw6sr74cyt"
	sampleHash      = "ec6dd532a9ddd2063f51605ca8615079f95c511b86eb4403669244e7cdff3e4c"
)

func sampleResponse(t *testing.T) *model.BuildResponse {
	t.Helper()
	data, err := os.ReadFile("../internal/txcbor/testdata/basic_tx_response.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var resp model.BuildResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	return &resp
}

func sampleRequest() *model.BuildRequest {
	return &model.BuildRequest{
		ChangeAddress: senderAddress,
		Outputs:       []model.Output{{Address: receiverAddress, Lovelace: 10_000_000}},
	}
}

func newTestService(t *testing.T, opts Options) (*Service, *client.MockAnvil, *store.BoltStore) {
	t.Helper()
	st, err := store.NewBoltStore(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	mock := client.NewMockAnvil()
	mock.BuildResponse = sampleResponse(t)
	mock.SubmitTxHash = sampleHash

	if opts.Network == "" {
		opts.Network = "preprod"
	}
	if opts.PendingTTL == 0 {
		opts.PendingTTL = time.Hour
	}
	return NewService(mock, st, zap.NewNop(), opts), mock, st
}

func TestBuild_StoresVerifiedTransaction(t *testing.T) {
	svc, mock, st := newTestService(t, Options{})

	res, err := svc.Build(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Hash != sampleHash {
		t.Errorf("hash = %s", res.Hash)
	}
	if res.Summary == nil || res.Summary.Fee != 199009 {
		t.Errorf("summary = %+v", res.Summary)
	}
	if len(mock.BuildRequests) != 1 {
		t.Fatalf("build requests = %d, want 1", len(mock.BuildRequests))
	}

	p, err := st.Get(sampleHash)
	if err != nil {
		t.Fatalf("stored transaction: %v", err)
	}
	if p.Status != model.PendingStatusBuilt || p.Lovelace != 10_000_000 || p.ChangeAddress != senderAddress {
		t.Errorf("stored %+v", p)
	}
}

func TestBuild_ValidationError(t *testing.T) {
	svc, mock, _ := newTestService(t, Options{})

	req := sampleRequest()
	req.Outputs = nil
	_, err := svc.Build(context.Background(), req)

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(mock.BuildRequests) != 0 {
		t.Error("invalid request reached the provider")
	}
}

func TestBuild_WrongNetwork(t *testing.T) {
	svc, _, _ := newTestService(t, Options{Network: "mainnet"})

	_, err := svc.Build(context.Background(), sampleRequest())
	var verr *model.ValidationError
	if !errors.As(err, &verr) || verr.Field != "changeAddress" {
		t.Fatalf("err = %v, want changeAddress ValidationError", err)
	}
}

func TestBuild_VerificationFailure(t *testing.T) {
	svc, mock, st := newTestService(t, Options{})
	mock.BuildResponse.Hash = "00" + sampleHash[2:]

	_, err := svc.Build(context.Background(), sampleRequest())
	var mismatch *txcbor.MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want MismatchError", err)
	}
	if st.Count() != 0 {
		t.Error("unverified transaction was stored")
	}
}

func TestBuild_OutputMissing(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	req := sampleRequest()
	req.Outputs[0].Lovelace = 20_000_000
	_, err := svc.Build(context.Background(), req)

	var missing *OutputMismatchError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want OutputMismatchError", err)
	}
	if missing.Output.Lovelace != 20_000_000 {
		t.Errorf("output = %+v", missing.Output)
	}
}

func TestBuild_ProviderError(t *testing.T) {
	svc, mock, _ := newTestService(t, Options{})
	mock.BuildErr = &client.APIError{Endpoint: "/transactions/build", StatusCode: 400, Message: "Insufficient funds"}

	_, err := svc.Build(context.Background(), sampleRequest())
	apiErr, ok := client.IsAPIError(err)
	if !ok {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.StatusCode != 400 {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
}

func TestSubmit_Flow(t *testing.T) {
	svc, mock, st := newTestService(t, Options{})
	ctx := context.Background()

	if _, err := svc.Build(ctx, sampleRequest()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	res, err := svc.Submit(ctx, &model.SubmitPendingRequest{Hash: sampleHash, Signatures: []string{"a100"}})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.TxHash != sampleHash {
		t.Errorf("tx hash = %s", res.TxHash)
	}
	if res.ExplorerURL != "https://preprod.cardanoscan.io/transaction/"+sampleHash {
		t.Errorf("explorer url = %s", res.ExplorerURL)
	}
	if res.QR == "" {
		t.Error("expected QR code")
	}

	if len(mock.SubmitRequests) != 1 {
		t.Fatalf("submit requests = %d, want 1", len(mock.SubmitRequests))
	}
	sent := mock.SubmitRequests[0]
	if sent.Transaction != mock.BuildResponse.Complete {
		t.Error("submitted transaction is not the stored complete transaction")
	}
	if len(sent.Signatures) != 1 || sent.Signatures[0] != "a100" {
		t.Errorf("signatures = %v", sent.Signatures)
	}

	p, err := st.Get(sampleHash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Status != model.PendingStatusSubmitted {
		t.Errorf("status = %s", p.Status)
	}

	if _, err := svc.Submit(ctx, &model.SubmitPendingRequest{Hash: sampleHash}); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second submit err = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSubmit_Unknown(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	_, err := svc.Submit(context.Background(), &model.SubmitPendingRequest{Hash: sampleHash})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSubmit_Validation(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	var verr *model.ValidationError
	if _, err := svc.Submit(context.Background(), &model.SubmitPendingRequest{}); !errors.As(err, &verr) {
		t.Errorf("missing hash: err = %v", err)
	}
	if _, err := svc.Submit(context.Background(), &model.SubmitPendingRequest{Hash: sampleHash, Signatures: []string{"xyz"}}); !errors.As(err, &verr) {
		t.Errorf("bad signature: err = %v", err)
	}
}

func TestSubmit_Cooldown(t *testing.T) {
	svc, mock, _ := newTestService(t, Options{SubmitCooldown: time.Minute})
	ctx := context.Background()
	now := time.Now()
	svc.now = func() time.Time { return now }

	if _, err := svc.Build(ctx, sampleRequest()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	mock.SubmitErr = errors.New("node unreachable")
	if _, err := svc.Submit(ctx, &model.SubmitPendingRequest{Hash: sampleHash}); err == nil {
		t.Fatal("expected provider error")
	}

	// failed submissions do not start the cooldown
	mock.SubmitErr = nil
	if _, err := svc.Submit(ctx, &model.SubmitPendingRequest{Hash: sampleHash}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	now = now.Add(20 * time.Second)
	_, err := svc.Submit(ctx, &model.SubmitPendingRequest{Hash: sampleHash})
	var cooldown *CooldownError
	if !errors.As(err, &cooldown) {
		t.Fatalf("err = %v, want CooldownError", err)
	}
	if cooldown.Remaining != 40*time.Second {
		t.Errorf("remaining = %v, want 40s", cooldown.Remaining)
	}
}

func TestPending_FilterAndTotal(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})
	if _, err := svc.Build(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	resp, err := svc.Pending(&model.PendingRequest{})
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(resp.Transactions) != 1 || resp.TotalADA != "10.000000" {
		t.Errorf("resp = %+v", resp)
	}

	submitted := model.PendingStatusSubmitted
	resp, err = svc.Pending(&model.PendingRequest{Status: &submitted})
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(resp.Transactions) != 0 || resp.TotalADA != "0.000000" {
		t.Errorf("resp = %+v", resp)
	}

	bogus := model.PendingStatus("LOST")
	if _, err := svc.Pending(&model.PendingRequest{Status: &bogus}); err == nil {
		t.Error("expected validation error")
	}
}

func TestInspect(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})
	if _, err := svc.Build(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	s, err := svc.Inspect(sampleHash)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if s.Hash != sampleHash || len(s.Outputs) != 3 {
		t.Errorf("summary = %+v", s)
	}

	if _, err := svc.Inspect("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHealth(t *testing.T) {
	svc, mock, _ := newTestService(t, Options{})

	h, err := svc.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Network != "preprod" || h.Provider != mock.HealthBody {
		t.Errorf("health = %+v", h)
	}
}

func TestPrune(t *testing.T) {
	svc, _, st := newTestService(t, Options{PendingTTL: time.Minute})
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	if _, err := svc.Build(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	svc.prune()

	if _, err := st.Get(sampleHash); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after prune", err)
	}
}
