package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlexZinkM/anvil-tx/cardano"
	"github.com/AlexZinkM/anvil-tx/internal/client"
	"github.com/AlexZinkM/anvil-tx/internal/model"
	"github.com/AlexZinkM/anvil-tx/internal/store"

	"go.uber.org/zap"
)

const (
	senderAddress   = "addr_test1qrydyk6uw6cehk5u3zspyz3dhnwzmhfls2fp42vv5dv9g2z3885pg4kpkn30ptezc855lu3w5ey93zcr5lrezjmwkftqg8xvge"
	receiverAddress = "addr_test1qr0tkwvlln0v5fljdxceudmlpt5y6szc84vpj4skm836tgn4hsqaesgg97l8ppy5rsn0alj8pth6lqe20fdyydsdgw6sr74cyt"
	sampleHash      = "ec6dd532a9ddd2063f51605ca8615079f95c511b86eb4403669244e7cdff3e4c"
)

func newTestHandler(t *testing.T) (*CardanoHandler, *client.MockAnvil) {
	t.Helper()

	data, err := os.ReadFile("../txcbor/testdata/basic_tx_response.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var sample model.BuildResponse
	if err := json.Unmarshal(data, &sample); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	st, err := store.NewBoltStore(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewBoltStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	mock := client.NewMockAnvil()
	mock.BuildResponse = &sample
	mock.SubmitTxHash = sampleHash

	svc := cardano.NewService(mock, st, zap.NewNop(), cardano.Options{
		Network:        "preprod",
		PendingTTL:     time.Hour,
		SubmitCooldown: time.Minute,
	})
	return NewCardanoHandler(svc, zap.NewNop()), mock
}

func do(h http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func buildSample(t *testing.T, h *CardanoHandler) {
	t.Helper()
	rec := do(h.Build, http.MethodPost, "/cardano/build", model.BuildRequest{
		ChangeAddress: senderAddress,
		Outputs:       []model.Output{{Address: receiverAddress, Lovelace: 10_000_000}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("build status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp model.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Error
}

func TestBuild(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(h.Build, http.MethodPost, "/cardano/build", model.BuildRequest{
		ChangeAddress: senderAddress,
		Outputs:       []model.Output{{Address: receiverAddress, Lovelace: 10_000_000}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var res model.BuildResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Hash != sampleHash || res.Summary == nil || len(res.Summary.Outputs) != 3 {
		t.Errorf("result = %+v", res)
	}
}

func TestBuild_Errors(t *testing.T) {
	h, mock := newTestHandler(t)

	if rec := do(h.Build, http.MethodGet, "/cardano/build", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/cardano/build", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.Build(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad json status = %d", rec.Code)
	}

	rec = do(h.Build, http.MethodPost, "/cardano/build", model.BuildRequest{
		ChangeAddress: senderAddress,
		Outputs:       []model.Output{{Address: receiverAddress, Lovelace: 1}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("small output status = %d", rec.Code)
	}

	mock.BuildErr = &client.APIError{Endpoint: "/transactions/build", StatusCode: 400, Message: "Insufficient funds"}
	rec = do(h.Build, http.MethodPost, "/cardano/build", model.BuildRequest{
		ChangeAddress: senderAddress,
		Outputs:       []model.Output{{Address: receiverAddress, Lovelace: 10_000_000}},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("provider rejection status = %d", rec.Code)
	}

	mock.BuildErr = &client.APIError{Endpoint: "/transactions/build", StatusCode: 503, Message: "unavailable"}
	rec = do(h.Build, http.MethodPost, "/cardano/build", model.BuildRequest{
		ChangeAddress: senderAddress,
		Outputs:       []model.Output{{Address: receiverAddress, Lovelace: 10_000_000}},
	})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("provider outage status = %d", rec.Code)
	}
}

func TestSubmit(t *testing.T) {
	h, _ := newTestHandler(t)
	buildSample(t, h)

	rec := do(h.Submit, http.MethodPost, "/cardano/submit", model.SubmitPendingRequest{
		Hash:       sampleHash,
		Signatures: []string{"a100"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res model.SubmitResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.TxHash != sampleHash || res.QR == "" {
		t.Errorf("result = %+v", res)
	}

	// cooldown is checked before the stored status
	rec = do(h.Submit, http.MethodPost, "/cardano/submit", model.SubmitPendingRequest{Hash: sampleHash})
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("resubmit status = %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
}

func TestSubmit_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(h.Submit, http.MethodPost, "/cardano/submit", model.SubmitPendingRequest{Hash: sampleHash})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg == "" {
		t.Error("empty error message")
	}
}

func TestTransactions(t *testing.T) {
	h, _ := newTestHandler(t)
	buildSample(t, h)

	rec := do(h.Transactions, http.MethodGet, "/cardano/transactions?status=built", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp model.PendingResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Transactions) != 1 || resp.Transactions[0].Hash != sampleHash {
		t.Errorf("resp = %+v", resp)
	}

	rec = do(h.Transactions, http.MethodGet, "/cardano/transactions?status=lost", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad status filter = %d", rec.Code)
	}
}

func TestTransaction(t *testing.T) {
	h, _ := newTestHandler(t)
	buildSample(t, h)

	rec := do(h.Transaction, http.MethodGet, "/cardano/transactions/"+sampleHash, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var s model.TxSummary
	if err := json.NewDecoder(rec.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Fee != 199009 || s.Inputs != 2 {
		t.Errorf("summary = %+v", s)
	}

	if rec := do(h.Transaction, http.MethodGet, "/cardano/transactions/deadbeef", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown hash status = %d", rec.Code)
	}
	if rec := do(h.Transaction, http.MethodGet, "/cardano/transactions/", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("empty hash status = %d", rec.Code)
	}
}

func TestInspect(t *testing.T) {
	h, mock := newTestHandler(t)

	rec := do(h.Inspect, http.MethodPost, "/cardano/inspect", model.InspectRequest{Transaction: mock.BuildResponse.Complete})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = do(h.Inspect, http.MethodPost, "/cardano/inspect", model.InspectRequest{Transaction: "zz"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(h.Health, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp model.HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Network != "preprod" {
		t.Errorf("resp = %+v", resp)
	}
}
