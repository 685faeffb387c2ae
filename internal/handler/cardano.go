package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/AlexZinkM/anvil-tx/cardano"
	"github.com/AlexZinkM/anvil-tx/internal/client"
	"github.com/AlexZinkM/anvil-tx/internal/model"
	"github.com/AlexZinkM/anvil-tx/internal/store"
	"github.com/AlexZinkM/anvil-tx/internal/txcbor"

	"go.uber.org/zap"
)

const transactionsPath = "/cardano/transactions/"

// CardanoHandler exposes the cardano Service over HTTP
type CardanoHandler struct {
	svc    *cardano.Service
	logger *zap.Logger
}

// NewCardanoHandler creates a new CardanoHandler
func NewCardanoHandler(svc *cardano.Service, logger *zap.Logger) *CardanoHandler {
	return &CardanoHandler{svc: svc, logger: logger}
}

// Build handles POST /cardano/build
// @Summary      Build transaction
// @Description  Builds an unsigned transaction through the provider, verifies the returned CBOR and keeps it until submission
// @Tags         cardano
// @Accept       json
// @Produce      json
// @Param        request  body      model.BuildRequest  true  "Payment data"
// @Success      200      {object}  model.BuildResult
// @Failure      400      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /cardano/build [post]
func (h *CardanoHandler) Build(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.svc.Build(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(res)
}

// Submit handles POST /cardano/submit
// @Summary      Submit transaction
// @Description  Submits a built transaction with the wallet signatures
// @Tags         cardano
// @Accept       json
// @Produce      json
// @Param        request  body      model.SubmitPendingRequest  true  "Hash of the built transaction and signatures"
// @Success      200      {object}  model.SubmitResult
// @Failure      404      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Router       /cardano/submit [post]
func (h *CardanoHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.SubmitPendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.svc.Submit(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(res)
}

// Transactions handles GET /cardano/transactions
// @Summary      List built transactions
// @Description  Lists stored transactions, newest first
// @Tags         cardano
// @Produce      json
// @Param        status         query     string  false  "BUILT or SUBMITTED"
// @Param        changeAddress  query     string  false  "Change address used to build"
// @Success      200  {object}  model.PendingResponse
// @Router       /cardano/transactions [get]
func (h *CardanoHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	var req model.PendingRequest
	if status := r.URL.Query().Get("status"); status != "" {
		s := model.PendingStatus(strings.ToUpper(status))
		req.Status = &s
	}
	if addr := r.URL.Query().Get("changeAddress"); addr != "" {
		req.ChangeAddress = &addr
	}

	resp, err := h.svc.Pending(&req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Transaction handles GET /cardano/transactions/{hash}
// @Summary      Inspect built transaction
// @Description  Decodes a stored transaction so it can be checked before signing
// @Tags         cardano
// @Produce      json
// @Param        hash  path      string  true  "Transaction hash"
// @Success      200   {object}  model.TxSummary
// @Failure      404   {object}  model.ErrorResponse
// @Router       /cardano/transactions/{hash} [get]
func (h *CardanoHandler) Transaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	hash := strings.TrimPrefix(r.URL.Path, transactionsPath)
	if hash == "" || strings.Contains(hash, "/") {
		writeError(w, http.StatusBadRequest, errors.New("transaction hash is required"))
		return
	}

	summary, err := h.svc.Inspect(strings.ToLower(hash))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
}

// Inspect handles POST /cardano/inspect
// @Summary      Inspect any transaction
// @Description  Decodes a CBOR hex transaction without storing it
// @Tags         cardano
// @Accept       json
// @Produce      json
// @Param        request  body      model.InspectRequest  true  "Transaction CBOR hex"
// @Success      200      {object}  model.TxSummary
// @Failure      400      {object}  model.ErrorResponse
// @Router       /cardano/inspect [post]
func (h *CardanoHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.InspectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	summary, err := cardano.InspectHex(req.Transaction)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
}

// Health handles GET /health
// @Summary      Provider health
// @Description  Proxies the provider health endpoint
// @Tags         health
// @Produce      json
// @Success      200  {object}  model.HealthResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /health [get]
func (h *CardanoHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	resp, err := h.svc.Health(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (h *CardanoHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	if status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", retryAfter(err))
	}
	writeError(w, status, err)
}

// statusFor maps service errors to HTTP statuses
func statusFor(err error) int {
	var (
		validation *model.ValidationError
		cooldown   *cardano.CooldownError
		mismatch   *txcbor.MismatchError
		output     *cardano.OutputMismatchError
	)
	switch {
	case errors.As(err, &validation), errors.Is(err, txcbor.ErrMalformed):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, cardano.ErrAlreadySubmitted), errors.Is(err, store.ErrExists):
		return http.StatusConflict
	case errors.As(err, &cooldown):
		return http.StatusTooManyRequests
	case errors.As(err, &mismatch), errors.As(err, &output):
		return http.StatusBadGateway
	}
	if apiErr, ok := client.IsAPIError(err); ok {
		// provider rejected the request itself, e.g. insufficient funds
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func retryAfter(err error) string {
	var cooldown *cardano.CooldownError
	if !errors.As(err, &cooldown) {
		return "1"
	}
	secs := int(cooldown.Remaining.Seconds())
	if cooldown.Remaining > 0 && secs == 0 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}
