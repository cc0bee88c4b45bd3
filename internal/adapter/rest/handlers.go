package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rickylaikhuram/backend-webhook-walnut/internal/domain"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/usecase/ingest"
	"github.com/rickylaikhuram/backend-webhook-walnut/internal/usecase/status"
)

// Handlers exposes the HTTP handlers for the webhook and query surfaces.
type Handlers struct {
	logger *slog.Logger
	ingest *ingest.Service
	status *status.Service
}

// NewHandlers constructs the handler set.
func NewHandlers(logger *slog.Logger, ingestSvc *ingest.Service, statusSvc *status.Service) *Handlers {
	return &Handlers{
		logger: logger,
		ingest: ingestSvc,
		status: statusSvc,
	}
}

type webhookPayload struct {
	TransactionID      string `json:"transaction_id"`
	SourceAccount      string `json:"source_account"`
	DestinationAccount string `json:"destination_account"`
	Amount             int64  `json:"amount"`
	Currency           string `json:"currency"`
}

type ackResponse struct {
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status,omitempty"`
}

type transactionResponse struct {
	TransactionID      string     `json:"transaction_id"`
	SourceAccount      string     `json:"source_account"`
	DestinationAccount string     `json:"destination_account"`
	Amount             int64      `json:"amount"`
	Currency           string     `json:"currency"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	ProcessedAt        *time.Time `json:"processed_at"`
}

type healthResponse struct {
	Status      string `json:"status"`
	CurrentTime string `json:"current_time"`
}

// handleWebhook ingests a transaction notification. Both the accepted and
// the duplicate acknowledgement return 202: the sender's delivery succeeded
// either way, and the amount/account fields are never echoed back.
func (h *Handlers) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	ack, err := h.ingest.Receive(r.Context(), ingest.ReceiveInput{
		TransactionID:      payload.TransactionID,
		SourceAccount:      payload.SourceAccount,
		DestinationAccount: payload.DestinationAccount,
		Amount:             payload.Amount,
		Currency:           payload.Currency,
	})
	if err != nil {
		if errors.Is(err, ingest.ErrInvalidPayload) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error("webhook ingestion failed", "transactionId", payload.TransactionID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process webhook")
		return
	}

	respondJSON(w, http.StatusAccepted, ackResponse{
		Message:       ack.Message,
		TransactionID: ack.TransactionID,
		Status:        string(ack.Status),
	})
}

// handleGetStatus returns the full current record for a business identifier.
func (h *Handlers) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	transactionID := mux.Vars(r)["transaction_id"]

	tx, err := h.status.Get(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		h.logger.Error("status lookup failed", "transactionId", transactionID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch transaction")
		return
	}

	respondJSON(w, http.StatusOK, transactionResponse{
		TransactionID:      tx.TransactionID,
		SourceAccount:      tx.SourceAccount,
		DestinationAccount: tx.DestinationAccount,
		Amount:             tx.Amount,
		Currency:           tx.Currency,
		Status:             string(tx.Status),
		CreatedAt:          tx.CreatedAt,
		ProcessedAt:        tx.ProcessedAt,
	})
}

// handleHealth reports liveness with the current server time.
func (h *Handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:      "HEALTHY",
		CurrentTime: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
