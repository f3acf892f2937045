package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"forecast-api/internal/wallet"
	"forecast-api/pkg/logging"
	"forecast-api/pkg/metrics"
)

// WalletHandler handles POST /Wallet
type WalletHandler struct {
	responder
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *WalletHandler {
	return &WalletHandler{responder: responder{logger: logger, metrics: metricsCollector}}
}

// PostWallet echoes the currency type of the posted amount.
func (h *WalletHandler) PostWallet(w http.ResponseWriter, r *http.Request) {
	var currency wallet.Currency
	if err := decodeBody(r, &currency); err != nil {
		h.sendError(w, r, "validation_error", err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Debug(r.Context(), "[WALLET] Currency received", logging.Fields{
		"currency_type": currency.CurrencyType.String(),
		"amount":        currency.Amount,
	})
	h.sendJSON(w, r, currency.CurrencyType.String(), http.StatusOK)
}

// RegisterRoutes registers the wallet route
func (h *WalletHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/Wallet", h.PostWallet).Methods(http.MethodPost)
}
