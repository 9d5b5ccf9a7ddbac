// Package billing contains adapters for the external billing collaborator.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainbilling "github.com/vendo-inc/vendo/internal/domain/billing"
	"github.com/vendo-inc/vendo/internal/shared/config"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

const defaultTimeout = 10 * time.Second

// invoiceRequest is the wire payload asking the billing collaborator to
// materialize an invoice for a confirmed subscription.
type invoiceRequest struct {
	SubscriptionID     string `json:"subscription_id"`
	CustomerID         uint   `json:"customer_id"`
	ProductName        string `json:"product_name"`
	Amount             string `json:"amount"`
	Currency           string `json:"currency"`
	GatewayInvoiceRef  string `json:"gateway_invoice_ref,omitempty"`
	GatewayCustomerRef string `json:"gateway_customer_ref,omitempty"`
	PeriodStart        string `json:"period_start"`
	PeriodEnd          string `json:"period_end"`
}

// HTTPNotifier delivers invoice notifications to the billing collaborator
// over HTTP. Deliveries are keyed by subscription number so retries of the
// same notification never produce duplicate invoices downstream.
type HTTPNotifier struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

func NewHTTPNotifier(cfg *config.BillingConfig, log logger.Interface) *HTTPNotifier {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &HTTPNotifier{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

func (n *HTTPNotifier) Notify(ctx context.Context, notification *domainbilling.InvoiceNotification) error {
	payload := invoiceRequest{
		SubscriptionID:     notification.SubscriptionSID(),
		CustomerID:         notification.CustomerID(),
		ProductName:        notification.ProductName(),
		Amount:             notification.Price().StringFixed(2),
		Currency:           notification.Currency(),
		GatewayInvoiceRef:  notification.GatewayInvoiceRef(),
		GatewayCustomerRef: notification.GatewayCustomerRef(),
		PeriodStart:        notification.PeriodStart().Format(time.RFC3339),
		PeriodEnd:          notification.PeriodEnd().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice request: %w", err)
	}

	url := n.baseURL + "/api/invoices/from-subscription"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build invoice request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", notification.SubscriptionSID())

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver invoice request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		n.logger.Warnw("billing collaborator rejected invoice request",
			"subscription_id", notification.SubscriptionSID(),
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return fmt.Errorf("billing service returned status %d", resp.StatusCode)
	}

	n.logger.Debugw("invoice request delivered",
		"subscription_id", notification.SubscriptionSID(),
		"status", resp.StatusCode,
	)
	return nil
}
