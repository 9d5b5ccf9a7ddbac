// Package customer contains the adapter for the customer profile service.
package customer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	domaincustomer "github.com/vendo-inc/vendo/internal/domain/customer"
	"github.com/vendo-inc/vendo/internal/shared/config"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

const defaultTimeout = 5 * time.Second

// HTTPDirectory resolves customer profiles from the customer service.
type HTTPDirectory struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

func NewHTTPDirectory(cfg *config.CustomerConfig, log logger.Interface) *HTTPDirectory {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &HTTPDirectory{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

type customerResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (d *HTTPDirectory) GetByID(ctx context.Context, id uint) (*domaincustomer.Customer, error) {
	url := fmt.Sprintf("%s/api/customers/%d", d.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build customer request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domaincustomer.ErrCustomerNotFound
	}
	if resp.StatusCode != http.StatusOK {
		d.logger.Warnw("customer service returned unexpected status", "customer_id", id, "status", resp.StatusCode)
		return nil, fmt.Errorf("customer service returned status %d", resp.StatusCode)
	}

	var body customerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode customer response: %w", err)
	}

	return &domaincustomer.Customer{
		ID:    body.ID,
		Email: body.Email,
		Name:  body.Name,
	}, nil
}
