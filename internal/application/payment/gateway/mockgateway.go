package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockGateway is an in-memory CheckoutGateway for tests and local
// development. Sessions it creates are reported as paid when
// shouldSucceed is true.
type MockGateway struct {
	shouldSucceed bool

	mu       sync.Mutex
	sessions map[string]CreateCheckoutSessionRequest
}

func NewMockGateway(shouldSucceed bool) *MockGateway {
	return &MockGateway{
		shouldSucceed: shouldSucceed,
		sessions:      make(map[string]CreateCheckoutSessionRequest),
	}
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, req CreateCheckoutSessionRequest) (*CheckoutSessionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessionID := fmt.Sprintf("cs_mock_%d", time.Now().UnixNano())
	m.sessions[sessionID] = req

	return &CheckoutSessionResult{
		SessionID:   sessionID,
		CheckoutURL: fmt.Sprintf("https://mock-checkout.example.com/pay/%s", sessionID),
	}, nil
}

func (m *MockGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSessionData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return nil, fmt.Errorf("checkout session %s not found", sessionID)
	}

	return &CheckoutSessionData{
		SessionID:       sessionID,
		PaymentComplete: m.shouldSucceed,
		CustomerRef:     fmt.Sprintf("cus_mock_%s", sessionID),
		SubscriptionRef: fmt.Sprintf("sub_mock_%s", sessionID),
		InvoiceRef:      fmt.Sprintf("in_mock_%s", sessionID),
	}, nil
}
