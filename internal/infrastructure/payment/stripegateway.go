package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/vendo-inc/vendo/internal/application/payment/gateway"
	"github.com/vendo-inc/vendo/internal/shared/config"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

// StripeGateway implements gateway.CheckoutGateway against Stripe hosted
// checkout. Session state read back from Stripe is the authoritative
// payment record; nothing client-supplied is trusted.
type StripeGateway struct {
	logger logger.Interface
}

func NewStripeGateway(cfg *config.StripeConfig, logger logger.Interface) (*StripeGateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("stripe API key is required")
	}

	stripe.Key = cfg.APIKey

	return &StripeGateway{logger: logger}, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req gateway.CreateCheckoutSessionRequest) (*gateway.CheckoutSessionResult, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(req.CustomerEmail),
		SuccessURL:    stripe.String(req.SuccessURL),
		CancelURL:     stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(req.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(req.Interval),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := session.New(params)
	if err != nil {
		g.logger.Errorw("failed to create stripe checkout session", "error", err)
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	g.logger.Infow("stripe checkout session created", "session_id", s.ID)

	return &gateway.CheckoutSessionResult{
		SessionID:   s.ID,
		CheckoutURL: s.URL,
	}, nil
}

func (g *StripeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*gateway.CheckoutSessionData, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("subscription")
	params.AddExpand("subscription.latest_invoice")

	s, err := session.Get(sessionID, params)
	if err != nil {
		g.logger.Errorw("failed to fetch stripe checkout session", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to fetch checkout session: %w", err)
	}

	data := &gateway.CheckoutSessionData{
		SessionID:       s.ID,
		PaymentComplete: s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}

	if s.Customer != nil {
		data.CustomerRef = s.Customer.ID
	}
	if s.Subscription != nil {
		data.SubscriptionRef = s.Subscription.ID
		if s.Subscription.LatestInvoice != nil {
			data.InvoiceRef = s.Subscription.LatestInvoice.ID
		}
	}

	return data, nil
}
