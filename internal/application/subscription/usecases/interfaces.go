package usecases

import "context"

// SessionIndexCache is an optional fast-path index from checkout session id
// to subscription number, so confirm-by-session calls skip the database
// lookup. It is strictly best-effort: every implementation error is treated
// as a cache miss.
type SessionIndexCache interface {
	SetSessionIndex(ctx context.Context, sessionID, subscriptionSID string) error
	GetSessionIndex(ctx context.Context, sessionID string) (string, error)
}
