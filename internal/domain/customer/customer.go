// Package customer defines the read-only contract against the customer
// profile service. Customer CRUD lives in that collaborator; this service
// only needs to resolve a customer's identity and email at checkout time.
package customer

import (
	"context"
	"errors"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Customer is a projection of the collaborator's customer record.
type Customer struct {
	ID    uint
	Email string
	Name  string
}

// Directory resolves customers by id. Implementations return
// ErrCustomerNotFound for unknown ids.
type Directory interface {
	GetByID(ctx context.Context, customerID uint) (*Customer, error)
}
