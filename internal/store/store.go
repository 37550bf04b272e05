// Package store defines the narrow gateway the employee portal uses to talk
// to the remote bill collection. Both the HTTP client and the test mocks
// satisfy the same shape, so the pipelines never know which one they hold.
package store

import (
	"context"
	"fmt"

	"github.com/billed-app/billed/internal/bill"
)

// Store is the remote-data gateway abstraction
type Store interface {
	Bills() Bills
}

// Bills exposes the operations of the remote "bills" collection
type Bills interface {
	// List returns the raw bill records of the collection
	List(ctx context.Context) ([]bill.Bill, error)

	// Create uploads a receipt file and opens a bill record for it
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)

	// Update merges the submitted form fields into an existing record
	Update(ctx context.Context, req UpdateRequest) (*bill.Bill, error)
}

// CreateRequest carries the multipart payload of the upload operation
type CreateRequest struct {
	Email       string
	FileName    string
	ContentType string
	Data        []byte
}

// CreateResult is what the store hands back after a successful upload
type CreateResult struct {
	ID       string `json:"id"`
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
}

// UpdateRequest carries a bill submission for an already-created record
type UpdateRequest struct {
	ID     string
	Fields bill.Update
}

// TransportError is a network or HTTP failure from the store. Its message is
// the display string the views render verbatim.
type TransportError struct {
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	return e.Message
}

// NewTransportError builds a TransportError for an HTTP status code
func NewTransportError(status int) *TransportError {
	return &TransportError{
		Status:  status,
		Message: fmt.Sprintf("Erreur %d", status),
	}
}
