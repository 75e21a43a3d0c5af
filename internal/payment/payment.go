package payment

import (
	"context"
	"net/http"
)

// Gateway abstracts the hosted-payment provider. Initialize creates a
// hosted payment page; Verify is the only trusted source of truth about
// whether money actually moved.
type Gateway interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)
	Verify(ctx context.Context, reference string) (*VerifyData, error)
	VerifySignature(r *http.Request, body []byte) error
}
