package testutil

import (
	"net/http"

	id "contactledger/pkg/domain"
	"contactledger/pkg/requestcontext"
)

// WithSigner adds the signing account to the request context.
// This simulates what the signer middleware would do for authenticated requests.
// An empty account leaves the request unsigned.
func WithSigner(req *http.Request, account string) *http.Request {
	if account == "" {
		return req
	}
	return req.WithContext(requestcontext.WithSigner(req.Context(), id.AccountID(account)))
}
