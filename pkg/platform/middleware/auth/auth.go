// Package auth authenticates command signers. A command is "signed" when it
// carries a bearer token whose claims name the submitting account.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "contactledger/pkg/domain"
	"contactledger/pkg/requestcontext"
)

// SignerValidator validates a bearer token and returns its claims.
type SignerValidator interface {
	ValidateToken(tokenString string) (*SignerClaims, error)
}

// SignerClaims represents the claims we expect from the validator.
type SignerClaims struct {
	AccountID string
	JTI       string
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireSigner rejects requests without a valid signer token and stores the
// signing account in the request context.
func RequireSigner(validator SignerValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unsigned command rejected - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unsigned command rejected - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}
			if claims.AccountID == "" {
				logger.WarnContext(ctx, "unsigned command rejected - missing account",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Token does not name a signer")
				return
			}

			ctx = requestcontext.WithSigner(ctx, id.AccountID(claims.AccountID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
