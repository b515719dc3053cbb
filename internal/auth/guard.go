package auth

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/logging"
)

const (
	UnauthenticatedMessage = "Access denied. No token provided."
	InvalidTokenMessage    = "Invalid token."
)

// TokenValidator resolves a bearer token to a user ID.
type TokenValidator interface {
	Validate(token string) (uuid.UUID, error)
}

// ExtractToken pulls the token out of an Authorization header value. Both
// "Bearer <token>" and a bare "<token>" are accepted.
func ExtractToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) == 2 {
		return parts[1]
	}
	return parts[0]
}

// Guard is huma operation middleware that rejects requests without a valid
// token (401 when missing, 400 when invalid) and otherwise threads the user ID
// into the request context.
//
// Rejections go through huma.WriteErr, so the body is whatever huma.NewError
// builds. The {"message"} envelope comes from importing handlers/v1/apierror,
// which replaces huma.NewError in its init.
func Guard(api huma.API, validator TokenValidator) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		if header == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, UnauthenticatedMessage, ErrUnauthenticated)
			return
		}

		token := ExtractToken(header)
		if token == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, UnauthenticatedMessage, ErrUnauthenticated)
			return
		}

		userID, err := validator.Validate(token)
		if err != nil {
			logging.GetLogData(ctx.Context()).AddData("authError", err.Error())
			_ = huma.WriteErr(api, ctx, http.StatusBadRequest, InvalidTokenMessage, err)
			return
		}

		logging.GetLogData(ctx.Context()).AddData("userID", userID.String())

		next(huma.WithContext(ctx, WithUserID(ctx.Context(), userID)))
	}
}
