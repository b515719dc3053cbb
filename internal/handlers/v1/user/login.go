package user

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

type LoginBody struct {
	Email    string `json:"email" doc:"Login email"`
	Password string `json:"password" doc:"Plain text password"`
}

type LoginInput struct {
	Body LoginBody
}

type LoginOutput struct {
	Body AuthResponseBody
}

type authenticator interface {
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
}

// LoginHandler handles POST /api/auth/login.
type LoginHandler struct {
	AuthService authenticator
}

func NewLoginHandler(svc authenticator) *LoginHandler {
	return &LoginHandler{AuthService: svc}
}

func (h *LoginHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in",
		Tags:        []string{"Auth"},
	}, h.handle)
}

func (h *LoginHandler) handle(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	result, err := h.AuthService.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "Failed to log in.")
	}

	logging.GetLogData(ctx).AddData("userID", result.Profile.ID.String())

	return &LoginOutput{Body: AuthResponseBody{
		Token: result.Token,
		User:  profileFromService(result.Profile),
	}}, nil
}
