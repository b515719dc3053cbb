package user

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

type SignupBody struct {
	Name     string         `json:"name" minLength:"1" doc:"Display name"`
	Email    string         `json:"email" minLength:"1" doc:"Login email, unique"`
	Password string         `json:"password" minLength:"1" doc:"Plain text password"`
	Dob      *apitypes.Date `json:"dob,omitempty" doc:"Date of birth"`
	Phone    string         `json:"phone,omitempty" doc:"Phone number"`
}

type SignupInput struct {
	Body SignupBody
}

type SignupOutput struct {
	Body AuthResponseBody
}

type registerer interface {
	Register(ctx context.Context, registration service.Registration) (*service.AuthResult, error)
}

// SignupHandler handles POST /api/auth/signup.
type SignupHandler struct {
	AuthService registerer
}

func NewSignupHandler(svc registerer) *SignupHandler {
	return &SignupHandler{AuthService: svc}
}

func (h *SignupHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/api/auth/signup",
		Summary:       "Sign up",
		Description:   "Creates a user and returns a token with the new profile.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusOK,
	}, h.handle)
}

func (h *SignupHandler) handle(ctx context.Context, input *SignupInput) (*SignupOutput, error) {
	registration := service.Registration{
		Name:     input.Body.Name,
		Email:    input.Body.Email,
		Password: input.Body.Password,
		Phone:    input.Body.Phone,
	}
	if input.Body.Dob != nil {
		dob := input.Body.Dob.Time
		registration.Dob = &dob
	}

	logData := logging.GetLogData(ctx)
	stopTimer := logData.AddTiming("registerMs")
	result, err := h.AuthService.Register(ctx, registration)
	stopTimer()
	if err != nil {
		return nil, apierror.FromService(ctx, err, "Failed to sign up.")
	}

	logData.AddData("userID", result.Profile.ID.String())

	return &SignupOutput{Body: AuthResponseBody{
		Token: result.Token,
		User:  profileFromService(result.Profile),
	}}, nil
}
