package user

import (
	"context"
	"net/http"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-server/internal/service"
)

type ProfileOutput struct {
	Body Profile
}

type profileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*service.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch service.ProfilePatch) (*service.Profile, error)
}

// MeHandler handles GET and PATCH /api/auth/me.
type MeHandler struct {
	AuthService profileService
	Tokens      auth.TokenValidator
}

func NewMeHandler(svc profileService, tokens auth.TokenValidator) *MeHandler {
	return &MeHandler{AuthService: svc, Tokens: tokens}
}

func (h *MeHandler) Register(api huma.API) {
	guard := huma.Middlewares{auth.Guard(api, h.Tokens)}

	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/api/auth/me",
		Summary:     "Current profile",
		Tags:        []string{"Auth"},
		Middlewares: guard,
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "update-me",
		Method:      http.MethodPatch,
		Path:        "/api/auth/me",
		Summary:     "Update current profile",
		Description: "Writes only the fields present in the body.",
		Tags:        []string{"Auth"},
		Middlewares: guard,
	}, h.update)
}

func (h *MeHandler) get(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	userID, err := apierror.Caller(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := h.AuthService.GetProfile(ctx, userID)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "Failed to load profile.")
	}

	return &ProfileOutput{Body: profileFromService(*profile)}, nil
}

type UpdateMeBody struct {
	Name  *string        `json:"name,omitempty" doc:"Display name"`
	Dob   *apitypes.Date `json:"dob,omitempty" doc:"Date of birth"`
	Phone *string        `json:"phone,omitempty" doc:"Phone number"`
}

type UpdateMeInput struct {
	Body UpdateMeBody
}

func (h *MeHandler) update(ctx context.Context, input *UpdateMeInput) (*ProfileOutput, error) {
	userID, err := apierror.Caller(ctx)
	if err != nil {
		return nil, err
	}

	patch := service.ProfilePatch{
		Name:  omit.FromPtr(input.Body.Name),
		Phone: omit.FromPtr(input.Body.Phone),
	}
	if input.Body.Dob != nil {
		patch.Dob = omit.From(input.Body.Dob.Time)
	}

	profile, err := h.AuthService.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "Failed to update profile.")
	}

	return &ProfileOutput{Body: profileFromService(*profile)}, nil
}
