package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/profiles/internal/profiles/domain"
	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/pkg/httpx"
	"github.com/aussiebroadwan/profiles/pkg/profilesdk"
	"github.com/aussiebroadwan/profiles/pkg/slogx"
)

type UsersHandler struct {
	Profiles *service.ProfileService
}

// HandleCreate godoc
//
//	@Summary		Create own profile
//	@Description	Creates the caller's profile on first sign-in. If a profile already exists it is returned unchanged with 200.
//	@Description	Email is taken from the token; GoogleEmail is only set for Google sign-ins.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		profilesdk.UsernameRequest	true	"Username"
//	@Success		201		{object}	profilesdk.ProfileResponse	"Profile created"
//	@Success		200		{object}	profilesdk.ProfileResponse	"Profile already exists"
//	@Failure		400		{object}	profilesdk.APIError			"Invalid JSON body or username is required"
//	@Failure		401		{object}	profilesdk.APIError			"Missing or invalid token"
//	@Failure		500		{object}	profilesdk.APIError			"Internal server error"
//	@Router			/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username, err := service.Username(httpx.BodyFromContext(ctx)["username"])
	if err != nil {
		profilesdk.ErrUsernameRequired.WriteError(w)
		return
	}

	p, created, err := h.Profiles.Create(ctx, claimsFromContext(ctx), username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if !created {
		httpx.WriteJSON(w, http.StatusOK, profilesdk.ProfileResponse{
			Message: "Profile already exists",
			Profile: toWire(p),
		})
		return
	}

	slogx.FromContext(ctx).Info("profile created")
	httpx.WriteJSON(w, http.StatusCreated, profilesdk.ProfileResponse{
		Message: "Profile created",
		Profile: toWire(p),
	})
}

// HandleGet godoc
//
//	@Summary		Get own profile
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	profilesdk.ProfileResponse
//	@Failure		401	{object}	profilesdk.APIError	"Missing or invalid token"
//	@Failure		404	{object}	profilesdk.APIError	"Profile not found"
//	@Failure		500	{object}	profilesdk.APIError	"Internal server error"
//	@Router			/users/me [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.Profiles.Get(ctx, claimsFromContext(ctx).Subject)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profilesdk.ProfileResponse{Profile: toWire(p)})
}

// HandleUpdate godoc
//
//	@Summary		Update own username
//	@Description	Renames the caller. Never creates a profile.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		profilesdk.UsernameRequest	true	"Username"
//	@Success		200		{object}	profilesdk.ProfileResponse	"Profile updated"
//	@Failure		400		{object}	profilesdk.APIError			"Invalid JSON body or username is required"
//	@Failure		401		{object}	profilesdk.APIError			"Missing or invalid token"
//	@Failure		404		{object}	profilesdk.APIError			"Profile not found"
//	@Failure		500		{object}	profilesdk.APIError			"Internal server error"
//	@Router			/users/me [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username, err := service.Username(httpx.BodyFromContext(ctx)["username"])
	if err != nil {
		profilesdk.ErrUsernameRequired.WriteError(w)
		return
	}

	p, err := h.Profiles.UpdateUsername(ctx, claimsFromContext(ctx).Subject, username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profilesdk.ProfileResponse{
		Message: "Profile updated",
		Profile: toWire(p),
	})
}

// HandleNotFound answers authenticated requests that match no route.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	profilesdk.NewRouteNotFound(r.Method, r.URL.Path).WriteError(w)
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUsernameRequired):
		profilesdk.ErrUsernameRequired.WriteError(w)
	case errors.Is(err, service.ErrProfileNotFound):
		profilesdk.ErrProfileNotFound.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		profilesdk.ErrInternal.WriteError(w)
	}
}

func toWire(p domain.Profile) profilesdk.Profile {
	return profilesdk.Profile{
		UserID:      p.UserID,
		Email:       p.Email,
		Username:    p.Username,
		GoogleEmail: p.GoogleEmail,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
