package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bargainly/bargainly-backend/api/middleware"
	"github.com/bargainly/bargainly-backend/api/responses"
	"github.com/bargainly/bargainly-backend/api/validators"
	pkgAuth "github.com/bargainly/bargainly-backend/pkg/auth"
	"github.com/bargainly/bargainly-backend/pkg/auth/session"
	"github.com/bargainly/bargainly-backend/pkg/config"
	pkgerrors "github.com/bargainly/bargainly-backend/pkg/errors"
	"github.com/bargainly/bargainly-backend/pkg/logger"
)

// SessionRotator is the session manager surface the session endpoints need.
type SessionRotator interface {
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type refreshPayload struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionRefresh exchanges a valid refresh token for a new access/refresh
// pair, invalidating the caller's current session.
func SessionRefresh(cfg config.JWTConfig, sessions SessionRotator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if sessions == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		merchantID, err := merchantFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		accessID := middleware.AccessIDFromContext(ctx)
		if accessID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing"))
			return
		}

		var payload refreshPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		newAccessID, newRefresh, err := sessions.Rotate(ctx, accessID, payload.RefreshToken)
		if err != nil {
			if errors.Is(err, session.ErrInvalidRefreshToken) {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "refresh rejected"))
				return
			}
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotating session"))
			return
		}

		accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
			MerchantID: merchantID,
			JTI:        newAccessID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token"))
			return
		}

		responses.WriteSuccess(w, tokenPairResponse{
			AccessToken:  accessToken,
			RefreshToken: newRefresh,
		})
	}
}

// SessionLogout revokes the caller's refresh session. The current access
// token stops passing the session check immediately.
func SessionLogout(sessions SessionRotator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if sessions == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}

		accessID := middleware.AccessIDFromContext(ctx)
		if accessID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing"))
			return
		}

		if err := sessions.Revoke(ctx, accessID); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session"))
			return
		}

		responses.WriteSuccess(w, map[string]bool{"revoked": true})
	}
}
