package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bargainly/bargainly-backend/api/middleware"
	"github.com/bargainly/bargainly-backend/pkg/auth/session"
	"github.com/bargainly/bargainly-backend/pkg/config"
)

type stubSessionRotator struct {
	rotateErr   error
	revokedID   string
	newAccessID string
	newRefresh  string
}

func (s *stubSessionRotator) Rotate(_ context.Context, _, _ string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return s.newAccessID, s.newRefresh, nil
}

func (s *stubSessionRotator) Revoke(_ context.Context, accessID string) error {
	s.revokedID = accessID
	return nil
}

func sessionTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "bargainly-test",
		ExpirationMinutes: 15,
	}
}

func sessionRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := middleware.WithMerchantID(req.Context(), uuid.NewString())
	ctx = middleware.WithAccessID(ctx, uuid.NewString())
	return req.WithContext(ctx)
}

func TestSessionRefreshIssuesNewPair(t *testing.T) {
	rotator := &stubSessionRotator{newAccessID: uuid.NewString(), newRefresh: "fresh-refresh"}
	handler := SessionRefresh(sessionTestConfig(), rotator, nil)

	req := sessionRequest(http.MethodPost, "/api/auth/refresh", `{"refresh_token":"current-refresh"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data tokenPairResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken == "" {
		t.Fatal("expected a minted access token")
	}
	if envelope.Data.RefreshToken != "fresh-refresh" {
		t.Fatalf("unexpected refresh token: %q", envelope.Data.RefreshToken)
	}
}

func TestSessionRefreshRejectsBadToken(t *testing.T) {
	rotator := &stubSessionRotator{rotateErr: session.ErrInvalidRefreshToken}
	handler := SessionRefresh(sessionTestConfig(), rotator, nil)

	req := sessionRequest(http.MethodPost, "/api/auth/refresh", `{"refresh_token":"stale"}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestSessionRefreshRequiresBody(t *testing.T) {
	handler := SessionRefresh(sessionTestConfig(), &stubSessionRotator{}, nil)

	req := sessionRequest(http.MethodPost, "/api/auth/refresh", `{}`)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSessionLogoutRevokesSession(t *testing.T) {
	rotator := &stubSessionRotator{}
	handler := SessionLogout(rotator, nil)

	req := sessionRequest(http.MethodPost, "/api/auth/logout", "")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if rotator.revokedID == "" {
		t.Fatal("expected the context access id to be revoked")
	}
}

func TestSessionLogoutWithoutSessionContext(t *testing.T) {
	handler := SessionLogout(&stubSessionRotator{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
