package credentials

import (
	"strings"
	"time"
)

// SetCredentialsInput carries the merchant-provided shop connection details.
// On update, empty fields keep their stored values.
type SetCredentialsInput struct {
	ShopName    string `json:"shop_name" validate:"omitempty,min=1,max=255"`
	AccessToken string `json:"access_token" validate:"omitempty,min=1"`
	APIVersion  string `json:"api_version" validate:"omitempty,min=1,max=32"`
}

// CredentialDTO is the public projection of a stored credential. The access
// token is masked and never leaves the service in full.
type CredentialDTO struct {
	ShopName    string    `json:"shop_name"`
	APIVersion  string    `json:"api_version"`
	TokenMasked string    `json:"token_masked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
