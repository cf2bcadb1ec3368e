package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	MerchantID uuid.UUID
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to merchant dashboards.
// The merchant identifier is the only business claim this service reads;
// identity issuance itself lives with the surrounding platform.
type AccessTokenClaims struct {
	MerchantID uuid.UUID `json:"merchant_id"`
	jwt.RegisteredClaims
}
