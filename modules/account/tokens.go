package account

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/pkg/jwt"
)

const subjectPasswordReset = "password_reset"

// Tokens is the credential pair handed to clients after login.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expiresIn"`
}

type accessClaims struct {
	jwt.StandardClaims
	Role core.Role `json:"role"`
}

// resetPayload is carried inside password reset tokens.
type resetPayload struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"uid"`
	Subject   string    `json:"sub"`
	ExpiresAt int64     `json:"exp"`
}

func (s *Service) issueTokens(u core.User, now time.Time) (Tokens, RefreshToken, error) {
	access, err := s.jwt.Generate(accessClaims{
		StandardClaims: jwt.StandardClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID.String(),
			Issuer:    s.cfg.JWTIssuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.cfg.AccessTokenTTL).Unix(),
		},
		Role: u.Role,
	})
	if err != nil {
		return Tokens{}, RefreshToken{}, err
	}

	refresh := RefreshToken{
		ID:        uuid.New(),
		UserID:    u.ID,
		Token:     rand.Text(),
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
		CreatedAt: now,
	}

	return Tokens{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
	}, refresh, nil
}

func hashToken(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}
