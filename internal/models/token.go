package models

import "time"

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RefreshToken is the server-tracked half of a session. The token string is
// opaque and globally unique; the row is mutated only by revocation.
type RefreshToken struct {
	Token     string    `json:"token" dynamodbav:"token"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt time.Time `json:"expires_at" dynamodbav:"expires_at"`
	Revoked   bool      `json:"revoked" dynamodbav:"revoked"`
}

func (t *RefreshToken) GetPK() string {
	return "REFRESH#" + t.Token
}

func (t *RefreshToken) GetSK() string {
	return "METADATA"
}
