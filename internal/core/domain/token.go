package domain

// TokenKind discriminates access tokens from refresh tokens. It is a
// closed set: decoding rejects any other value.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

func (k TokenKind) Valid() bool {
	return k == TokenKindAccess || k == TokenKindRefresh
}

// TokenPair is the login/refresh response. ExpiresIn always reports the
// access-token lifetime in seconds, also on refresh; refresh tokens are
// not meant to be presented as bearer credentials.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
