package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"  // sentinel errors for token parsing
    "strconv" // account ids travel as decimal strings in the sub claim
    "time"    // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
    "github.com/google/uuid"       // unique token identifiers (jti)
)

// Token types carried in the token_type claim.  A refresh token presented
// where an access token is expected (or the reverse) is rejected.
const (
    TokenTypeAccess  = "access"
    TokenTypeRefresh = "refresh"
)

// ErrWrongTokenType is returned by ParseToken when the token_type claim does
// not match the expected type.
var ErrWrongTokenType = errors.New("wrong token type")

// Claims is the payload of both token kinds.  SessionID is set only on
// access tokens and holds the jti of the refresh token that minted them, so
// that blacklisting the refresh token also invalidates its access tokens.
type Claims struct {
    TokenType string `json:"token_type"`
    SessionID string `json:"sid,omitempty"`
    jwt.RegisteredClaims
}

// AccountID returns the numeric subject of the token.
func (c *Claims) AccountID() (uint64, error) {
    return strconv.ParseUint(c.Subject, 10, 64)
}

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are short‑lived and sent in the Authorization header when
// calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long‑lived signed token used to obtain new access
// tokens.  ID is its jti, the key of the blacklist.
type RefreshToken struct {
    Raw string    // serialized JWT returned to the client
    ID  string    // jti claim
    Exp time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 access JWT for an account.  The
// token carries sub, iat, exp, a fresh jti and the sid of its refresh token.
func NewAccessToken(secret []byte, accountID uint64, sessionID string, now time.Time, ttl time.Duration) (AccessToken, error) {
    now = now.UTC()
    exp := now.Add(ttl)
    claims := Claims{
        TokenType: TokenTypeAccess,
        SessionID: sessionID,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(accountID, 10),
            ID:        uuid.NewString(),
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 refresh JWT with a unique jti.
func NewRefreshToken(secret []byte, accountID uint64, now time.Time, ttl time.Duration) (RefreshToken, error) {
    now = now.UTC()
    exp := now.Add(ttl)
    id := uuid.NewString()
    claims := Claims{
        TokenType: TokenTypeRefresh,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(accountID, 10),
            ID:        id,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{Raw: signed, ID: id, Exp: exp}, nil
}

// ParseToken verifies the HS256 signature of raw, validates its time based
// claims against now and checks token_type.  Pass skipExpiry to accept
// tokens whose exp has passed (the signature is still verified).  Errors
// from the jwt package are returned wrapped, so callers can test for
// jwt.ErrTokenExpired.
func ParseToken(secret []byte, raw, wantType string, now func() time.Time, skipExpiry bool) (*Claims, error) {
    opts := []jwt.ParserOption{
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithTimeFunc(now),
        jwt.WithExpirationRequired(),
    }
    if skipExpiry {
        opts = append(opts, jwt.WithoutClaimsValidation())
    }
    claims := &Claims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        return secret, nil
    }, opts...)
    if err != nil {
        return nil, err
    }
    if !tok.Valid {
        return nil, jwt.ErrTokenSignatureInvalid
    }
    if claims.TokenType != wantType {
        return nil, ErrWrongTokenType
    }
    if claims.ID == "" || claims.Subject == "" {
        return nil, jwt.ErrTokenInvalidClaims
    }
    return claims, nil
}
