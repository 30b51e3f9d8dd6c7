package utils // package utils provides helper functions for access token creation and parsing

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned by ParseAccessToken for any token that is
// malformed, expired, signed with another key or missing its subject.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Claims are the identity fields carried by an access token.
type Claims struct {
    UserID   string
    UserName string
    UserType string
}

// NewAccessToken builds and signs an HS256 JWT.  The token carries the
// subject (sub), display name, user type, expiration (exp) and issued at
// (iat).  now is passed in so callers with a pinned clock get stable
// expirations.
func NewAccessToken(secret string, c Claims, ttlMin int, now time.Time) (AccessToken, error) {
    now = now.UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  c.UserID,
        "name": c.UserName,
        "type": c.UserType,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against secret and returns its claims.  Only
// HMAC signing methods are accepted.
func ParseAccessToken(secret, raw string) (Claims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject anything that is not HMAC to avoid algorithm confusion.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return Claims{}, ErrInvalidToken
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, ErrInvalidToken
    }
    sub, _ := mc["sub"].(string)
    if sub == "" {
        return Claims{}, ErrInvalidToken
    }
    name, _ := mc["name"].(string)
    typ, _ := mc["type"].(string)
    return Claims{UserID: sub, UserName: name, UserType: typ}, nil
}
