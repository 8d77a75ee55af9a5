package sdk

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mitchellh/mapstructure"
)

// ErrMalformedCredential is returned when a credential cannot be decoded into an Identity.
var ErrMalformedCredential = errors.New("malformed credential")

// Credential is a compact signed bearer token (header.payload.signature).
// The client never verifies the signature; the server does that on every request.
type Credential string

// String returns the raw token.
func (c Credential) String() string {
	return string(c)
}

// Role is the dashboard role carried in a credential.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
	RoleHead    Role = "head"
)

// Roles lists every known role, least privileged first.
var Roles = []Role{RoleStudent, RoleTeacher, RoleAdmin, RoleHead}

// ParseRole maps a raw claim value onto a known Role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleTeacher:
		return RoleTeacher, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleHead:
		return RoleHead, true
	}
	return "", false
}

// Identity is the subject information extracted from a credential payload.
type Identity struct {
	SubjectID   int64  `json:"user_id"`
	DisplayName string `json:"username"`
	Role        Role   `json:"role"`
}

// identityClaims mirrors the payload fields the dashboard backend puts in its access tokens.
type identityClaims struct {
	UserID   int64  `mapstructure:"user_id"`
	Username string `mapstructure:"username"`
	Role     string `mapstructure:"role"`
}

// Clock is the time source used for expiry checks.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads wall-clock time.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Codec decodes credentials and answers whether they are still usable.
type Codec struct {
	clock Clock
}

// NewCodec returns a Codec reading time from clock (SystemClock when nil).
func NewCodec(clock Clock) *Codec {
	if clock == nil {
		clock = SystemClock
	}
	return &Codec{clock: clock}
}

// Decode extracts the Identity from the payload segment of c.
func (c *Codec) Decode(cred Credential) (Identity, error) {
	return Decode(cred)
}

// IsExpired reports whether cred is expired at the codec's current time.
func (c *Codec) IsExpired(cred Credential) bool {
	return IsExpired(cred, c.clock.Now())
}

// Decode extracts the Identity from the payload segment of cred.
// Every failure wraps ErrMalformedCredential; Decode never panics.
func Decode(cred Credential) (Identity, error) {
	claims, err := parseClaims(cred)
	if err != nil {
		return Identity{}, err
	}

	if _, ok := claims["user_id"]; !ok {
		return Identity{}, fmt.Errorf("%w: missing user_id claim", ErrMalformedCredential)
	}

	var decoded identityClaims
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &decoded,
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	if err := decoder.Decode(map[string]any(claims)); err != nil {
		return Identity{}, fmt.Errorf("%w: decode claims: %v", ErrMalformedCredential, err)
	}

	role, ok := ParseRole(decoded.Role)
	if !ok {
		return Identity{}, fmt.Errorf("%w: unknown role %q", ErrMalformedCredential, decoded.Role)
	}

	return Identity{
		SubjectID:   decoded.UserID,
		DisplayName: decoded.Username,
		Role:        role,
	}, nil
}

// IsExpired reports whether cred's exp claim lies before now.
// Unreadable credentials and credentials without exp count as expired.
func IsExpired(cred Credential, now time.Time) bool {
	expiresAt, err := ExpiresAt(cred)
	if err != nil {
		return true
	}
	return expiresAt.Before(now)
}

// ExpiresAt returns the exp claim of cred.
func ExpiresAt(cred Credential) (time.Time, error) {
	claims, err := parseClaims(cred)
	if err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", ErrMalformedCredential)
	}
	return exp.Time, nil
}

func parseClaims(cred Credential) (jwt.MapClaims, error) {
	raw := strings.TrimSpace(string(cred))
	if strings.Count(raw, ".") != 2 {
		return nil, fmt.Errorf("%w: expected 3 segments", ErrMalformedCredential)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser(jwt.WithPaddingAllowed()).ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	return claims, nil
}
