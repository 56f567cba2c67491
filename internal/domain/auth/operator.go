package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMFARequired        = errors.New("mfa code required")
	ErrMFAInvalid         = errors.New("invalid mfa code")
)

// Operator authenticates the single back-office account configured through
// the environment. The password is kept only as a bcrypt hash.
type Operator struct {
	email        string
	passwordHash string
	secret       string
	ttl          time.Duration
	totpSecret   string
}

func NewOperator(email, password, secret string, ttl time.Duration) (*Operator, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &Operator{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: hash,
		secret:       secret,
		ttl:          ttl,
	}, nil
}

// RequireTOTP makes Login demand a code for the given base32 secret. An
// empty secret leaves second-factor checks off.
func (o *Operator) RequireTOTP(secret string) *Operator {
	o.totpSecret = strings.TrimSpace(secret)
	return o
}

func (o *Operator) MFAEnabled() bool {
	return o.totpSecret != ""
}

func (o *Operator) Secret() string {
	return o.secret
}

// Login checks the credentials, then the TOTP code when one is configured,
// and issues a signed token.
func (o *Operator) Login(email, password, code string) (string, time.Time, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(normalized), []byte(o.email)) == 1
	if err := CheckPassword(o.passwordHash, password); err != nil || !emailOK {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if o.MFAEnabled() {
		code = strings.TrimSpace(code)
		if code == "" {
			return "", time.Time{}, ErrMFARequired
		}
		if !totp.Validate(code, o.totpSecret) {
			return "", time.Time{}, ErrMFAInvalid
		}
	}
	return GenerateToken(o.secret, Claims{Email: o.email, Role: RoleOperator}, o.ttl)
}
