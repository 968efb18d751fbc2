package core

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Role is a claim-level role name carried inside tokens and on user rows.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Identity is the verified principal for a single request. It is produced
// from a valid token and never persisted.
type Identity struct {
	Subject string
	Roles   []Role
}

// IsAdmin derives the admin flag from the role set on demand. The role set
// is the single source of truth; no separate boolean is stored anywhere.
func (id Identity) IsAdmin() bool {
	for _, r := range id.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// IdentityResolver turns a raw Authorization header value into a verified
// identity. Every mutating operation passes through Resolve; public reads
// never do.
type IdentityResolver struct {
	codec *TokenCodec
}

func NewIdentityResolver(codec *TokenCodec) *IdentityResolver {
	return &IdentityResolver{codec: codec}
}

// Resolve strips the Bearer prefix, verifies the token, and extracts claims.
// Returns ErrMalformedCredential for a missing/empty prefix and
// ErrInvalidCredential for anything that fails verification.
func (r *IdentityResolver) Resolve(rawHeader string) (Identity, error) {
	token, err := r.codec.Strip(rawHeader)
	if err != nil {
		return Identity{}, err
	}
	if !r.codec.Verify(token) {
		return Identity{}, ErrInvalidCredential
	}
	claims, err := r.codec.Claims(token)
	if err != nil {
		return Identity{}, ErrInvalidCredential
	}
	return Identity{Subject: claims.Subject, Roles: claims.Roles}, nil
}

// AuthService handles sign-up and login against the user repository.
type AuthService struct {
	users UserRepository
	codec *TokenCodec
}

func NewAuthService(users UserRepository, codec *TokenCodec) *AuthService {
	return &AuthService{users: users, codec: codec}
}

// Register creates a new USER account. Fails with ErrDuplicateUser when the
// username is already taken.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateUser
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.users.Create(ctx, username, hash, string(RoleUser))
	return err
}

// Login verifies the password against the stored one-way hash and issues a
// signed bearer token. Unknown user and password mismatch both surface as
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	u, err := s.users.FindByUsername(ctx, username)
	if err != nil || u == nil {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return s.codec.Issue(u.Username, []Role{Role(u.Role)})
}

// HashPassword produces a one-way salted hash of plain. The reverse
// operation does not exist.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
