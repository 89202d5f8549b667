package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AuthStore is the storage dependency needed by AuthService.
type AuthStore interface {
	AddUser(u *User) error
	FindUserByEmail(email string) (*User, error)
	CountUsers() (int, error)
}

// TokenSigner turns an authenticated user into a bearer token.
type TokenSigner func(uid, email, role string, ttl time.Duration) (string, error)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type AuthService struct {
	store AuthStore
	sign  TokenSigner
	ttl   time.Duration
	idGen func(n int) string
	now   func() time.Time
}

func NewAuthService(store AuthStore, sign TokenSigner, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &AuthService{
		store: store,
		sign:  sign,
		ttl:   ttl,
		idGen: shortID,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an account and returns a signed token. The first
// registered account gets the admin role.
func (s *AuthService) Register(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, NewInvalidError("email and password required")
	}
	existing, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("email already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewInvalidError("password not usable")
	}
	count, err := s.store.CountUsers()
	if err != nil {
		return nil, err
	}
	role := RoleMember
	if count == 0 {
		role = RoleAdmin
	}
	u := &User{
		ID:        "u_" + s.idGen(8),
		Email:     email,
		PassHash:  hash,
		Role:      role,
		CreatedAt: s.now(),
	}
	if err := s.store.AddUser(u); err != nil {
		return nil, err
	}
	token, err := s.sign(u.ID, u.Email, u.Role, s.ttl)
	if err != nil {
		return nil, NewUnavailableError("token signing failed")
	}
	return &AuthResult{Token: token, UserID: u.ID, Role: u.Role}, nil
}

// Login verifies credentials. Unknown email and wrong password produce the
// same error so the response does not reveal which one failed.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)) != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	token, err := s.sign(u.ID, u.Email, u.Role, s.ttl)
	if err != nil {
		return nil, NewUnavailableError("token signing failed")
	}
	return &AuthResult{Token: token, UserID: u.ID, Role: u.Role}, nil
}
