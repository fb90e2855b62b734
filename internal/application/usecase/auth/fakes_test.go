package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// plainPasswordService stores passwords with a prefix instead of bcrypt.
type plainPasswordService struct{}

func (plainPasswordService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainPasswordService) VerifyPassword(hashed, password string) error {
	if hashed != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func (plainPasswordService) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}

type issuedToken struct {
	userID      uuid.UUID
	username    string
	invalidated bool
}

// fakeTokenService issues opaque sequential tokens.
type fakeTokenService struct {
	mu      sync.Mutex
	seq     int
	refresh map[string]*issuedToken
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{refresh: make(map[string]*issuedToken)}
}

func (s *fakeTokenService) GenerateTokenPair(_ context.Context, userID uuid.UUID, username string) (*adapter.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	refresh := fmt.Sprintf("refresh-%d", s.seq)
	s.refresh[refresh] = &issuedToken{userID: userID, username: username}
	return &adapter.TokenPair{
		AccessToken:  fmt.Sprintf("access-%d", s.seq),
		RefreshToken: refresh,
		ExpiresIn:    15 * time.Minute,
	}, nil
}

func (s *fakeTokenService) ValidateAccessToken(context.Context, string) (*adapter.TokenClaims, error) {
	return nil, errors.New("not used")
}

func (s *fakeTokenService) ValidateRefreshToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	issued, ok := s.refresh[token]
	if !ok {
		return nil, errors.New("malformed token")
	}
	return &adapter.TokenClaims{UserID: issued.userID, Username: issued.username}, nil
}

func (s *fakeTokenService) IsRefreshTokenValid(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	issued, ok := s.refresh[token]
	return ok && !issued.invalidated, nil
}

func (s *fakeTokenService) InvalidateRefreshToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if issued, ok := s.refresh[token]; ok {
		issued.invalidated = true
	}
	return nil
}

type recordingEmailService struct {
	queued []adapter.QueueWelcomeEmailInput
	err    error
}

func (s *recordingEmailService) QueueWelcomeEmail(_ context.Context, input adapter.QueueWelcomeEmailInput) error {
	if s.err != nil {
		return s.err
	}
	s.queued = append(s.queued, input)
	return nil
}
