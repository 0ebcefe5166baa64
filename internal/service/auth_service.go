package service

import (
	"context"
	"errors"
	"strings"

	"citycut/internal/apierror"
	"citycut/internal/dto"
	"citycut/internal/repository"
	"citycut/internal/session"

	"golang.org/x/crypto/bcrypt"
)

// MsgInvalidCredentials never says which of email or password was wrong.
const MsgInvalidCredentials = "Invalid email or password"

var ErrInvalidCredentials = errors.New(MsgInvalidCredentials)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	users    repository.UserRepository
	sessions *session.Manager
}

func NewAuthService(users repository.UserRepository, sessions *session.Manager) AuthService {
	return &authService{users: users, sessions: sessions}
}

// Login verifies the bcrypt hash and issues a session token. Unknown users and
// wrong passwords both return ErrInvalidCredentials; a store outage does not.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if apierror.KindOf(err) == apierror.KindNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Role.Valid() {
		return nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Success:   true,
		Message:   "Signed in successfully",
		Token:     token,
		ExpiresIn: int(s.sessions.TTL().Seconds()),
		Redirect:  user.Role.Home(),
		User:      toUserResponse(user),
	}, nil
}
