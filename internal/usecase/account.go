package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gatherhub/gatherhub/internal/domain"
	"github.com/gatherhub/gatherhub/internal/service"
)

type AccountUsecase struct {
	users UserRepository
	auth  *service.AuthService
}

func NewAccountUsecase(users UserRepository, auth *service.AuthService) *AccountUsecase {
	return &AccountUsecase{
		users: users,
		auth:  auth,
	}
}

// Register creates an ordinary user account. The administrator role is
// only ever assigned by seeding, never through the public endpoint.
func (uc *AccountUsecase) Register(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}
	if len(password) < 6 {
		return domain.User{}, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}

	hash, err := uc.auth.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	return uc.users.Create(ctx, email, hash, domain.RoleUser)
}

// Login verifies the credentials and returns the user with a signed
// token. A missing user and a wrong password are indistinguishable to
// the caller.
func (uc *AccountUsecase) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, hash, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", domain.ErrUnauthorized
		}
		return domain.User{}, "", err
	}

	if err := uc.auth.ComparePassword(hash, password); err != nil {
		return domain.User{}, "", domain.ErrUnauthorized
	}

	token, err := uc.auth.IssueToken(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}
