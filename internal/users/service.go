package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pagecart/bookstore-api/internal/apperr"
)

type Store interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) error
}

// CartCreator gives every new user their cart. Satisfied by cart.Service.
type CartCreator interface {
	CreateForUser(ctx context.Context, userID string) error
}

type Service struct {
	Store Store
	Carts CartCreator
}

type RegistrationInput struct {
	Email           string
	Password        string
	FirstName       string
	LastName        string
	ShippingAddress string
}

// Register creates the user with the default USER role and an empty shopping
// cart. The duplicate-email check races with the unique constraint; the
// constraint wins, the check just gives a friendlier error.
func (s *Service) Register(ctx context.Context, in RegistrationInput) (User, error) {
	exists, err := s.Store.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return User{}, err
	}
	if exists {
		return User{}, apperr.Validation("user with email "+in.Email+" already exists",
			apperr.FieldError{Field: "email", Message: "already registered"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:              uuid.NewString(),
		Email:           in.Email,
		PasswordHash:    string(hash),
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		ShippingAddress: in.ShippingAddress,
		Roles:           []string{RoleUser},
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Store.Create(ctx, u); err != nil {
		return User{}, err
	}
	if err := s.Carts.CreateForUser(ctx, u.ID); err != nil {
		return User{}, err
	}
	return u, nil
}

// Authenticate verifies credentials and returns the stored user. Wrong email
// and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.Store.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return User{}, apperr.Authorization("invalid email or password")
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, apperr.Authorization("invalid email or password")
	}
	return u, nil
}
