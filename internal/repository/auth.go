package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"crmbackend/internal/apperr"
	"crmbackend/internal/models"
	"crmbackend/internal/password"
	"crmbackend/internal/token"
)

type AuthRepository struct {
	db     *gorm.DB
	hasher password.Hasher
	issuer token.Issuer
	log    zerolog.Logger
}

func NewAuthRepository(db *gorm.DB, hasher password.Hasher, issuer token.Issuer, log zerolog.Logger) *AuthRepository {
	return &AuthRepository{db: db, hasher: hasher, issuer: issuer, log: log}
}

type LoginParams struct {
	Email    string
	Password string
}

type LoginResult struct {
	Customer models.Customer
	Tokens   token.Pair
}

// Login authenticates an active customer by email and password. Missing
// account and wrong password share one generic failure so the endpoint
// cannot be used to enumerate accounts.
func (r *AuthRepository) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("email = ?", params.Email).
		Where("deleted_at IS NULL").
		Take(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.BadRequest("Login information is incorrect")
	}
	if err != nil {
		return nil, err
	}

	if !r.hasher.Compare(params.Password, customer.Password) {
		return nil, apperr.BadRequest("Login information is incorrect")
	}

	pair, err := r.issuer.Issue(token.Claims{
		UserID:     customer.ID,
		Email:      customer.Email,
		PositionID: customer.PositionID,
	})
	if err != nil {
		return nil, err
	}

	r.log.Info().Int64("id", customer.ID).Msg("login succeeded")
	return &LoginResult{Customer: customer, Tokens: pair}, nil
}
