package usecase

import (
	"context"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/database"
	apperrors "github.com/allisson/cardvault/internal/errors"
	outboxDomain "github.com/allisson/cardvault/internal/outbox/domain"
	"github.com/allisson/cardvault/internal/user/domain"
	"github.com/allisson/cardvault/internal/user/service"
	appValidation "github.com/allisson/cardvault/internal/validation"
)

// UserUseCase handles user-related business logic
type UserUseCase struct {
	txManager       database.TxManager
	userRepo        UserRepository
	sessionRepo     SessionRepository
	outboxRepo      OutboxEventRepository
	passwordService service.PasswordService
	tokenService    service.TokenService
	tokenExpiration time.Duration
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	sessionRepo SessionRepository,
	outboxRepo OutboxEventRepository,
	passwordService service.PasswordService,
	tokenService service.TokenService,
	tokenExpiration time.Duration,
) UseCase {
	return &UserUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		outboxRepo:      outboxRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		tokenExpiration: tokenExpiration,
	}
}

func validateSignUpInput(input SignUpInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// SignUp registers a new user and writes a user.created event in the same transaction
func (uc *UserUseCase) SignUp(ctx context.Context, input SignUpInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validateSignUpInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      input.Name,
		Email:     input.Email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return err
		}

		event, err := outboxDomain.NewOutboxEvent(domain.EventUserCreated, domain.UserCreatedEvent{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
		})
		if err != nil {
			return err
		}

		if err := uc.outboxRepo.Create(ctx, event); err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// SignIn verifies credentials and issues a new session token. Unknown emails and wrong
// passwords both return ErrInvalidCredentials.
func (uc *UserUseCase) SignIn(ctx context.Context, input SignInInput) (*domain.SignInOutput, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if apperrors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !uc.passwordService.ComparePassword(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	plainToken, tokenHash, err := uc.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(uc.tokenExpiration),
		CreatedAt: now,
	}

	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &domain.SignInOutput{
		PlainToken: plainToken,
		ExpiresAt:  session.ExpiresAt,
	}, nil
}

// SignOut revokes the session identified by plainToken
func (uc *UserUseCase) SignOut(ctx context.Context, plainToken string) error {
	session, err := uc.sessionRepo.GetByTokenHash(ctx, uc.tokenService.HashToken(plainToken))
	if err != nil {
		return err
	}

	return uc.sessionRepo.Revoke(ctx, session.ID, time.Now().UTC())
}

// Authenticate resolves a bearer token to its user. The session must exist, not be revoked
// and not be expired.
func (uc *UserUseCase) Authenticate(ctx context.Context, plainToken string) (*domain.User, error) {
	session, err := uc.sessionRepo.GetByTokenHash(ctx, uc.tokenService.HashToken(plainToken))
	if err != nil {
		return nil, err
	}

	if !session.IsActive(time.Now().UTC()) {
		return nil, domain.ErrSessionInactive
	}

	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if apperrors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (uc *UserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}
