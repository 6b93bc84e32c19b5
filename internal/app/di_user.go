package app

import (
	"fmt"
	"sync"

	"github.com/allisson/cardvault/internal/database"
	userHTTP "github.com/allisson/cardvault/internal/user/http"
	userRepository "github.com/allisson/cardvault/internal/user/repository"
	userService "github.com/allisson/cardvault/internal/user/service"
	userUseCase "github.com/allisson/cardvault/internal/user/usecase"
)

type userComponents struct {
	userRepo    userUseCase.UserRepository
	sessionRepo userUseCase.SessionRepository
	useCase     userUseCase.UseCase

	userRepoInit    sync.Once
	sessionRepoInit sync.Once
	useCaseInit     sync.Once
}

// UserRepository returns the user repository for the configured driver.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	err := c.resolve("userRepo", &c.user.userRepoInit, func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for user repository: %w", err)
		}

		switch c.config.DBDriver {
		case database.DriverMySQL:
			c.user.userRepo = userRepository.NewMySQLUserRepository(db)
		case database.DriverPostgres:
			c.user.userRepo = userRepository.NewPostgreSQLUserRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.user.userRepo, nil
}

// SessionRepository returns the session repository for the configured driver.
func (c *Container) SessionRepository() (userUseCase.SessionRepository, error) {
	err := c.resolve("sessionRepo", &c.user.sessionRepoInit, func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for session repository: %w", err)
		}

		switch c.config.DBDriver {
		case database.DriverMySQL:
			c.user.sessionRepo = userRepository.NewMySQLSessionRepository(db)
		case database.DriverPostgres:
			c.user.sessionRepo = userRepository.NewPostgreSQLSessionRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.user.sessionRepo, nil
}

// UserUseCase returns the sign-up, sign-in and session use case wrapped with metrics.
func (c *Container) UserUseCase() (userUseCase.UseCase, error) {
	err := c.resolve("userUseCase", &c.user.useCaseInit, func() error {
		txManager, err := c.TxManager()
		if err != nil {
			return fmt.Errorf("failed to get tx manager for user use case: %w", err)
		}

		userRepo, err := c.UserRepository()
		if err != nil {
			return err
		}

		sessionRepo, err := c.SessionRepository()
		if err != nil {
			return err
		}

		outboxRepo, err := c.OutboxRepository()
		if err != nil {
			return err
		}

		passwordService, err := userService.NewPasswordService()
		if err != nil {
			return fmt.Errorf("failed to create password service: %w", err)
		}

		bm, err := c.BusinessMetrics()
		if err != nil {
			return err
		}

		useCase := userUseCase.NewUserUseCase(
			txManager,
			userRepo,
			sessionRepo,
			outboxRepo,
			passwordService,
			userService.NewTokenService(),
			c.config.AuthTokenExpiration,
		)
		c.user.useCase = userUseCase.NewUseCaseWithMetrics(useCase, bm)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.user.useCase, nil
}

// AuthHandler returns the HTTP handler for the auth endpoints.
func (c *Container) AuthHandler(useCase userUseCase.UseCase) *userHTTP.AuthHandler {
	return userHTTP.NewAuthHandler(useCase, c.Logger())
}
