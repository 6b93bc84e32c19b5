package app

import (
	"context"
	"fmt"
	"sync"

	cardsHTTP "github.com/allisson/cardvault/internal/cards/http"
	cardsRepository "github.com/allisson/cardvault/internal/cards/repository"
	cardsUseCase "github.com/allisson/cardvault/internal/cards/usecase"
	"github.com/allisson/cardvault/internal/database"
)

type cardComponents struct {
	repo    cardsUseCase.CardRepository
	useCase cardsUseCase.UseCase
	handler *cardsHTTP.CardHandler

	repoInit    sync.Once
	useCaseInit sync.Once
	handlerInit sync.Once
}

// CardRepository returns the card repository for the configured driver.
func (c *Container) CardRepository() (cardsUseCase.CardRepository, error) {
	err := c.resolve("cardRepo", &c.cards.repoInit, func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for card repository: %w", err)
		}

		switch c.config.DBDriver {
		case database.DriverMySQL:
			c.cards.repo = cardsRepository.NewMySQLCardRepository(db)
		case database.DriverPostgres:
			c.cards.repo = cardsRepository.NewPostgreSQLCardRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.cards.repo, nil
}

// CardUseCase returns the card vault use case wrapped with metrics.
func (c *Container) CardUseCase(ctx context.Context) (cardsUseCase.UseCase, error) {
	err := c.resolve("cardUseCase", &c.cards.useCaseInit, func() error {
		sealer, err := c.CardSealer(ctx)
		if err != nil {
			return err
		}

		txManager, err := c.TxManager()
		if err != nil {
			return fmt.Errorf("failed to get tx manager for card use case: %w", err)
		}

		cardRepo, err := c.CardRepository()
		if err != nil {
			return err
		}

		outboxRepo, err := c.OutboxRepository()
		if err != nil {
			return err
		}

		bm, err := c.BusinessMetrics()
		if err != nil {
			return err
		}

		useCase := cardsUseCase.NewCardUseCase(txManager, cardRepo, outboxRepo, sealer, c.Broker(), c.Logger())
		c.cards.useCase = cardsUseCase.NewUseCaseWithMetrics(useCase, bm)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.cards.useCase, nil
}

// CardHandler returns the HTTP handler for the card endpoints.
func (c *Container) CardHandler(ctx context.Context) (*cardsHTTP.CardHandler, error) {
	err := c.resolve("cardHandler", &c.cards.handlerInit, func() error {
		useCase, err := c.CardUseCase(ctx)
		if err != nil {
			return err
		}
		c.cards.handler = cardsHTTP.NewCardHandler(useCase, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.cards.handler, nil
}
