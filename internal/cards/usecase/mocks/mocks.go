// Package mocks provides testify mocks for the card use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/cardvault/internal/cards/domain"
	"github.com/allisson/cardvault/internal/cards/usecase"
)

// MockUseCase is a mock implementation of usecase.UseCase.
type MockUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockUseCase) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input usecase.CardInput,
) (*domain.StoredCard, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredCard), args.Error(1)
}

// Update mocks the Update method.
func (m *MockUseCase) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	input usecase.CardInput,
) (*domain.StoredCard, error) {
	args := m.Called(ctx, ownerID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredCard), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockUseCase) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// Reveal mocks the Reveal method.
func (m *MockUseCase) Reveal(ctx context.Context, ownerID, id uuid.UUID) (*domain.RevealedCard, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevealedCard), args.Error(1)
}

// List mocks the List method.
func (m *MockUseCase) List(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.StoredCard, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StoredCard), args.Error(1)
}

// RevealAll mocks the RevealAll method.
func (m *MockUseCase) RevealAll(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*domain.RevealedCard, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RevealedCard), args.Error(1)
}

// Watch mocks the Watch method.
func (m *MockUseCase) Watch(
	ctx context.Context,
	ownerID uuid.UUID,
	limit int,
) (<-chan []*domain.StoredCard, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan []*domain.StoredCard), args.Error(1)
}

// Verify mocks the Verify method.
func (m *MockUseCase) Verify(ctx context.Context, batchSize int) (*usecase.VerifyReport, error) {
	args := m.Called(ctx, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.VerifyReport), args.Error(1)
}
