package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/cardvault/internal/metrics"
	"github.com/allisson/cardvault/internal/user/domain"
)

const metricsDomain = "user"

// useCaseWithMetrics decorates UseCase with metrics instrumentation.
type useCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &useCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *useCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, u.metrics, metricsDomain, operation, start, err)
}

// SignUp records metrics for sign-up operations.
func (u *useCaseWithMetrics) SignUp(ctx context.Context, input SignUpInput) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.SignUp(ctx, input)
	u.record(ctx, "sign_up", start, err)
	return user, err
}

// SignIn records metrics for sign-in operations.
func (u *useCaseWithMetrics) SignIn(ctx context.Context, input SignInInput) (*domain.SignInOutput, error) {
	start := time.Now()
	output, err := u.next.SignIn(ctx, input)
	u.record(ctx, "sign_in", start, err)
	return output, err
}

// SignOut records metrics for sign-out operations.
func (u *useCaseWithMetrics) SignOut(ctx context.Context, plainToken string) error {
	start := time.Now()
	err := u.next.SignOut(ctx, plainToken)
	u.record(ctx, "sign_out", start, err)
	return err
}

// Authenticate records metrics for token authentication.
func (u *useCaseWithMetrics) Authenticate(ctx context.Context, plainToken string) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.Authenticate(ctx, plainToken)
	u.record(ctx, "authenticate", start, err)
	return user, err
}

// GetUserByID is not instrumented; it is a plain lookup.
func (u *useCaseWithMetrics) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.next.GetUserByID(ctx, id)
}
