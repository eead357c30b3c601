package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"notification-service/internal/domain"
	"notification-service/pkg/xerrors"
)

type retryFixture struct {
	*sendFixture
	uc *RetryNotificationUsecase
}

func newRetryFixture() *retryFixture {
	sf := newSendFixture()
	return &retryFixture{
		sendFixture: sf,
		uc: NewRetryNotificationUsecase(
			sf.repo,
			sf.uc,
			domain.DefaultRetryPolicy(),
			zap.NewNop(),
		),
	}
}

// seedFailed stores a FAILED notification with the given retry count.
func (f *retryFixture) seedFailed(t *testing.T, retryCount int) *domain.Notification {
	t.Helper()
	n, _ := domain.NewNotification(smsNotification())
	n.Status = domain.StatusFailed
	n.ErrorMessage = "gateway timeout"
	n.RetryCount = retryCount
	_, err := f.repo.Create(context.Background(), n)
	require.NoError(t, err)
	return n
}

func TestRetryNotFound(t *testing.T) {
	f := newRetryFixture()

	_, err := f.uc.Retry(context.Background(), "missing-id")
	assert.ErrorIs(t, err, xerrors.ErrNotificationNotFound)
}

func TestRetrySuccess(t *testing.T) {
	f := newRetryFixture()
	seeded := f.seedFailed(t, 1)

	n, err := f.uc.Retry(context.Background(), seeded.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSent, n.Status)
	assert.Equal(t, 2, n.RetryCount)
	assert.Equal(t, 1, f.sms.calls)
	assert.Equal(t, "gateway timeout", n.ErrorMessage, "prior failure reason is kept for audit")
}

func TestRetryFailsAgain(t *testing.T) {
	f := newRetryFixture()
	f.sms.err = assert.AnError
	seeded := f.seedFailed(t, 0)

	n, err := f.uc.Retry(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, n.Status)
	assert.Equal(t, 1, n.RetryCount)
}

func TestRetryExhausted(t *testing.T) {
	f := newRetryFixture()
	seeded := f.seedFailed(t, 3) // NORMAL budget is 3

	_, err := f.uc.Retry(context.Background(), seeded.ID)
	assert.ErrorIs(t, err, xerrors.ErrRetryExhausted)
	assert.Equal(t, 0, f.sms.calls)
}

func TestRetryBudgetScalesWithPriority(t *testing.T) {
	f := newRetryFixture()
	seeded := f.seedFailed(t, 3)

	// the same count that exhausts NORMAL still has budget at URGENT
	seeded.Priority = domain.PriorityUrgent
	_, err := f.repo.Save(context.Background(), seeded)
	require.NoError(t, err)

	n, err := f.uc.Retry(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, n.RetryCount)
	assert.Equal(t, domain.StatusSent, n.Status)
}

func TestRetryNonFailedIsNoOp(t *testing.T) {
	for _, status := range []domain.Status{
		domain.StatusPending,
		domain.StatusSent,
		domain.StatusDelivered,
		domain.StatusRead,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newRetryFixture()
			n, _ := domain.NewNotification(smsNotification())
			n.Status = status
			_, err := f.repo.Create(context.Background(), n)
			require.NoError(t, err)

			got, err := f.uc.Retry(context.Background(), n.ID)
			require.NoError(t, err)
			assert.Equal(t, status, got.Status)
			assert.Equal(t, 0, got.RetryCount)
			assert.Equal(t, 0, f.sms.calls, "no delivery attempt on a no-op retry")
		})
	}
}
