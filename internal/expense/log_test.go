package expense

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zincstore/zincstore/internal/domain"
	"github.com/zincstore/zincstore/internal/repository"
	"github.com/zincstore/zincstore/internal/testutil"
)

func setupLog(t *testing.T, now *time.Time) *Log {
	t.Helper()
	repo := repository.NewGormExpenseRepository(testutil.OpenDB(t))
	return NewLog(repo, nil).WithClock(func() time.Time { return *now })
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 8, 15, 0, 0, time.Local)
	l := setupLog(t, &now)

	id, err := l.Record(ctx, " Rent ", decimal.RequireFromString("300.00"))
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := l.Today(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rent", got[0].Description)
	assert.Equal(t, "2024-05-01 08:15:00", got[0].ExpenseDate)
	assert.Equal(t, "300.00", got[0].Amount.StringFixed(2))
}

func TestRecord_Validation(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	l := setupLog(t, &now)

	_, err := l.Record(ctx, "", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = l.Record(ctx, "Rent", decimal.Zero)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = l.Record(ctx, "Rent", decimal.RequireFromString("-1"))
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = l.Record(ctx, "Rent", decimal.RequireFromString("1.005"))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "amount", verr.Field)

	// trailing zeros are not extra precision
	_, err = l.Record(ctx, "Paper", decimal.RequireFromString("2.500"))
	require.NoError(t, err)

	all, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2.50", all[0].Amount.StringFixed(2))
}

func TestTodayAndSearch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	l := setupLog(t, &now)

	_, err := l.Record(ctx, "Rent", decimal.RequireFromString("300"))
	require.NoError(t, err)
	now = now.AddDate(0, 0, 1)
	_, err = l.Record(ctx, "Electricity", decimal.RequireFromString("42.10"))
	require.NoError(t, err)

	today, err := l.Today(ctx, now)
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "Electricity", today[0].Description)

	found, err := l.Search(ctx, "rEnT")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Rent", found[0].Description)
}
