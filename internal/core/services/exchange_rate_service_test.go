package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/expenza/expense_flow_app/internal/apperrors"
	"github.com/expenza/expense_flow_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeRateService_ConvertSameCurrency(t *testing.T) {
	provider := new(MockRateProvider)
	service := services.NewExchangeRateService(provider, time.Hour)

	amount := decimal.NewFromFloat(42.5)
	got, err := service.Convert(context.Background(), amount, "USD", "USD")

	require.NoError(t, err)
	assert.True(t, got.Equal(amount))
	provider.AssertNotCalled(t, "FetchRates")
}

func TestExchangeRateService_ConvertUsesFetchedRate(t *testing.T) {
	ctx := context.Background()
	provider := new(MockRateProvider)
	provider.On("FetchRates", ctx, "USD").Return(map[string]decimal.Decimal{
		"EUR": decimal.NewFromFloat(0.9),
	}, nil).Once()
	service := services.NewExchangeRateService(provider, time.Hour)

	got, err := service.Convert(ctx, decimal.NewFromInt(100), "USD", "EUR")

	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(90)))
	provider.AssertExpectations(t)
}

func TestExchangeRateService_MissingRateIsNotFound(t *testing.T) {
	ctx := context.Background()
	provider := new(MockRateProvider)
	provider.On("FetchRates", ctx, "USD").Return(map[string]decimal.Decimal{
		"EUR": decimal.NewFromFloat(0.9),
	}, nil).Once()
	service := services.NewExchangeRateService(provider, time.Hour)

	_, err := service.Convert(ctx, decimal.NewFromInt(100), "USD", "XXX")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExchangeRateService_CachesWithinTTL(t *testing.T) {
	ctx := context.Background()
	provider := new(MockRateProvider)
	// A single upstream fetch must serve every lookup inside the window.
	provider.On("FetchRates", ctx, "USD").Return(map[string]decimal.Decimal{
		"EUR": decimal.NewFromFloat(0.9),
	}, nil).Once()
	service := services.NewExchangeRateService(provider, time.Hour)

	for i := 0; i < 5; i++ {
		_, err := service.GetRates(ctx, "USD")
		require.NoError(t, err)
	}
	provider.AssertExpectations(t)
}

func TestExchangeRateService_RefetchesAfterTTL(t *testing.T) {
	ctx := context.Background()
	provider := new(MockRateProvider)
	provider.On("FetchRates", ctx, "USD").Return(map[string]decimal.Decimal{
		"EUR": decimal.NewFromFloat(0.9),
	}, nil).Twice()
	service := services.NewExchangeRateService(provider, time.Millisecond)

	_, err := service.GetRates(ctx, "USD")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = service.GetRates(ctx, "USD")
	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestExchangeRateService_FallbackOnProviderFailure(t *testing.T) {
	ctx := context.Background()
	provider := new(MockRateProvider)
	provider.On("FetchRates", ctx, "USD").Return(nil, assert.AnError).Once()
	service := services.NewExchangeRateService(provider, time.Hour)

	got, err := service.Convert(ctx, decimal.NewFromInt(100), "USD", "EUR")

	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(85)))

	// The fallback table is cached too, so the failed provider is not
	// hammered within the window.
	_, err = service.GetRates(ctx, "USD")
	require.NoError(t, err)
	provider.AssertExpectations(t)
}
