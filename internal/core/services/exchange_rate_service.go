package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/expenza/expense_flow_app/internal/apperrors"
	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// RateProvider fetches a rate table for a base currency.
type RateProvider interface {
	FetchRates(ctx context.Context, baseCurrency string) (map[string]decimal.Decimal, error)
}

// HTTPRateProvider fetches rates from an exchange-rate API that serves
// `GET <baseURL>/<currency>` returning `{"rates": {"EUR": 0.85, ...}}`.
type HTTPRateProvider struct {
	BaseURL string
	Client  *http.Client
}

var _ RateProvider = (*HTTPRateProvider)(nil)

func (p *HTTPRateProvider) FetchRates(ctx context.Context, baseCurrency string) (map[string]decimal.Decimal, error) {
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", p.BaseURL, baseCurrency), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates for %s: %w", baseCurrency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("rates endpoint returned status %d for %s", resp.StatusCode, baseCurrency)
	}

	var payload struct {
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("rates endpoint returned no rates for %s", baseCurrency)
	}
	return payload.Rates, nil
}

type cachedRates struct {
	rates     map[string]decimal.Decimal
	fetchedAt time.Time
}

// exchangeRateService implements ExchangeRateSvcFacade with a per-base-currency
// cache. Within one TTL window at most one upstream fetch happens per base
// currency; when the provider fails, a static fallback table keeps conversion
// working.
type exchangeRateService struct {
	BaseService
	provider RateProvider
	ttl      time.Duration

	mu    sync.Mutex
	cache map[string]cachedRates
	now   func() time.Time
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(provider RateProvider, ttl time.Duration) portssvc.ExchangeRateSvcFacade {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &exchangeRateService{
		provider: provider,
		ttl:      ttl,
		cache:    make(map[string]cachedRates),
		now:      time.Now,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	if fromCurrency == toCurrency {
		return amount, nil
	}

	rates, err := s.GetRates(ctx, fromCurrency)
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := rates[toCurrency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no exchange rate from %s to %s", apperrors.ErrNotFound, fromCurrency, toCurrency)
	}
	return amount.Mul(rate), nil
}

func (s *exchangeRateService) GetRates(ctx context.Context, baseCurrency string) (map[string]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.cache[baseCurrency]; ok && s.now().Sub(entry.fetchedAt) < s.ttl {
		return entry.rates, nil
	}

	rates, err := s.provider.FetchRates(ctx, baseCurrency)
	if err != nil {
		s.LogWarn(ctx, "falling back to static exchange rates", "baseCurrency", baseCurrency, "error", err)
		rates = fallbackRates(baseCurrency)
	}
	// Failed fetches cache the fallback table too, so one bad upstream
	// window does not turn into a fetch per conversion.
	s.cache[baseCurrency] = cachedRates{rates: rates, fetchedAt: s.now()}
	return rates, nil
}

// fallbackRates returns a static rate table used when the upstream API is
// unavailable. Unknown base currencies fall back to the USD table.
func fallbackRates(baseCurrency string) map[string]decimal.Decimal {
	tables := map[string]map[string]string{
		"USD": {"USD": "1", "EUR": "0.85", "GBP": "0.73", "INR": "83.12", "JPY": "110.0", "CAD": "1.25", "AUD": "1.35"},
		"EUR": {"USD": "1.18", "EUR": "1", "GBP": "0.86", "INR": "97.8", "JPY": "129.5", "CAD": "1.47", "AUD": "1.59"},
		"GBP": {"USD": "1.37", "EUR": "1.16", "GBP": "1", "INR": "113.8", "JPY": "150.7", "CAD": "1.71", "AUD": "1.85"},
		"INR": {"USD": "0.012", "EUR": "0.010", "GBP": "0.0088", "INR": "1", "JPY": "1.32", "CAD": "0.015", "AUD": "0.016"},
	}
	table, ok := tables[baseCurrency]
	if !ok {
		table = tables["USD"]
	}
	rates := make(map[string]decimal.Decimal, len(table))
	for currency, rate := range table {
		rates[currency] = decimal.RequireFromString(rate)
	}
	return rates
}
