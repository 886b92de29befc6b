package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	fxRatesKey   = "fx:rates"
	fxUpdatedKey = "fx:updated"
)

// FXService keeps a USD-pivot rate table in Redis and converts amounts
// between currencies. Rates are refreshed once a day by the worker; when a
// refresh fails the previously cached table keeps serving (last known good).
// Conversion degrades to the input amount whenever a rate is missing.
type FXService struct {
	cache  *redis.Client
	client *http.Client
	url    string
	log    zerolog.Logger
}

func NewFXService(cache *redis.Client, client *http.Client, url string, log zerolog.Logger) *FXService {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &FXService{
		cache:  cache,
		client: client,
		url:    url,
		log:    log,
	}
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Refresh fetches the current table and replaces the cached one. The cached
// table is only overwritten on success.
func (s *FXService) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("build rates request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch rates: status %d", resp.StatusCode)
	}

	var parsed ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode rates: %w", err)
	}
	if len(parsed.Rates) == 0 {
		return fmt.Errorf("rates response carried no rates")
	}

	payload, err := json.Marshal(parsed.Rates)
	if err != nil {
		return fmt.Errorf("encode rates: %w", err)
	}

	// No TTL: a stale table beats no table when the provider is down.
	if err := s.cache.Set(ctx, fxRatesKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("cache rates: %w", err)
	}
	if err := s.cache.Set(ctx, fxUpdatedKey, time.Now().Format(time.RFC3339), 0).Err(); err != nil {
		s.log.Warn().Err(err).Msg("store rates timestamp failed")
	}

	s.log.Info().Int("rates", len(parsed.Rates)).Msg("exchange rates updated")
	return nil
}

// Rates returns the cached table, which may be empty if no refresh ever
// succeeded.
func (s *FXService) Rates(ctx context.Context) (map[string]float64, error) {
	payload, err := s.cache.Get(ctx, fxRatesKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}

	var rates map[string]float64
	if err := json.Unmarshal(payload, &rates); err != nil {
		return nil, fmt.Errorf("decode cached rates: %w", err)
	}
	return rates, nil
}

// LastUpdated returns when the table was last refreshed, zero if never.
func (s *FXService) LastUpdated(ctx context.Context) time.Time {
	raw, err := s.cache.Get(ctx, fxUpdatedKey).Result()
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Convert pivots through USD. Missing rates fall back to the unconverted
// amount rather than failing.
func (s *FXService) Convert(ctx context.Context, amount float64, from string, to string) float64 {
	if from == to {
		return amount
	}

	rates, err := s.Rates(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("rates unavailable, returning raw amount")
		return amount
	}

	return ConvertWithRates(rates, amount, from, to)
}

// ConvertWithRates is the pure conversion used by Convert and by tests.
func ConvertWithRates(rates map[string]float64, amount float64, from string, to string) float64 {
	if from == to {
		return amount
	}

	usdAmount := amount
	if from != "USD" {
		rate, ok := rates[from]
		if !ok || rate == 0 {
			return amount
		}
		usdAmount = amount / rate
	}

	if to == "USD" {
		return usdAmount
	}

	rate, ok := rates[to]
	if !ok {
		return amount
	}
	return usdAmount * rate
}
