package currency

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// redisRate is the JSON value stored per currency code in the rates hash.
type redisRate struct {
	Name   string          `json:"name"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}

// LoadRedisRates reads a rate table from the Redis hash at key. Each field is
// a currency code and each value a JSON object like
// {"name":"Euro","symbol":"€","rate":"1.08"}.
// The table is read once; the returned StaticRates never changes.
func LoadRedisRates(ctx context.Context, client *redis.Client, key string) (StaticRates, error) {
	fields, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read rates from redis: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("rates hash %q is empty", key)
	}
	return parseRateHash(fields)
}

func parseRateHash(fields map[string]string) (StaticRates, error) {
	rates := make(StaticRates, len(fields))
	for field, raw := range fields {
		code := NormalizeCode(field)
		var r redisRate
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("invalid rate for %s: %w", code, err)
		}
		if !r.Rate.IsPositive() {
			return nil, fmt.Errorf("invalid rate for %s: must be positive", code)
		}
		name := r.Name
		if name == "" {
			name = code
		}
		rates[code] = Rate{
			Code:            code,
			DisplayName:     name,
			Symbol:          r.Symbol,
			RateToReference: r.Rate,
		}
	}
	return rates, nil
}
