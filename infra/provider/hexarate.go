// Package provider implements the collaborator contracts of
// pkg/provider against real infrastructure.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"

	"github.com/budgetd/budgetd/pkg/config"
)

// HexarateConverter fetches mid-rates from hexarate.paikama.co and
// converts amounts with floor truncation. One blocking call per
// conversion; no caching, no retries.
type HexarateConverter struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// hexarateResponse is the wire shape of a rate lookup.
type hexarateResponse struct {
	StatusCode int `json:"status_code"`
	Data       struct {
		Base   string  `json:"base"`
		Target string  `json:"target"`
		Mid    float64 `json:"mid"`
	} `json:"data"`
}

// NewHexarateConverter creates a converter against the configured API.
func NewHexarateConverter(cfg *config.CurrencyAPI, logger *slog.Logger) *HexarateConverter {
	return &HexarateConverter{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger,
	}
}

// Convert returns amount unchanged when from equals to; otherwise it
// fetches the mid-rate and returns floor(rate * amount). Fractional
// minor units lost to the floor are accepted.
func (c *HexarateConverter) Convert(ctx context.Context, from, to string, amount int64) (int64, error) {
	if from == to {
		return amount, nil
	}
	rate, err := c.getRate(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return int64(math.Floor(rate * float64(amount))), nil
}

func (c *HexarateConverter) getRate(ctx context.Context, from, to string) (float64, error) {
	url := fmt.Sprintf("%s/%s?target=%s", c.baseURL, from, to)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch rate %s->%s: %w", from, to, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("rate provider returned non-success status",
			"from", from, "to", to, "status", resp.StatusCode)
		return 0, fmt.Errorf("rate provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed hexarateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode rate response: %w", err)
	}
	return parsed.Data.Mid, nil
}
