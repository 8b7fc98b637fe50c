// Package jolpica is the secondary reference source adapter. It serves
// canonical circuit records from an Ergast-style API (the Jolpica mirror),
// keyed by season and round number, and is consulted only by the backfill
// corrector. Like the primary adapter it is a pure read boundary with the
// same failure taxonomy: provider.ErrNotFound for missing data,
// provider.ErrTransient for retryable network/server failures.
package jolpica

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pitwall/f1-backend/internal/config"
	"github.com/pitwall/f1-backend/internal/provider"
)

// Provider fetches canonical circuit records from an Ergast-style API.
// The season schedule is fetched once per year and cached for the lifetime
// of the Provider, so a whole backfill pass costs one upstream request.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger

	mu    sync.Mutex
	cache map[int]map[int]provider.CircuitInfo
}

// NewProvider creates a Provider from configuration.
func NewProvider(cfg config.JolpicaConfig, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "jolpica"),
		cache:      make(map[int]map[int]provider.CircuitInfo),
	}
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL string, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "jolpica"),
		cache:      make(map[int]map[int]provider.CircuitInfo),
	}
}

// FetchCircuit returns the canonical circuit record for one round of a
// season. Rounds the reference source does not know (future or cancelled
// events) yield provider.ErrNotFound.
func (p *Provider) FetchCircuit(ctx context.Context, year, round int) (*provider.CircuitInfo, error) {
	table, err := p.seasonTable(ctx, year)
	if err != nil {
		return nil, err
	}

	info, ok := table[round]
	if !ok {
		return nil, fmt.Errorf("circuit for %d round %d: %w", year, round, provider.ErrNotFound)
	}

	return &info, nil
}

// seasonTable returns the round -> circuit mapping for one year, fetching
// and caching it on first use. Only successful fetches are cached.
func (p *Provider) seasonTable(ctx context.Context, year int) (map[int]provider.CircuitInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if table, ok := p.cache[year]; ok {
		return table, nil
	}

	var resp apiResponse
	if err := p.getJSON(ctx, "/"+strconv.Itoa(year)+".json?limit=100", &resp); err != nil {
		return nil, fmt.Errorf("fetch schedule for %d: %w", year, err)
	}

	races := resp.MRData.RaceTable.Races
	if len(races) == 0 {
		return nil, fmt.Errorf("schedule for %d: %w", year, provider.ErrNotFound)
	}

	table := make(map[int]provider.CircuitInfo, len(races))
	for _, r := range races {
		round, err := strconv.Atoi(r.Round)
		if err != nil || r.Circuit.CircuitName == "" {
			continue
		}

		info := provider.CircuitInfo{
			Ref:  r.Circuit.CircuitID,
			Name: r.Circuit.CircuitName,
		}
		if r.Circuit.Location.Country != "" {
			country := r.Circuit.Location.Country
			info.Country = &country
		}
		if r.Circuit.Location.Locality != "" {
			locality := r.Circuit.Location.Locality
			info.Locality = &locality
		}
		table[round] = info
	}

	p.cache[year] = table
	p.log.DebugContext(ctx, "season schedule cached",
		slog.Int("year", year),
		slog.Int("rounds", len(table)),
	)

	return table, nil
}

func (p *Provider) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", provider.ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return provider.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", provider.ErrTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", provider.ErrTransient, err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	return nil
}
