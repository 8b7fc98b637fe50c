// Package openf1 is the primary source adapter: it fetches a season's
// meeting schedule, session classifications and lap timing from the OpenF1
// HTTP API and maps them into the pipeline's transfer structures.
//
// The adapter is a pure read boundary. It never persists anything and the
// same inputs yield the same outputs, modulo upstream data revisions.
// Failures are classified into provider.ErrNotFound (HTTP 404 or empty data
// set for the key) and provider.ErrTransient (network errors, 429, 5xx);
// retry policy belongs to the caller.
package openf1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pitwall/f1-backend/internal/config"
	"github.com/pitwall/f1-backend/internal/domain"
	"github.com/pitwall/f1-backend/internal/provider"
)

// Provider fetches season and session data from the OpenF1 API.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider from configuration.
func NewProvider(cfg config.OpenF1Config, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "openf1"),
	}
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL string, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "openf1"),
	}
}

// FetchSeason returns the round/session structure of one season.
// Rounds are numbered by ascending meeting date; pre-season testing events
// are excluded. The API's circuit short name serves as the stable circuit
// ref (slugified), not as a display name, so circuits enter the store with
// a placeholder name for the backfill corrector to resolve.
//
// The synthesized numbers are position-based: if the API omits a meeting
// it listed earlier (a cancelled event dropped mid-season), every later
// round shifts down and no longer lines up with the reference source's
// official numbering. Downstream round-number lookups log the resolved
// record so a shift is visible in the audit trail.
func (p *Provider) FetchSeason(ctx context.Context, year int) (*provider.SeasonSchedule, error) {
	var meetings []apiMeeting
	if err := p.getJSON(ctx, "/meetings", url.Values{"year": {strconv.Itoa(year)}}, &meetings); err != nil {
		return nil, fmt.Errorf("fetch meetings for %d: %w", year, err)
	}
	if len(meetings) == 0 {
		return nil, fmt.Errorf("season %d: %w", year, provider.ErrNotFound)
	}

	var sessions []apiSession
	if err := p.getJSON(ctx, "/sessions", url.Values{"year": {strconv.Itoa(year)}}, &sessions); err != nil {
		return nil, fmt.Errorf("fetch sessions for %d: %w", year, err)
	}

	byMeeting := make(map[int][]apiSession)
	for _, s := range sessions {
		byMeeting[s.MeetingKey] = append(byMeeting[s.MeetingKey], s)
	}

	sort.Slice(meetings, func(i, j int) bool { return meetings[i].DateStart < meetings[j].DateStart })

	schedule := &provider.SeasonSchedule{Year: year}
	number := 0
	for _, m := range meetings {
		if strings.Contains(m.MeetingName, "Testing") {
			continue
		}
		number++

		country := m.CountryName
		location := m.Location
		round := provider.RoundSchedule{
			Number:     number,
			Name:       m.MeetingName,
			CircuitRef: slug(m.CircuitShortName),
			Date:       parseTime(m.DateStart),
		}
		if country != "" {
			round.Country = &country
		}
		if location != "" {
			round.Location = &location
		}
		round.Sessions = mapSessions(byMeeting[m.MeetingKey])

		schedule.Rounds = append(schedule.Rounds, round)
	}

	p.log.DebugContext(ctx, "season schedule fetched",
		slog.Int("year", year),
		slog.Int("rounds", len(schedule.Rounds)),
	)

	return schedule, nil
}

// FetchSession returns the full classification of one session: final result
// rows joined with driver identity, the starting grid, and per-lap timing.
func (p *Provider) FetchSession(ctx context.Context, ref provider.SessionRef) (*provider.SessionData, error) {
	key := url.Values{"session_key": {ref.Key}}

	var results []apiResult
	if err := p.getJSON(ctx, "/session_result", key, &results); err != nil {
		return nil, fmt.Errorf("fetch session %s result: %w", ref.Key, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("session %s: %w", ref.Key, provider.ErrNotFound)
	}

	var drivers []apiDriver
	if err := p.getJSON(ctx, "/drivers", key, &drivers); err != nil {
		return nil, fmt.Errorf("fetch session %s drivers: %w", ref.Key, err)
	}

	driverByNumber := make(map[int]apiDriver, len(drivers))
	for _, d := range drivers {
		driverByNumber[d.DriverNumber] = d
	}

	// The grid endpoint has no data for practice sessions; absence is fine.
	var grid []apiGridSlot
	if err := p.getJSON(ctx, "/starting_grid", key, &grid); err != nil && !errors.Is(err, provider.ErrNotFound) {
		return nil, fmt.Errorf("fetch session %s grid: %w", ref.Key, err)
	}
	gridByNumber := make(map[int]*int, len(grid))
	for _, g := range grid {
		gridByNumber[g.DriverNumber] = g.Position
	}

	var laps []apiLap
	if err := p.getJSON(ctx, "/laps", key, &laps); err != nil && !errors.Is(err, provider.ErrNotFound) {
		return nil, fmt.Errorf("fetch session %s laps: %w", ref.Key, err)
	}

	data := &provider.SessionData{}
	skipped := 0
	for _, r := range results {
		d, ok := driverByNumber[r.DriverNumber]
		if !ok || d.NameAcronym == "" || d.FullName == "" || d.TeamName == "" {
			// Incomplete identity rows cannot be keyed; drop them rather
			// than invent a natural key.
			skipped++
			continue
		}

		row := provider.ResultRow{
			DriverCode: d.NameAcronym,
			DriverName: d.FullName,
			TeamName:   d.TeamName,
			Position:   r.Position,
			Grid:       gridByNumber[r.DriverNumber],
			Status:     r.status(),
			TimeMS:     r.timeMS(),
			Points:     r.Points,
		}
		if d.CountryCode != "" {
			cc := d.CountryCode
			row.Nationality = &cc
		}
		data.Results = append(data.Results, row)
	}

	for _, l := range laps {
		d, ok := driverByNumber[l.DriverNumber]
		if !ok || d.NameAcronym == "" {
			continue
		}
		lap := provider.LapRow{
			DriverCode: d.NameAcronym,
			Number:     l.LapNumber,
			Position:   l.Position,
		}
		if l.LapDuration != nil {
			ms := int64(*l.LapDuration * 1000)
			lap.TimeMS = &ms
		}
		data.Laps = append(data.Laps, lap)
	}

	if skipped > 0 {
		p.log.WarnContext(ctx, "dropped incomplete result rows",
			slog.String("session_key", ref.Key),
			slog.Int("skipped", skipped),
		)
	}

	return data, nil
}

// mapSessions converts the API session list into canonical typed refs.
// The schema stores one session per type per round, so multiple practice
// sessions collapse onto the earliest one.
func mapSessions(sessions []apiSession) []provider.SessionRef {
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].DateStart < sessions[j].DateStart })

	seen := make(map[domain.SessionType]bool, 4)
	var refs []provider.SessionRef
	for _, s := range sessions {
		typ, ok := mapSessionType(s.SessionName)
		if !ok || seen[typ] {
			continue
		}
		seen[typ] = true
		refs = append(refs, provider.SessionRef{
			Type:     typ,
			StartsAt: parseTime(s.DateStart),
			Key:      strconv.Itoa(s.SessionKey),
		})
	}
	return refs
}

// getJSON performs one GET and decodes the body, classifying failures.
func (p *Provider) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	reqURL := p.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
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

// slug normalizes a short name into the stable circuit ref shared with the
// secondary reference source ("Monte Carlo" -> "monte_carlo").
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}
