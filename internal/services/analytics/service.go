package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mlisovenko/vitrina/backend/internal/domain/enums"
	"github.com/mlisovenko/vitrina/backend/internal/domain/rules"
	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

// Window selects how far back the dashboard reads the event log. Today is
// anchored at local midnight; the others are trailing wall-clock windows.
type Window string

const (
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

func ParseWindow(raw string) (Window, bool) {
	switch Window(strings.ToLower(strings.TrimSpace(raw))) {
	case WindowToday:
		return WindowToday, true
	case WindowWeek:
		return WindowWeek, true
	case WindowMonth:
		return WindowMonth, true
	case WindowAll, Window(""):
		return WindowAll, true
	}
	return "", false
}

type EventReader interface {
	ListViews(ctx context.Context, since time.Time) ([]pgrepo.ViewEventRow, error)
	ListInteractions(ctx context.Context, since time.Time) ([]pgrepo.InteractionEventRow, error)
	ListInteractionsForProfile(ctx context.Context, profileID int64) ([]pgrepo.InteractionEventRow, error)
}

type RosterReader interface {
	ListRoster(ctx context.Context) ([]pgrepo.RosterRow, error)
}

type KindShare struct {
	Kind    string  `json:"kind"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

type ProfileRollup struct {
	ProfileID    int64  `json:"profile_id"`
	DisplayName  string `json:"display_name"`
	Email        string `json:"email"`
	Views        int64  `json:"views"`
	Interactions int64  `json:"interactions"`
	IsPublic     bool   `json:"is_public"`
}

type Dashboard struct {
	Window         Window          `json:"window"`
	TotalViews     int64           `json:"total_views"`
	TotalClicks    int64           `json:"total_interactions"`
	TotalProfiles  int64           `json:"total_profiles"`
	PublicProfiles int64           `json:"public_profiles"`
	Breakdown      []KindShare     `json:"breakdown"`
	Profiles       []ProfileRollup `json:"profiles"`
	Top            []ProfileRollup `json:"top"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

type WindowCounts struct {
	Today int64 `json:"today"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
	All   int64 `json:"all"`
}

type Drilldown struct {
	ProfileID   int64                   `json:"profile_id"`
	ByKind      map[string]WindowCounts `json:"by_kind"`
	Totals      WindowCounts            `json:"totals"`
	GeneratedAt time.Time               `json:"generated_at"`
}

type Service struct {
	events EventReader
	roster RosterReader
	loc    *time.Location
	topN   int
	now    func() time.Time
}

func NewService(events EventReader, roster RosterReader, timezone string, topN int) (*Service, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load analytics timezone %q: %w", timezone, err)
	}
	if topN <= 0 {
		topN = 5
	}
	return &Service{
		events: events,
		roster: roster,
		loc:    loc,
		topN:   topN,
		now:    time.Now,
	}, nil
}

// Dashboard builds the admin overview from the event log and the roster.
// The rollup is one pass over each log with a map keyed by profile id.
func (s *Service) Dashboard(ctx context.Context, window Window) (Dashboard, error) {
	now := s.now().UTC()
	since := s.windowStart(window, now)

	views, err := s.events.ListViews(ctx, since)
	if err != nil {
		return Dashboard{}, err
	}
	interactions, err := s.events.ListInteractions(ctx, since)
	if err != nil {
		return Dashboard{}, err
	}
	roster, err := s.roster.ListRoster(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	viewsByProfile := make(map[int64]int64, len(roster))
	for _, v := range views {
		viewsByProfile[v.ProfileID]++
	}

	clicksByProfile := make(map[int64]int64, len(roster))
	byKind := map[string]int64{}
	for _, it := range interactions {
		clicksByProfile[it.ProfileID]++
		byKind[it.Kind]++
	}

	profiles := make([]ProfileRollup, 0, len(roster))
	var publicCount int64
	for _, row := range roster {
		status := rules.EvaluateTiers(rules.TierExpiries{Public: row.PublicExpiresAt}, now)
		if status.IsPublic {
			publicCount++
		}
		profiles = append(profiles, ProfileRollup{
			ProfileID:    row.ProfileID,
			DisplayName:  row.DisplayName,
			Email:        row.Email,
			Views:        viewsByProfile[row.ProfileID],
			Interactions: clicksByProfile[row.ProfileID],
			IsPublic:     status.IsPublic,
		})
	}

	return Dashboard{
		Window:         window,
		TotalViews:     int64(len(views)),
		TotalClicks:    int64(len(interactions)),
		TotalProfiles:  int64(len(roster)),
		PublicProfiles: publicCount,
		Breakdown:      breakdown(byKind, int64(len(interactions))),
		Profiles:       profiles,
		Top:            topByViews(profiles, s.topN),
		GeneratedAt:    now,
	}, nil
}

// Drilldown buckets one profile's interactions into four cumulative
// windows per kind. An event inside today also counts toward week, month
// and all-time.
func (s *Service) Drilldown(ctx context.Context, profileID int64) (Drilldown, error) {
	if profileID <= 0 {
		return Drilldown{}, ErrValidation
	}

	events, err := s.events.ListInteractionsForProfile(ctx, profileID)
	if err != nil {
		return Drilldown{}, err
	}

	now := s.now().UTC()
	midnight := s.localMidnight(now)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	byKind := map[string]WindowCounts{}
	var totals WindowCounts
	for _, ev := range events {
		if ev.OccurredAt.After(now) {
			continue
		}
		counts := byKind[ev.Kind]
		bump(&counts, &totals, ev.OccurredAt, midnight, weekAgo, monthAgo)
		byKind[ev.Kind] = counts
	}

	return Drilldown{
		ProfileID:   profileID,
		ByKind:      byKind,
		Totals:      totals,
		GeneratedAt: now,
	}, nil
}

// SearchRoster filters the per-profile rollup by a case-insensitive
// name or email substring.
func (s *Service) SearchRoster(ctx context.Context, term string, window Window) ([]ProfileRollup, error) {
	dash, err := s.Dashboard(ctx, window)
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return dash.Profiles, nil
	}

	out := make([]ProfileRollup, 0, len(dash.Profiles))
	for _, p := range dash.Profiles {
		if strings.Contains(strings.ToLower(p.DisplayName), term) ||
			strings.Contains(strings.ToLower(p.Email), term) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) windowStart(window Window, now time.Time) time.Time {
	switch window {
	case WindowToday:
		return s.localMidnight(now)
	case WindowWeek:
		return now.Add(-7 * 24 * time.Hour)
	case WindowMonth:
		return now.Add(-30 * 24 * time.Hour)
	default:
		return time.Time{}
	}
}

func (s *Service) localMidnight(now time.Time) time.Time {
	local := now.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc).UTC()
}

func bump(counts, totals *WindowCounts, at, midnight, weekAgo, monthAgo time.Time) {
	if !at.Before(midnight) {
		counts.Today++
		totals.Today++
	}
	if !at.Before(weekAgo) {
		counts.Week++
		totals.Week++
	}
	if !at.Before(monthAgo) {
		counts.Month++
		totals.Month++
	}
	counts.All++
	totals.All++
}

// breakdown lists every known kind even when its count is zero, so the
// dashboard rows never change shape between reads.
func breakdown(byKind map[string]int64, total int64) []KindShare {
	kinds := []enums.InteractionKind{
		enums.InteractionPhone,
		enums.InteractionWhatsApp,
		enums.InteractionViber,
		enums.InteractionSocial,
	}

	out := make([]KindShare, 0, len(kinds))
	for _, kind := range kinds {
		count := byKind[string(kind)]
		var percent float64
		if total > 0 {
			percent = math.Round(float64(count)/float64(total)*1000) / 10
		}
		out = append(out, KindShare{Kind: string(kind), Count: count, Percent: percent})
	}
	return out
}

func topByViews(profiles []ProfileRollup, n int) []ProfileRollup {
	top := make([]ProfileRollup, len(profiles))
	copy(top, profiles)

	sort.Slice(top, func(i, j int) bool {
		if top[i].Views != top[j].Views {
			return top[i].Views > top[j].Views
		}
		return top[i].ProfileID < top[j].ProfileID
	})

	if len(top) > n {
		top = top[:n]
	}
	return top
}
