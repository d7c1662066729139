package listing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mlisovenko/vitrina/backend/internal/domain/rules"
	pgrepo "github.com/mlisovenko/vitrina/backend/internal/repo/postgres"
)

type Repository interface {
	CountListed(ctx context.Context, q pgrepo.ListingQuery) (int64, error)
	ListProfiles(ctx context.Context, q pgrepo.ListingQuery) ([]pgrepo.ProfileRow, error)
}

type CityResolver interface {
	Resolve(term string) (string, bool)
}

// OrderingMode is the two-branch ordering policy: unfiltered browsing
// surfaces paid tiers first, any active filter collapses ordering to pure
// recency. Selected once per request, never re-derived downstream.
type OrderingMode int

const (
	OrderingUnfiltered OrderingMode = iota
	OrderingFiltered
)

type Filters struct {
	Search         string
	CityID         string
	District       string
	Gender         string
	Gold           bool
	Silver         bool
	Featured       bool
	VerifiedPhotos bool
	New            bool
	Online         bool
	Limit          int
	Offset         int
}

// Active reports whether any optional filter is set; the mandatory public
// gate does not count.
func (f Filters) Active() bool {
	return strings.TrimSpace(f.Search) != "" ||
		strings.TrimSpace(f.CityID) != "" ||
		strings.TrimSpace(f.District) != "" ||
		strings.TrimSpace(f.Gender) != "" ||
		f.Gold || f.Silver || f.Featured || f.VerifiedPhotos ||
		f.New || f.Online
}

func (f Filters) Mode() OrderingMode {
	if f.Active() {
		return OrderingFiltered
	}
	return OrderingUnfiltered
}

type Item struct {
	ID          int64            `json:"id"`
	DisplayName string           `json:"display_name"`
	About       string           `json:"about"`
	CityID      string           `json:"city_id"`
	City        string           `json:"city"`
	District    string           `json:"district"`
	Gender      string           `json:"gender"`
	PhotosCount int              `json:"photos_count"`
	Status      rules.TierStatus `json:"status"`
	Presence    rules.Presence   `json:"presence"`
	CreatedAt   time.Time        `json:"created_at"`
}

type Pagination struct {
	Total           int64 `json:"total"`
	Limit           int   `json:"limit"`
	Offset          int   `json:"offset"`
	CurrentPage     int   `json:"current_page"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

type Result struct {
	Items      []Item
	Pagination Pagination
	Filters    Filters
	Timestamp  time.Time
}

type Service struct {
	repo            Repository
	cities          CityResolver
	defaultPageSize int
	maxPageSize     int
	now             func() time.Time
}

func NewService(repo Repository, cities CityResolver, defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &Service{
		repo:            repo,
		cities:          cities,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		now:             time.Now,
	}
}

// List runs one count query and one page query, then annotates every row
// with freshly derived tier flags. Flags are evaluated here, at response
// time, because tiers expire by wall clock with nothing to clear them.
func (s *Service) List(ctx context.Context, filters Filters) (Result, error) {
	if s.repo == nil {
		return Result{}, fmt.Errorf("listing repository is nil")
	}

	filters = s.normalizeFilters(filters)
	now := s.now().UTC()
	query := s.buildQuery(filters, now)

	total, err := s.repo.CountListed(ctx, query)
	if err != nil {
		return Result{}, err
	}

	rows, err := s.repo.ListProfiles(ctx, query)
	if err != nil {
		return Result{}, err
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, Item{
			ID:          row.ID,
			DisplayName: row.DisplayName,
			About:       row.About,
			CityID:      row.CityID,
			City:        row.City,
			District:    row.District,
			Gender:      row.Gender,
			PhotosCount: row.PhotosCount,
			Status: rules.EvaluateTiers(rules.TierExpiries{
				Gold:           row.GoldExpiresAt,
				Silver:         row.SilverExpiresAt,
				Featured:       row.FeaturedExpiresAt,
				VerifiedPhotos: row.VerifiedPhotosExpiresAt,
				Public:         row.PublicExpiresAt,
			}, now),
			Presence:  rules.ComputePresence(row.LastActiveAt, now),
			CreatedAt: row.CreatedAt,
		})
	}

	return Result{
		Items:      items,
		Pagination: paginate(total, filters.Limit, filters.Offset),
		Filters:    filters,
		Timestamp:  now,
	}, nil
}

func (s *Service) buildQuery(filters Filters, now time.Time) pgrepo.ListingQuery {
	search := strings.ToLower(strings.TrimSpace(filters.Search))

	aliasCityID := ""
	if search != "" && s.cities != nil {
		if id, ok := s.cities.Resolve(search); ok {
			aliasCityID = id
		}
	}

	order := pgrepo.OrderNewestFirst
	if filters.Mode() == OrderingUnfiltered {
		order = pgrepo.OrderTiersFirst
	}

	return pgrepo.ListingQuery{
		Search:         search,
		AliasCityID:    aliasCityID,
		CityID:         strings.TrimSpace(filters.CityID),
		District:       strings.TrimSpace(filters.District),
		Gender:         strings.ToLower(strings.TrimSpace(filters.Gender)),
		Gold:           filters.Gold,
		Silver:         filters.Silver,
		Featured:       filters.Featured,
		VerifiedPhotos: filters.VerifiedPhotos,
		NewOnly:        filters.New,
		NewSince:       now.Add(-rules.NewProfileWindow),
		OnlineOnly:     filters.Online,
		OnlineSince:    now.Add(-rules.OnlineWindow),
		Order:          order,
		Limit:          filters.Limit,
		Offset:         filters.Offset,
		Now:            now,
	}
}

func (s *Service) normalizeFilters(filters Filters) Filters {
	if filters.Limit <= 0 {
		filters.Limit = s.defaultPageSize
	}
	if filters.Limit > s.maxPageSize {
		filters.Limit = s.maxPageSize
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	return filters
}

func paginate(total int64, limit, offset int) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return Pagination{
		Total:           total,
		Limit:           limit,
		Offset:          offset,
		CurrentPage:     offset/limit + 1,
		TotalPages:      totalPages,
		HasNextPage:     int64(offset+limit) < total,
		HasPreviousPage: offset > 0,
	}
}
