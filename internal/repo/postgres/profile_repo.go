package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// ListingOrder selects the ORDER BY branch for the listing page. The caller
// picks it once per request; see the listing service's OrderingMode.
type ListingOrder string

const (
	// OrderTiersFirst surfaces active-gold, then active-silver, then recency.
	// Used for unfiltered browsing only.
	OrderTiersFirst ListingOrder = "tiers_first"
	// OrderNewestFirst is pure created_at recency, used whenever any optional
	// filter is active.
	OrderNewestFirst ListingOrder = "newest_first"
)

type ListingQuery struct {
	Search         string
	AliasCityID    string
	CityID         string
	District       string
	Gender         string
	Gold           bool
	Silver         bool
	Featured       bool
	VerifiedPhotos bool
	NewOnly        bool
	NewSince       time.Time
	OnlineOnly     bool
	OnlineSince    time.Time
	Order          ListingOrder
	Limit          int
	Offset         int
	Now            time.Time
}

type ProfileRow struct {
	ID          int64
	UserID      int64
	DisplayName string
	About       string
	CityID      string
	City        string
	District    string
	Gender      string
	Phone       string

	GoldExpiresAt           *time.Time
	SilverExpiresAt         *time.Time
	FeaturedExpiresAt       *time.Time
	VerifiedPhotosExpiresAt *time.Time
	PublicExpiresAt         *time.Time

	LastActiveAt *time.Time
	PhotosCount  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Shared predicate set for the count and page queries. The base gate (escort
// role, unexpired public axis) applies regardless of filters: expired-public
// profiles never appear no matter what else matches. Optional filters are
// switched with $n::boolean toggles so a single prepared statement covers
// every combination.
const listingFilterSQL = `
FROM profiles p
JOIN users u ON u.id = p.user_id AND u.role = 'escort'
WHERE
	p.public_expires_at IS NOT NULL AND p.public_expires_at > $1
	AND (
		$2::boolean = FALSE
		OR LOWER(p.display_name) LIKE $3
		OR LOWER(p.city) LIKE $3
		OR ($4::boolean = TRUE AND p.city_id = $5)
	)
	AND ($6::boolean = FALSE OR p.city_id = $7)
	AND ($8::boolean = FALSE OR LOWER(p.district) = LOWER($9))
	AND ($10::boolean = FALSE OR p.gender = $11)
	AND ($12::boolean = FALSE OR (p.gold_expires_at IS NOT NULL AND p.gold_expires_at > $1))
	AND ($13::boolean = FALSE OR (p.silver_expires_at IS NOT NULL AND p.silver_expires_at > $1))
	AND ($14::boolean = FALSE OR (p.featured_expires_at IS NOT NULL AND p.featured_expires_at > $1))
	AND ($15::boolean = FALSE OR (p.verified_photos_expires_at IS NOT NULL AND p.verified_photos_expires_at > $1))
	AND ($16::boolean = FALSE OR p.created_at >= $17::timestamptz)
	AND ($18::boolean = FALSE OR (p.last_active_at IS NOT NULL AND p.last_active_at >= $19::timestamptz))
`

const profileColumnsSQL = `
	p.id,
	p.user_id,
	p.display_name,
	COALESCE(p.about, ''),
	COALESCE(p.city_id, ''),
	COALESCE(p.city, ''),
	COALESCE(p.district, ''),
	COALESCE(p.gender, ''),
	COALESCE(p.phone, ''),
	p.gold_expires_at,
	p.silver_expires_at,
	p.featured_expires_at,
	p.verified_photos_expires_at,
	p.public_expires_at,
	p.last_active_at,
	p.photos_count,
	p.created_at,
	p.updated_at
`

func (q ListingQuery) filterArgs() []any {
	search := q.Search
	applySearch := search != ""
	applyAlias := q.AliasCityID != ""

	newSince := q.NewSince.UTC()
	if newSince.IsZero() {
		newSince = time.Unix(0, 0).UTC()
	}
	onlineSince := q.OnlineSince.UTC()
	if onlineSince.IsZero() {
		onlineSince = time.Unix(0, 0).UTC()
	}

	return []any{
		q.Now.UTC(),                    // $1
		applySearch,                    // $2
		"%" + escapeLike(search) + "%", // $3
		applyAlias,                     // $4
		q.AliasCityID,                  // $5
		q.CityID != "",                 // $6
		q.CityID,                       // $7
		q.District != "",               // $8
		q.District,                     // $9
		q.Gender != "",                 // $10
		q.Gender,                       // $11
		q.Gold,                         // $12
		q.Silver,                       // $13
		q.Featured,                     // $14
		q.VerifiedPhotos,               // $15
		q.NewOnly,                      // $16
		newSince,                       // $17
		q.OnlineOnly,                   // $18
		onlineSince,                    // $19
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE metacharacters before the term is wrapped in %...%.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// CountListed returns the pre-pagination total for a listing query.
func (r *ProfileRepo) CountListed(ctx context.Context, q ListingQuery) (int64, error) {
	if r.pool == nil {
		return 0, nil
	}
	if q.Now.IsZero() {
		q.Now = time.Now().UTC()
	}

	var total int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+listingFilterSQL, q.filterArgs()...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count listed profiles: %w", err)
	}

	return total, nil
}

func (r *ProfileRepo) ListProfiles(ctx context.Context, q ListingQuery) ([]ProfileRow, error) {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Now.IsZero() {
		q.Now = time.Now().UTC()
	}
	if r.pool == nil {
		return []ProfileRow{}, nil
	}

	orderSQL := "ORDER BY p.created_at DESC, p.id DESC"
	if q.Order == OrderTiersFirst {
		orderSQL = `ORDER BY
	(p.gold_expires_at IS NOT NULL AND p.gold_expires_at > $1) DESC,
	(p.silver_expires_at IS NOT NULL AND p.silver_expires_at > $1) DESC,
	p.created_at DESC,
	p.id DESC`
	}

	args := append(q.filterArgs(), q.Limit, q.Offset)
	sql := "SELECT " + profileColumnsSQL + listingFilterSQL + orderSQL + "\nLIMIT $20 OFFSET $21"

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	items := make([]ProfileRow, 0, q.Limit)
	for rows.Next() {
		item, err := scanProfileRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing profile: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate listed profiles: %w", rows.Err())
	}

	return items, nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id int64) (ProfileRow, error) {
	if id <= 0 {
		return ProfileRow{}, ErrProfileNotFound
	}
	if r.pool == nil {
		return ProfileRow{}, ErrProfileNotFound
	}

	row := r.pool.QueryRow(ctx, "SELECT "+profileColumnsSQL+" FROM profiles p WHERE p.id = $1 LIMIT 1", id)
	item, err := scanProfileRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRow{}, ErrProfileNotFound
		}
		return ProfileRow{}, fmt.Errorf("get profile by id: %w", err)
	}

	return item, nil
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID int64) (ProfileRow, error) {
	if userID <= 0 || r.pool == nil {
		return ProfileRow{}, ErrProfileNotFound
	}

	row := r.pool.QueryRow(ctx, "SELECT "+profileColumnsSQL+" FROM profiles p WHERE p.user_id = $1 LIMIT 1", userID)
	item, err := scanProfileRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRow{}, ErrProfileNotFound
		}
		return ProfileRow{}, fmt.Errorf("get profile by user id: %w", err)
	}

	return item, nil
}

type ProfileWrite struct {
	UserID      int64
	DisplayName string
	About       string
	CityID      string
	City        string
	District    string
	Gender      string
	Phone       string
}

// Upsert creates or updates the caller's own profile card. Tier expiries are
// never written here; they move only through SetTierExpiries.
func (r *ProfileRepo) Upsert(ctx context.Context, w ProfileWrite, at time.Time) (ProfileRow, error) {
	if w.UserID <= 0 {
		return ProfileRow{}, fmt.Errorf("invalid profile owner")
	}
	if r.pool == nil {
		return ProfileRow{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO profiles (
	user_id,
	display_name,
	about,
	city_id,
	city,
	district,
	gender,
	phone,
	photos_count,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $9)
ON CONFLICT (user_id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	about = EXCLUDED.about,
	city_id = EXCLUDED.city_id,
	city = EXCLUDED.city,
	district = EXCLUDED.district,
	gender = EXCLUDED.gender,
	phone = EXCLUDED.phone,
	updated_at = $9
RETURNING `+profileReturningSQL,
		w.UserID, w.DisplayName, w.About, w.CityID, w.City, w.District, w.Gender, w.Phone, at.UTC())

	item, err := scanProfileRow(row)
	if err != nil {
		return ProfileRow{}, fmt.Errorf("upsert profile: %w", err)
	}

	return item, nil
}

type TierExpiryWrite struct {
	GoldExpiresAt           *time.Time
	SilverExpiresAt         *time.Time
	FeaturedExpiresAt       *time.Time
	VerifiedPhotosExpiresAt *time.Time
	PublicExpiresAt         *time.Time
}

// SetTierExpiries overwrites the five expiry axes of a profile. Passing nil
// for an axis clears it.
func (r *ProfileRepo) SetTierExpiries(ctx context.Context, profileID int64, w TierExpiryWrite, at time.Time) error {
	if profileID <= 0 {
		return ErrProfileNotFound
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE profiles SET
	gold_expires_at = $2,
	silver_expires_at = $3,
	featured_expires_at = $4,
	verified_photos_expires_at = $5,
	public_expires_at = $6,
	updated_at = $7
WHERE id = $1
`, profileID, w.GoldExpiresAt, w.SilverExpiresAt, w.FeaturedExpiresAt, w.VerifiedPhotosExpiresAt, w.PublicExpiresAt, at.UTC())
	if err != nil {
		return fmt.Errorf("set tier expiries: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *ProfileRepo) Delete(ctx context.Context, profileID int64) error {
	if profileID <= 0 {
		return ErrProfileNotFound
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, profileID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *ProfileRepo) TouchLastActive(ctx context.Context, profileID int64, at time.Time) error {
	if profileID <= 0 {
		return ErrProfileNotFound
	}
	if r.pool == nil {
		return nil
	}

	tag, err := r.pool.Exec(ctx, `UPDATE profiles SET last_active_at = $2 WHERE id = $1`, profileID, at.UTC())
	if err != nil {
		return fmt.Errorf("touch last active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}

	return nil
}

// LastActiveByIDs fetches last-active timestamps for exactly the given ids in
// one round trip. Unknown ids are simply absent from the result.
func (r *ProfileRepo) LastActiveByIDs(ctx context.Context, ids []int64) (map[int64]*time.Time, error) {
	out := make(map[int64]*time.Time, len(ids))
	if len(ids) == 0 || r.pool == nil {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, last_active_at
FROM profiles
WHERE id = ANY($1::bigint[])
`, ids)
	if err != nil {
		return nil, fmt.Errorf("bulk last active: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var lastActive *time.Time
		if err := rows.Scan(&id, &lastActive); err != nil {
			return nil, fmt.Errorf("scan last active row: %w", err)
		}
		out[id] = lastActive
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate last active rows: %w", rows.Err())
	}

	return out, nil
}

type RosterRow struct {
	ProfileID       int64
	DisplayName     string
	Email           string
	PublicExpiresAt *time.Time
	CreatedAt       time.Time
}

// ListRoster returns the full profile roster joined with owner emails, used
// by the analytics rollup and admin search.
func (r *ProfileRepo) ListRoster(ctx context.Context) ([]RosterRow, error) {
	if r.pool == nil {
		return []RosterRow{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	p.id,
	p.display_name,
	COALESCE(u.email, ''),
	p.public_expires_at,
	p.created_at
FROM profiles p
LEFT JOIN users u ON u.id = p.user_id
ORDER BY p.id
`)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	defer rows.Close()

	var items []RosterRow
	for rows.Next() {
		var item RosterRow
		if err := rows.Scan(&item.ProfileID, &item.DisplayName, &item.Email, &item.PublicExpiresAt, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan roster row: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate roster rows: %w", rows.Err())
	}

	return items, nil
}

func (r *ProfileRepo) CountCreatedIn(ctx context.Context, from, to time.Time) (int64, error) {
	if r.pool == nil {
		return 0, nil
	}

	var total int64
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM profiles WHERE created_at >= $1 AND created_at < $2
`, from.UTC(), to.UTC()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count created profiles: %w", err)
	}

	return total, nil
}

func (r *ProfileRepo) IncrementPhotosCount(ctx context.Context, profileID int64, delta int) error {
	if profileID <= 0 || r.pool == nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE profiles SET photos_count = GREATEST(photos_count + $2, 0) WHERE id = $1
`, profileID, delta); err != nil {
		return fmt.Errorf("bump photos count: %w", err)
	}

	return nil
}

func scanProfileRow(row pgx.Row) (ProfileRow, error) {
	var item ProfileRow
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.DisplayName,
		&item.About,
		&item.CityID,
		&item.City,
		&item.District,
		&item.Gender,
		&item.Phone,
		&item.GoldExpiresAt,
		&item.SilverExpiresAt,
		&item.FeaturedExpiresAt,
		&item.VerifiedPhotosExpiresAt,
		&item.PublicExpiresAt,
		&item.LastActiveAt,
		&item.PhotosCount,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

const profileReturningSQL = `
	id,
	user_id,
	display_name,
	COALESCE(about, ''),
	COALESCE(city_id, ''),
	COALESCE(city, ''),
	COALESCE(district, ''),
	COALESCE(gender, ''),
	COALESCE(phone, ''),
	gold_expires_at,
	silver_expires_at,
	featured_expires_at,
	verified_photos_expires_at,
	public_expires_at,
	last_active_at,
	photos_count,
	created_at,
	updated_at
`
