package listings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrListingNotFound = errors.New("listing not found")

type Repository interface {
	GetListing(ctx context.Context, id string) (*Listing, error)
	FindListings(ctx context.Context, filters *Filters, limit int) ([]*Listing, error)
	UpsertListing(ctx context.Context, listing *Listing) error
	DeleteIncomplete(ctx context.Context) (int64, error)
	DeleteDuplicateLinks(ctx context.Context) (int64, error)
	CountListings(ctx context.Context) (int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetListing(ctx context.Context, id string) (*Listing, error) {
	var listing Listing
	query := `SELECT * FROM listings WHERE id = $1`

	err := r.db.GetContext(ctx, &listing, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &listing, nil
}

// FindListings applies the optional filters and returns up to limit listings.
// Only complete listings are stored, so no completeness check happens here.
func (r *postgresRepository) FindListings(ctx context.Context, filters *Filters, limit int) ([]*Listing, error) {
	var conditions []string
	var args []interface{}

	addArg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters != nil {
		if filters.MaxRent != nil {
			conditions = append(conditions, "cold_rent <= "+addArg(*filters.MaxRent))
		}
		if filters.MinRooms != nil {
			conditions = append(conditions, "rooms >= "+addArg(*filters.MinRooms))
		}
		if filters.MaxRooms != nil {
			conditions = append(conditions, "rooms <= "+addArg(*filters.MaxRooms))
		}
		if len(filters.Districts) > 0 {
			conditions = append(conditions, "district = ANY("+addArg(pq.Array(filters.Districts))+")")
		}
		if len(filters.Types) > 0 {
			conditions = append(conditions, "type = ANY("+addArg(pq.Array(filters.Types))+")")
		}
	}

	query := `SELECT * FROM listings`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT " + addArg(limit)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*Listing
	for rows.Next() {
		var listing Listing
		if err := rows.StructScan(&listing); err != nil {
			continue
		}
		results = append(results, &listing)
	}

	return results, rows.Err()
}

func (r *postgresRepository) UpsertListing(ctx context.Context, listing *Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}

	query := `
        INSERT INTO listings (
            id, link, title, district, type, cold_rent, rooms, square_meters,
            floor, pets_allowed, balcony_or_terrace, description,
            looking_for_description, images, search_criteria
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        ON CONFLICT (link) DO UPDATE SET
            title = EXCLUDED.title,
            district = EXCLUDED.district,
            type = EXCLUDED.type,
            cold_rent = EXCLUDED.cold_rent,
            rooms = EXCLUDED.rooms,
            square_meters = EXCLUDED.square_meters,
            floor = EXCLUDED.floor,
            pets_allowed = EXCLUDED.pets_allowed,
            balcony_or_terrace = EXCLUDED.balcony_or_terrace,
            description = EXCLUDED.description,
            looking_for_description = EXCLUDED.looking_for_description,
            images = EXCLUDED.images,
            search_criteria = EXCLUDED.search_criteria
        RETURNING id, created_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		listing.ID, listing.Link, listing.Title, listing.District, listing.Type,
		listing.ColdRent, listing.Rooms, listing.SquareMeters, listing.Floor,
		listing.PetsAllowed, listing.BalconyOrTerrace, listing.Description,
		listing.LookingForDescription, listing.Images, listing.SearchCriteria,
	).Scan(&listing.ID, &listing.CreatedAt)
}

func (r *postgresRepository) DeleteIncomplete(ctx context.Context) (int64, error) {
	query := `
        DELETE FROM listings
        WHERE link = '' OR title = '' OR district = '' OR type = ''
           OR cold_rent <= 0 OR rooms <= 0 OR square_meters <= 0
    `

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *postgresRepository) DeleteDuplicateLinks(ctx context.Context) (int64, error) {
	// Keep the newest row per link
	query := `
        DELETE FROM listings a
        USING listings b
        WHERE a.link = b.link AND a.created_at < b.created_at
    `

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *postgresRepository) CountListings(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM listings`)
	return count, err
}
