package saved

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Save(ctx context.Context, saved *SavedListing) error
	Unsave(ctx context.Context, userID, listingID string) error
	ListByUser(ctx context.Context, userID string) ([]*SavedListing, error)
	IsSaved(ctx context.Context, userID, listingID string) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Save(ctx context.Context, saved *SavedListing) error {
	query := `
        INSERT INTO saved_listings (id, user_id, listing_id, listing)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE SET
            listing = EXCLUDED.listing,
            saved_at = CURRENT_TIMESTAMP
        RETURNING saved_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		saved.ID, saved.UserID, saved.ListingID, saved.Listing,
	).Scan(&saved.SavedAt)
}

func (r *postgresRepository) Unsave(ctx context.Context, userID, listingID string) error {
	query := `DELETE FROM saved_listings WHERE user_id = $1 AND listing_id = $2`
	_, err := r.db.ExecContext(ctx, query, userID, listingID)
	return err
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID string) ([]*SavedListing, error) {
	query := `
        SELECT * FROM saved_listings
        WHERE user_id = $1
        ORDER BY saved_at DESC
    `

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*SavedListing
	for rows.Next() {
		var saved SavedListing
		if err := rows.StructScan(&saved); err != nil {
			continue
		}
		results = append(results, &saved)
	}

	return results, rows.Err()
}

func (r *postgresRepository) IsSaved(ctx context.Context, userID, listingID string) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS(
            SELECT 1 FROM saved_listings
            WHERE user_id = $1 AND listing_id = $2
        )
    `

	err := r.db.GetContext(ctx, &exists, query, userID, listingID)
	return exists, err
}
