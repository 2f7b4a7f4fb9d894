package profile

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	UpsertProfile(ctx context.Context, profile *UserProfile) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	var profile UserProfile
	query := `SELECT * FROM user_profiles WHERE id = $1`

	err := r.db.GetContext(ctx, &profile, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *postgresRepository) UpsertProfile(ctx context.Context, profile *UserProfile) error {
	query := `
        INSERT INTO user_profiles (id, email, display_name, my_apartment, looking_for)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            email = EXCLUDED.email,
            display_name = EXCLUDED.display_name,
            my_apartment = EXCLUDED.my_apartment,
            looking_for = EXCLUDED.looking_for,
            updated_at = CURRENT_TIMESTAMP
        RETURNING created_at, updated_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		profile.ID, profile.Email, profile.DisplayName,
		profile.MyApartment, profile.LookingFor,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}
