package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"marketdz/internal/models"
)

type ProfileRepository struct {
	DB *sql.DB
}

// GetProfilesByIDs batch-loads the public projection of the given seller
// profiles in a single query. Callers pass the distinct user ids of one
// result page, never more.
func (r *ProfileRepository) GetProfilesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.SellerProfile, error) {
	profiles := make(map[uuid.UUID]models.SellerProfile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := "SELECT " + profileSelectColumns() + " FROM profiles p WHERE p.id = ANY($1::uuid[])"
	rows, err := r.DB.QueryContext(ctx, query, raw)
	if err != nil {
		return nil, fmt.Errorf("batch load profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.SellerProfile
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.AvatarURL, &p.Rating); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles[p.ID] = p
	}
	return profiles, rows.Err()
}
