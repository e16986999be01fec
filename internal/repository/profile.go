package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/passgen/passgen-go/internal/model"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrDuplicateProfile = errors.New("profile name already exists")
)

const profileColumns = `id, profile_id, user_id, name, length, symbols, created_at, updated_at`

// ProfileRepository handles generator profile persistence.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a profile and sets its generated row ID.
func (r *ProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	query := `INSERT INTO generator_profiles (profile_id, user_id, name, length, symbols, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		p.ProfileID, p.UserID, p.Name, p.Length, p.Symbols, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateProfile
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	p.ID = id
	return nil
}

// Get retrieves a profile owned by userID.
func (r *ProfileRepository) Get(ctx context.Context, userID int64, profileID string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM generator_profiles WHERE user_id = ? AND profile_id = ?`

	p := &model.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID, profileID).Scan(
		&p.ID, &p.ProfileID, &p.UserID, &p.Name, &p.Length, &p.Symbols, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return p, nil
}

// ListByUser retrieves all profiles for a user ordered by name.
func (r *ProfileRepository) ListByUser(ctx context.Context, userID int64) ([]model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM generator_profiles WHERE user_id = ? ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(
			&p.ID, &p.ProfileID, &p.UserID, &p.Name, &p.Length, &p.Symbols, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// Update overwrites the settings of an existing profile.
func (r *ProfileRepository) Update(ctx context.Context, p *model.Profile) error {
	query := `UPDATE generator_profiles SET name = ?, length = ?, symbols = ?, updated_at = ?
		WHERE user_id = ? AND profile_id = ?`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Length, p.Symbols, p.UpdatedAt, p.UserID, p.ProfileID)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateProfile
		}
		return err
	}

	return requireRow(result)
}

// Delete removes a profile.
func (r *ProfileRepository) Delete(ctx context.Context, userID int64, profileID string) error {
	query := `DELETE FROM generator_profiles WHERE user_id = ? AND profile_id = ?`

	result, err := r.db.ExecContext(ctx, query, userID, profileID)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// requireRow maps a zero-row UPDATE or DELETE to ErrProfileNotFound. NewDB
// enables clientFoundRows so an UPDATE that changes nothing still counts.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
