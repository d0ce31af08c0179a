package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"salva-mascotas/internal/domain/matches"
)

type MatchesRepo struct {
	db *sql.DB
}

func NewMatchesRepo(db *sql.DB) *MatchesRepo {
	return &MatchesRepo{db: db}
}

const matchColumns = `id, lost_pet_id, found_pet_id, score, validated, created_at`

// Upsert escribe el match apoyándose en el unique (lost_pet_id, found_pet_id):
// en conflicto solo refresca el score; id, validated y created_at de la fila
// existente sobreviven. Sin pre-read, así dos discovery concurrentes no
// duplican ni pisan una validación.
func (r *MatchesRepo) Upsert(ctx context.Context, m matches.Match) (matches.Match, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO matches (`+matchColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (lost_pet_id, found_pet_id)
		DO UPDATE SET score = EXCLUDED.score
		RETURNING `+matchColumns+`
	`,
		m.ID,
		m.LostPetID,
		m.FoundPetID,
		m.Score,
		m.Validated,
		m.CreatedAt,
	)
	return scanMatch(row)
}

func (r *MatchesRepo) GetByID(ctx context.Context, id string) (matches.Match, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return matches.Match{}, matches.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE id = $1
	`, id)

	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return matches.Match{}, matches.ErrNotFound
		}
		return matches.Match{}, err
	}
	return m, nil
}

func (r *MatchesRepo) ListByValidated(ctx context.Context, validated bool) ([]matches.Match, error) {
	return r.list(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE validated = $1
		ORDER BY score DESC
	`, validated)
}

func (r *MatchesRepo) ListByLostPet(ctx context.Context, lostPetID string) ([]matches.Match, error) {
	return r.list(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE lost_pet_id = $1
		ORDER BY score DESC
	`, lostPetID)
}

func (r *MatchesRepo) ListByFoundPet(ctx context.Context, foundPetID string) ([]matches.Match, error) {
	return r.list(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE found_pet_id = $1
		ORDER BY score DESC
	`, foundPetID)
}

func (r *MatchesRepo) SetValidated(ctx context.Context, id string) (matches.Match, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE matches
		SET validated = TRUE
		WHERE id = $1
		RETURNING `+matchColumns+`
	`, strings.TrimSpace(id))

	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return matches.Match{}, matches.ErrNotFound
		}
		return matches.Match{}, err
	}
	return m, nil
}

func (r *MatchesRepo) Delete(ctx context.Context, id string) error {
	// borrar un id inexistente es no-op exitoso
	_, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, strings.TrimSpace(id))
	return err
}

func (r *MatchesRepo) list(ctx context.Context, query string, arg any) ([]matches.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matches.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMatch(row rowScanner) (matches.Match, error) {
	var m matches.Match
	err := row.Scan(
		&m.ID,
		&m.LostPetID,
		&m.FoundPetID,
		&m.Score,
		&m.Validated,
		&m.CreatedAt,
	)
	return m, err
}
