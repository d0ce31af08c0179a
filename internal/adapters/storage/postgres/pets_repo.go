package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"salva-mascotas/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const lostColumns = `
	id, name, "ownerName", type, breed, color, size,
	description, phone, last_seen_date, lat, lng, photo_url, created_at
`

const foundColumns = `
	id, "reporterName", type, breed, color, size,
	description, phone, found_date, lat, lng, photo_url, created_at
`

func (r *PetsRepo) CreateLost(ctx context.Context, p pets.LostPet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lost_pets (`+lostColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		p.ID,
		p.Name,
		p.OwnerName,
		p.Type,
		p.Breed,
		p.Color,
		string(p.Size),
		p.Notes,
		p.Phone,
		p.LastSeenDate,
		p.Lat,
		p.Lng,
		p.PhotoURL,
		p.CreatedAt,
	)
	return err
}

func (r *PetsRepo) GetLostByID(ctx context.Context, id string) (pets.LostPet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.LostPet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+lostColumns+`
		FROM lost_pets
		WHERE id = $1
	`, id)

	p, err := scanLost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.LostPet{}, pets.ErrNotFound
		}
		return pets.LostPet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListLost(ctx context.Context, limit int) ([]pets.LostPet, error) {
	q := `
		SELECT ` + lostColumns + `
		FROM lost_pets
		ORDER BY last_seen_date DESC
	`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.LostPet, 0)
	for rows.Next() {
		p, err := scanLost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) UpdateLost(ctx context.Context, p pets.LostPet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lost_pets
		SET
			name = $2,
			"ownerName" = $3,
			type = $4,
			breed = $5,
			color = $6,
			size = $7,
			description = $8,
			phone = $9,
			last_seen_date = $10,
			lat = $11,
			lng = $12,
			photo_url = $13
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.OwnerName,
		p.Type,
		p.Breed,
		p.Color,
		string(p.Size),
		p.Notes,
		p.Phone,
		p.LastSeenDate,
		p.Lat,
		p.Lng,
		p.PhotoURL,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) DeleteLost(ctx context.Context, id string) error {
	// borrar un id inexistente es no-op exitoso
	_, err := r.db.ExecContext(ctx, `DELETE FROM lost_pets WHERE id = $1`, strings.TrimSpace(id))
	return err
}

func (r *PetsRepo) ListLostInBox(ctx context.Context, b pets.Box) ([]pets.LostPet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+lostColumns+`
		FROM lost_pets
		WHERE lat >= $1 AND lat <= $2 AND lng >= $3 AND lng <= $4
		ORDER BY last_seen_date DESC
	`, b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.LostPet, 0)
	for rows.Next() {
		p, err := scanLost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) CreateFound(ctx context.Context, p pets.FoundPet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO found_pets (`+foundColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		p.ID,
		p.ReporterName,
		p.Type,
		p.Breed,
		p.Color,
		string(p.Size),
		p.Notes,
		p.Phone,
		p.FoundDate,
		p.Lat,
		p.Lng,
		p.PhotoURL,
		p.CreatedAt,
	)
	return err
}

func (r *PetsRepo) GetFoundByID(ctx context.Context, id string) (pets.FoundPet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.FoundPet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+foundColumns+`
		FROM found_pets
		WHERE id = $1
	`, id)

	p, err := scanFound(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.FoundPet{}, pets.ErrNotFound
		}
		return pets.FoundPet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListFound(ctx context.Context, limit int) ([]pets.FoundPet, error) {
	q := `
		SELECT ` + foundColumns + `
		FROM found_pets
		ORDER BY found_date DESC
	`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.FoundPet, 0)
	for rows.Next() {
		p, err := scanFound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PetsRepo) UpdateFound(ctx context.Context, p pets.FoundPet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE found_pets
		SET
			"reporterName" = $2,
			type = $3,
			breed = $4,
			color = $5,
			size = $6,
			description = $7,
			phone = $8,
			found_date = $9,
			lat = $10,
			lng = $11,
			photo_url = $12
		WHERE id = $1
	`,
		p.ID,
		p.ReporterName,
		p.Type,
		p.Breed,
		p.Color,
		string(p.Size),
		p.Notes,
		p.Phone,
		p.FoundDate,
		p.Lat,
		p.Lng,
		p.PhotoURL,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) DeleteFound(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM found_pets WHERE id = $1`, strings.TrimSpace(id))
	return err
}

func (r *PetsRepo) ListFoundInBox(ctx context.Context, b pets.Box) ([]pets.FoundPet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+foundColumns+`
		FROM found_pets
		WHERE lat >= $1 AND lat <= $2 AND lng >= $3 AND lng <= $4
		ORDER BY found_date DESC
	`, b.MinLat, b.MaxLat, b.MinLng, b.MaxLng)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.FoundPet, 0)
	for rows.Next() {
		p, err := scanFound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLost(row rowScanner) (pets.LostPet, error) {
	var p pets.LostPet
	var size string
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.OwnerName,
		&p.Type,
		&p.Breed,
		&p.Color,
		&size,
		&p.Notes,
		&p.Phone,
		&p.LastSeenDate,
		&p.Lat,
		&p.Lng,
		&p.PhotoURL,
		&p.CreatedAt,
	)
	p.Size = pets.Size(size)
	return p, err
}

func scanFound(row rowScanner) (pets.FoundPet, error) {
	var p pets.FoundPet
	var size string
	err := row.Scan(
		&p.ID,
		&p.ReporterName,
		&p.Type,
		&p.Breed,
		&p.Color,
		&size,
		&p.Notes,
		&p.Phone,
		&p.FoundDate,
		&p.Lat,
		&p.Lng,
		&p.PhotoURL,
		&p.CreatedAt,
	)
	p.Size = pets.Size(size)
	return p, err
}
