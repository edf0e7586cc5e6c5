package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/rental-booking/internal/model"
)

// PropertyRepo is the property catalog backed by the `properties` table.
type PropertyRepo struct {
	db *sql.DB
}

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

const propertyCols = `id, title, description, address, monthly_rent, security_deposit,
	bedrooms, bathrooms, owner_id, owner_name, image_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(s rowScanner) (*model.Property, error) {
	var p model.Property
	var img sql.NullString
	if err := s.Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.MonthlyRent, &p.SecurityDeposit,
		&p.Bedrooms, &p.Bathrooms, &p.OwnerID, &p.OwnerName, &img, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if img.Valid {
		v := img.String
		p.ImageURL = &v
	}
	return &p, nil
}

// GetProperty fetches a property by id.  It returns ErrPropertyNotFound
// when no row exists.
func (r *PropertyRepo) GetProperty(ctx context.Context, id uint64) (*model.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, "SELECT "+propertyCols+" FROM properties WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPropertyNotFound
	}
	return p, err
}

// List returns every property, newest first.
func (r *PropertyRepo) List(ctx context.Context) ([]model.Property, error) {
	return r.list(ctx, "SELECT "+propertyCols+" FROM properties ORDER BY id DESC")
}

// ListByOwner returns the properties listed by user ownerID, newest first.
func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Property, error) {
	return r.list(ctx, "SELECT "+propertyCols+" FROM properties WHERE owner_id = ? ORDER BY id DESC", ownerID)
}

func (r *PropertyRepo) list(ctx context.Context, q string, args ...any) ([]model.Property, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts p and reloads it so defaults and timestamps are populated.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	const q = `INSERT INTO properties (title, description, address, monthly_rent, security_deposit,
	           bedrooms, bathrooms, owner_id, owner_name, image_url) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.Title, p.Description, p.Address, p.MonthlyRent, p.SecurityDeposit,
		p.Bedrooms, p.Bathrooms, p.OwnerID, p.OwnerName, p.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetProperty(ctx, uint64(id))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// Update overwrites the editable fields of p if it belongs to p.OwnerID.
// A nil ImageURL keeps the stored image.  It returns ErrPropertyNotFound or
// ErrForbidden accordingly.
func (r *PropertyRepo) Update(ctx context.Context, p *model.Property) error {
	cur, err := r.GetProperty(ctx, p.ID)
	if err != nil {
		return err
	}
	if cur.OwnerID != p.OwnerID {
		return ErrForbidden
	}
	const q = `UPDATE properties SET title = ?, description = ?, address = ?, monthly_rent = ?,
	           security_deposit = ?, bedrooms = ?, bathrooms = ?, image_url = COALESCE(?, image_url)
	           WHERE id = ? AND owner_id = ?`
	if _, err := r.db.ExecContext(ctx, q, p.Title, p.Description, p.Address, p.MonthlyRent,
		p.SecurityDeposit, p.Bedrooms, p.Bathrooms, p.ImageURL, p.ID, p.OwnerID); err != nil {
		return err
	}
	updated, err := r.GetProperty(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

// Delete removes a property owned by user ownerID.  Properties that still
// have bookings return ErrConflict so booking history is never orphaned.
func (r *PropertyRepo) Delete(ctx context.Context, id uint64, ownerID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var owner uint64
	err = tx.QueryRowContext(ctx, "SELECT owner_id FROM properties WHERE id = ? FOR UPDATE", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPropertyNotFound
	}
	if err != nil {
		return err
	}
	if owner != ownerID {
		return ErrForbidden
	}
	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings WHERE property_id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
