package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/rental-booking/internal/model"
)

// BookingRepo is the booking store backed by the `bookings` table.  Dates
// are DATE columns, booking_date is DATETIME in UTC.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = `b.id, b.property_id, b.customer_name, b.customer_email, b.customer_phone,
	b.check_in_date, b.check_out_date, b.number_of_guests, b.total_cost, b.status, b.booking_date`

func bookingDest(b *model.Booking) []any {
	return []any{&b.ID, &b.PropertyID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
		&b.CheckInDate, &b.CheckOutDate, &b.NumberOfGuests, &b.TotalCost, &b.Status, &b.BookingDate}
}

// CreateBooking inserts b and returns the generated id.  The caller is
// expected to have validated and priced b already.
func (r *BookingRepo) CreateBooking(ctx context.Context, b model.Booking) (uint64, error) {
	const q = `INSERT INTO bookings (property_id, customer_name, customer_email, customer_phone,
	           check_in_date, check_out_date, number_of_guests, total_cost, status, booking_date)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.PropertyID, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.CheckInDate, b.CheckOutDate, b.NumberOfGuests, b.TotalCost, string(b.Status), b.BookingDate)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getBooking(ctx context.Context, q queryer, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := q.QueryRowContext(ctx, "SELECT "+bookingCols+" FROM bookings b WHERE b.id = ?", id).Scan(bookingDest(&b)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBooking fetches a booking by id or returns ErrBookingNotFound.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return getBooking(ctx, r.db, id)
}

// UpdateStatus moves a PENDING booking to status.  The update is
// conditional on the row still being PENDING, so of two concurrent calls
// only the first changes the row; the second gets ErrConflict.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status = ? WHERE id = ? AND status = ?",
		string(status), id, string(model.StatusPending))
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := getBooking(ctx, tx, id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	b, err := getBooking(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return b, nil
}

// ListByCustomer returns the bookings made under email, newest first,
// each with its property (nil if the property is gone).
func (r *BookingRepo) ListByCustomer(ctx context.Context, email string) ([]model.BookingWithProperty, error) {
	const q = `SELECT ` + bookingCols + `, ` + joinedPropertyCols + `
	           FROM bookings b
	           LEFT JOIN properties p ON p.id = b.property_id
	           WHERE b.customer_email = ?
	           ORDER BY b.booking_date DESC, b.id DESC`
	return r.listWithProperty(ctx, q, email)
}

// ListByOwner returns the bookings on every property listed by user
// ownerID, newest first.
func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.BookingWithProperty, error) {
	const q = `SELECT ` + bookingCols + `, ` + joinedPropertyCols + `
	           FROM bookings b
	           JOIN properties p ON p.id = b.property_id
	           WHERE p.owner_id = ?
	           ORDER BY b.booking_date DESC, b.id DESC`
	return r.listWithProperty(ctx, q, ownerID)
}

const joinedPropertyCols = `p.id, p.title, p.description, p.address, p.monthly_rent, p.security_deposit,
	p.bedrooms, p.bathrooms, p.owner_id, p.owner_name, p.image_url, p.created_at, p.updated_at`

func (r *BookingRepo) listWithProperty(ctx context.Context, q string, arg any) ([]model.BookingWithProperty, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BookingWithProperty, 0)
	for rows.Next() {
		var b model.Booking
		var (
			pid               sql.NullInt64
			title, desc, addr sql.NullString
			rent, deposit     sql.NullFloat64
			beds, baths, oid  sql.NullInt64
			owner, img        sql.NullString
			created, updated  sql.NullTime
		)
		dest := append(bookingDest(&b), &pid, &title, &desc, &addr, &rent, &deposit, &beds, &baths, &oid, &owner, &img, &created, &updated)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		item := model.BookingWithProperty{Booking: b}
		if pid.Valid {
			p := &model.Property{
				ID:              uint64(pid.Int64),
				Title:           title.String,
				Description:     desc.String,
				Address:         addr.String,
				MonthlyRent:     rent.Float64,
				SecurityDeposit: deposit.Float64,
				Bedrooms:        int(beds.Int64),
				Bathrooms:       int(baths.Int64),
				OwnerID:         uint64(oid.Int64),
				OwnerName:       owner.String,
				CreatedAt:       created.Time,
				UpdatedAt:       updated.Time,
			}
			if img.Valid {
				v := img.String
				p.ImageURL = &v
			}
			item.Property = p
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
