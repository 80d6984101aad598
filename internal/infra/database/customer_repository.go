package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
)

const customerColumns = `id, name, phone_number, date_of_birth, date_of_anniversary, is_active, created_at, updated_at`

type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (name, phone_number, date_of_birth, date_of_anniversary, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.DB.QueryRowContext(ctx, query,
		c.Name,
		c.PhoneNumber,
		nullDate(c.DateOfBirth),
		nullDate(c.DateOfAnniversary),
		c.IsActive,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrCustomerAlreadyExists
		}
		return err
	}

	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND is_active`
	return scanCustomer(r.DB.QueryRowContext(ctx, query, id))
}

func (r *CustomerRepository) FindActiveByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = $1 AND is_active LIMIT 1`
	return scanCustomer(r.DB.QueryRowContext(ctx, query, phone))
}

func (r *CustomerRepository) ListActive(ctx context.Context) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE is_active ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// ListMissingProfile devolve os clientes elegíveis ao disparo proativo.
func (r *CustomerRepository) ListMissingProfile(ctx context.Context) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE is_active
		  AND name <> ''
		  AND phone_number <> ''
		  AND date_of_birth IS NULL
		  AND date_of_anniversary IS NULL
		ORDER BY id
	`
	return r.list(ctx, query)
}

func (r *CustomerRepository) UpdateDates(ctx context.Context, id int64, dob, doa time.Time) error {
	query := `
		UPDATE customers
		SET date_of_birth = $1, date_of_anniversary = $2, updated_at = NOW()
		WHERE id = $3 AND is_active
	`
	res, err := r.DB.ExecContext(ctx, query, dob, doa, id)
	return affectedOr(res, err, entity.ErrCustomerNotFound)
}

func (r *CustomerRepository) UpdateName(ctx context.Context, id int64, name string) error {
	query := `UPDATE customers SET name = $1, updated_at = NOW() WHERE id = $2 AND is_active`
	res, err := r.DB.ExecContext(ctx, query, name, id)
	return affectedOr(res, err, entity.ErrCustomerNotFound)
}

func (r *CustomerRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE customers SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`
	res, err := r.DB.ExecContext(ctx, query, id)
	return affectedOr(res, err, entity.ErrCustomerNotFound)
}

func (r *CustomerRepository) list(ctx context.Context, query string) ([]*entity.Customer, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*entity.Customer, error) {
	var (
		c        entity.Customer
		dob, doa sql.NullTime
	)

	err := row.Scan(&c.ID, &c.Name, &c.PhoneNumber, &dob, &doa, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}

	if dob.Valid {
		t := dob.Time
		c.DateOfBirth = &t
	}
	if doa.Valid {
		t := doa.Time
		c.DateOfAnniversary = &t
	}
	return &c, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// affectedOr devolve notFound quando o UPDATE não atinge nenhuma linha.
func affectedOr(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
