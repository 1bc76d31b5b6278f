package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/xpawto-store/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite has a single writer; one connection also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) RunMigrations() error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// SeedIfEmpty loads seed into tables that have no rows yet, keeping the
// seeded ids.
func (r *SQLiteRepository) SeedIfEmpty(ctx context.Context, seed Seed) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count == 0 {
		for _, p := range seed.Products {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO products (id, name, price, description, stock, status, category)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				p.ID, p.Name, p.Price, p.Description, int(p.Stock), string(p.Status), string(p.Category),
			); err != nil {
				return fmt.Errorf("failed to seed product %d: %w", p.ID, err)
			}
		}
	}

	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM testimonials`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count testimonials: %w", err)
	}
	if count == 0 {
		for _, t := range seed.Testimonials {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO testimonials (id, username, pet_name, message, status, created_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				t.ID, t.Username, t.PetName, t.Message, string(t.Status), formatTime(t.CreatedAt),
			); err != nil {
				return fmt.Errorf("failed to seed testimonial %d: %w", t.ID, err)
			}
		}
	}

	return tx.Commit()
}

// Reset empties both tables. Used to isolate tests sharing one database.
func (r *SQLiteRepository) Reset(ctx context.Context) error {
	for _, table := range []string{"products", "testimonials"} {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, price, description, stock, status, category
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *SQLiteRepository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, price, description, stock, status, category
		FROM products
		WHERE id = ?
	`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *SQLiteRepository) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to begin insert: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM products`).Scan(&p.ID); err != nil {
		return domain.Product{}, fmt.Errorf("failed to allocate product id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO products (id, name, price, description, stock, status, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Price, p.Description, int(p.Stock), string(p.Status), string(p.Category),
	); err != nil {
		return domain.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Product{}, fmt.Errorf("failed to commit product: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) UpdateProduct(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, price = ?, description = ?, stock = ?, status = ?, category = ?
		WHERE id = ?`,
		p.Name, p.Price, p.Description, int(p.Stock), string(p.Status), string(p.Category), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireAffected(res, ErrProductNotFound)
}

func (r *SQLiteRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireAffected(res, ErrProductNotFound)
}

func (r *SQLiteRepository) ListTestimonials(ctx context.Context, status *domain.TestimonialStatus) ([]domain.Testimonial, error) {
	query := `
		SELECT id, username, pet_name, message, status, created_at
		FROM testimonials
	`
	var args []any
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query testimonials: %w", err)
	}
	defer rows.Close()

	testimonials := []domain.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		testimonials = append(testimonials, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return testimonials, nil
}

func (r *SQLiteRepository) CreateTestimonial(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("failed to begin insert: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM testimonials`).Scan(&t.ID); err != nil {
		return domain.Testimonial{}, fmt.Errorf("failed to allocate testimonial id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO testimonials (id, username, pet_name, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Username, t.PetName, t.Message, string(t.Status), formatTime(t.CreatedAt),
	); err != nil {
		return domain.Testimonial{}, fmt.Errorf("failed to insert testimonial: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Testimonial{}, fmt.Errorf("failed to commit testimonial: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) SetTestimonialStatus(ctx context.Context, id int64, status domain.TestimonialStatus) (domain.Testimonial, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE testimonials SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("failed to update testimonial: %w", err)
	}
	if err := requireAffected(res, ErrTestimonialNotFound); err != nil {
		return domain.Testimonial{}, err
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, pet_name, message, status, created_at
		FROM testimonials
		WHERE id = ?
	`, id)
	t, err := scanTestimonial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Testimonial{}, ErrTestimonialNotFound
	}
	return t, err
}

func (r *SQLiteRepository) DeleteTestimonial(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}
	return requireAffected(res, ErrTestimonialNotFound)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (domain.Product, error) {
	var (
		p                domain.Product
		stock            int
		status, category string
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &stock, &status, &category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, err
		}
		return domain.Product{}, fmt.Errorf("failed to scan product: %w", err)
	}
	p.Stock = domain.Stock(stock)
	p.Status = domain.ProductStatus(status)
	p.Category = domain.Category(category)
	return p, nil
}

func scanTestimonial(s scanner) (domain.Testimonial, error) {
	var (
		t         domain.Testimonial
		status    string
		createdAt string
	)
	if err := s.Scan(&t.ID, &t.Username, &t.PetName, &t.Message, &status, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Testimonial{}, err
		}
		return domain.Testimonial{}, fmt.Errorf("failed to scan testimonial: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	t.Status = domain.TestimonialStatus(status)
	t.CreatedAt = ts
	return t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
