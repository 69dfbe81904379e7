package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"retrouvaille/internal/domain"
)

type DeclarationRepository interface {
	Create(ctx context.Context, decl *domain.Declaration) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Declaration, error)
	Update(ctx context.Context, decl *domain.Declaration) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetAllActive(ctx context.Context) ([]domain.Declaration, error)
	ListActiveByType(ctx context.Context, declType domain.DeclarationType) ([]domain.Declaration, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) ([]domain.Declaration, int64, error)
}

type declarationRepository struct {
	db *sqlx.DB
}

func NewDeclarationRepository(db *sqlx.DB) DeclarationRepository {
	return &declarationRepository{db: db}
}

func (r *declarationRepository) Create(ctx context.Context, decl *domain.Declaration) error {
	query := `
		INSERT INTO declarations (id, type, title, category, description, condition,
			location, latitude, longitude, date, owner_id, contact_email, contact_phone,
			images, active, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		decl.ID, decl.Type, decl.Title, decl.Category, decl.Description, decl.Condition,
		decl.Location, decl.Latitude, decl.Longitude, decl.Date, decl.OwnerID,
		decl.ContactEmail, decl.ContactPhone, decl.Images, decl.Active, decl.Status,
		decl.Version,
	).Scan(&decl.CreatedAt, &decl.UpdatedAt)
}

func (r *declarationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Declaration, error) {
	var decl domain.Declaration
	query := `SELECT * FROM declarations WHERE id = $1`

	err := r.db.GetContext(ctx, &decl, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &decl, nil
}

// Update writes the owner-mutable fields and bumps the version used by
// the verification approval transaction as its concurrency guard.
func (r *declarationRepository) Update(ctx context.Context, decl *domain.Declaration) error {
	query := `
		UPDATE declarations
		SET title = $2, category = $3, description = $4, condition = $5,
			location = $6, latitude = $7, longitude = $8, date = $9,
			contact_email = $10, contact_phone = $11, images = $12,
			version = version + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING version, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		decl.ID, decl.Title, decl.Category, decl.Description, decl.Condition,
		decl.Location, decl.Latitude, decl.Longitude, decl.Date,
		decl.ContactEmail, decl.ContactPhone, decl.Images,
	).Scan(&decl.Version, &decl.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *declarationRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `
		UPDATE declarations
		SET active = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the declaration; child verifications and matches go
// with it through ON DELETE CASCADE.
func (r *declarationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM declarations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *declarationRepository) GetAllActive(ctx context.Context) ([]domain.Declaration, error) {
	query := `SELECT * FROM declarations WHERE active = true ORDER BY date DESC, created_at DESC`

	var decls []domain.Declaration
	err := r.db.SelectContext(ctx, &decls, query)
	return decls, err
}

func (r *declarationRepository) ListActiveByType(ctx context.Context, declType domain.DeclarationType) ([]domain.Declaration, error) {
	query := `
		SELECT * FROM declarations
		WHERE active = true AND type = $1
		ORDER BY created_at DESC`

	var decls []domain.Declaration
	err := r.db.SelectContext(ctx, &decls, query, declType)
	return decls, err
}

func (r *declarationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params domain.PaginationParams) ([]domain.Declaration, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM declarations WHERE owner_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, ownerID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM declarations
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var decls []domain.Declaration
	err := r.db.SelectContext(ctx, &decls, query, ownerID, params.PageSize, params.Offset())
	return decls, total, err
}
