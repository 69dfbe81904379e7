package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"retrouvaille/internal/domain"
)

type VerificationRepository interface {
	Create(ctx context.Context, v *domain.Verification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Verification, error)
	ListByDeclaration(ctx context.Context, declarationID uuid.UUID) ([]domain.Verification, error)
	Reject(ctx context.Context, id uuid.UUID, reason *string) error
	Approve(ctx context.Context, id uuid.UUID, matchingID *uuid.UUID, decl *domain.Declaration, matching *domain.Declaration) error
}

type verificationRepository struct {
	db *sqlx.DB
}

func NewVerificationRepository(db *sqlx.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(ctx context.Context, v *domain.Verification) error {
	query := `
		INSERT INTO verifications (id, declaration_id, claimant_id, identity_details,
			additional_info, serial_number, matching_declaration_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		v.ID, v.DeclarationID, v.ClaimantID, v.IdentityDetails,
		v.AdditionalInfo, v.SerialNumber, v.MatchingDeclarationID, v.Status,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
}

func (r *verificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Verification, error) {
	var v domain.Verification
	query := `SELECT * FROM verifications WHERE id = $1`

	err := r.db.GetContext(ctx, &v, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *verificationRepository) ListByDeclaration(ctx context.Context, declarationID uuid.UUID) ([]domain.Verification, error) {
	query := `
		SELECT * FROM verifications
		WHERE declaration_id = $1
		ORDER BY created_at DESC`

	var verifications []domain.Verification
	err := r.db.SelectContext(ctx, &verifications, query, declarationID)
	return verifications, err
}

// Reject flips a pending verification to its terminal rejected state.
// The parent declaration is untouched.
func (r *verificationRepository) Reject(ctx context.Context, id uuid.UUID, reason *string) error {
	query := `
		UPDATE verifications
		SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4`

	res, err := r.db.ExecContext(ctx, query, id, domain.VerificationRejected, reason, domain.VerificationPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Approve commits the dual deactivation as a single transaction: the
// verification becomes VERIFIED, the parent declaration (and the
// matching one, when present) becomes inactive and resolved. Each
// declaration update is conditional on the version captured by the
// caller and on the declaration still being OPEN; zero affected rows
// means a concurrent decision won and the whole transaction rolls back
// with domain.ErrDecisionConflict.
func (r *verificationRepository) Approve(ctx context.Context, id uuid.UUID, matchingID *uuid.UUID, decl *domain.Declaration, matching *domain.Declaration) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := resolveDeclaration(ctx, tx, decl); err != nil {
		return err
	}
	if matching != nil {
		if err := resolveDeclaration(ctx, tx, matching); err != nil {
			return err
		}
	}

	query := `
		UPDATE verifications
		SET status = $2, matching_declaration_id = COALESCE($3, matching_declaration_id), updated_at = NOW()
		WHERE id = $1 AND status = $4`

	res, err := tx.ExecContext(ctx, query, id, domain.VerificationVerified, matchingID, domain.VerificationPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvalidTransition
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit approval: %w", err)
	}

	decl.Active = false
	decl.Status = domain.DeclarationResolved
	if matching != nil {
		matching.Active = false
		matching.Status = domain.DeclarationResolved
	}
	return nil
}

func resolveDeclaration(ctx context.Context, tx *sqlx.Tx, decl *domain.Declaration) error {
	query := `
		UPDATE declarations
		SET active = false, status = $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $3 AND status = $4`

	res, err := tx.ExecContext(ctx, query, decl.ID, domain.DeclarationResolved, decl.Version, domain.DeclarationOpen)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrDecisionConflict
	}
	return nil
}
