package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"retrouvaille/internal/domain"
)

type MatchRepository interface {
	Upsert(ctx context.Context, match *domain.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error)
	ListForDeclaration(ctx context.Context, declarationID uuid.UUID) ([]domain.Match, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MatchStatus) error
	DeleteForDeclaration(ctx context.Context, declarationID uuid.UUID) error
}

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) MatchRepository {
	return &matchRepository{db: db}
}

// Upsert refreshes the score for a pair while keeping any status the
// owner already set on it.
func (r *matchRepository) Upsert(ctx context.Context, match *domain.Match) error {
	query := `
		INSERT INTO matches (id, loss_declaration_id, found_declaration_id, confidence, similarity_reasons, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (loss_declaration_id, found_declaration_id)
		DO UPDATE SET confidence = EXCLUDED.confidence,
			similarity_reasons = EXCLUDED.similarity_reasons,
			updated_at = NOW()
		RETURNING id, status, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		match.ID, match.LossDeclarationID, match.FoundDeclarationID,
		match.Confidence, match.SimilarityReasons, match.Status,
	).Scan(&match.ID, &match.Status, &match.CreatedAt, &match.UpdatedAt)
}

func (r *matchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := `SELECT * FROM matches WHERE id = $1`

	err := r.db.GetContext(ctx, &match, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) ListForDeclaration(ctx context.Context, declarationID uuid.UUID) ([]domain.Match, error) {
	query := `
		SELECT * FROM matches
		WHERE loss_declaration_id = $1 OR found_declaration_id = $1
		ORDER BY confidence DESC, created_at DESC`

	var matches []domain.Match
	err := r.db.SelectContext(ctx, &matches, query, declarationID)
	return matches, err
}

func (r *matchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MatchStatus) error {
	query := `UPDATE matches SET status = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *matchRepository) DeleteForDeclaration(ctx context.Context, declarationID uuid.UUID) error {
	query := `DELETE FROM matches WHERE loss_declaration_id = $1 OR found_declaration_id = $1`
	_, err := r.db.ExecContext(ctx, query, declarationID)
	return err
}
