package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/medoffice/agenda-api/internal/model"
	"github.com/medoffice/agenda-api/internal/repository"
)

type sourceRepository struct {
	db *sqlx.DB
}

func NewSourceRepository(db *sqlx.DB) repository.SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) List(ctx context.Context) ([]model.AppointmentSource, error) {
	query := `SELECT id, label FROM appointment_sources ORDER BY position`
	var sources []model.AppointmentSource
	if err := r.db.SelectContext(ctx, &sources, query); err != nil {
		return nil, fmt.Errorf("failed to list appointment sources: %w", err)
	}
	return sources, nil
}

// Replace swaps the catalog wholesale; the source dialog edits the full
// list, not single rows.
func (r *sourceRepository) Replace(ctx context.Context, sources []model.AppointmentSource) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM appointment_sources`); err != nil {
		return fmt.Errorf("failed to clear appointment sources: %w", err)
	}

	insert := `INSERT INTO appointment_sources (id, label, position) VALUES ($1, $2, $3)`
	for i, src := range sources {
		if _, err := tx.ExecContext(ctx, insert, src.ID, src.Label, i); err != nil {
			return fmt.Errorf("failed to insert appointment source %s: %w", src.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit appointment sources: %w", err)
	}
	return nil
}
