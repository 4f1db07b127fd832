package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ardika/attendman/internal/model"
)

// PostgresMemberRepo is the PostgreSQL implementation of MemberRepository.
type PostgresMemberRepo struct {
	db *sql.DB
}

// NewPostgresMemberRepo creates a PostgresMemberRepo.
func NewPostgresMemberRepo(db *sql.DB) *PostgresMemberRepo {
	return &PostgresMemberRepo{db: db}
}

// List returns all members ordered by NRP.
func (r *PostgresMemberRepo) List(ctx context.Context) ([]*model.Member, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, nrp, created_at, updated_at
		 FROM members ORDER BY nrp`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*model.Member
	for rows.Next() {
		m := &model.Member{}
		if err := rows.Scan(&m.ID, &m.Name, &m.NRP, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// FindByID returns the member with the given id, or nil when absent.
func (r *PostgresMemberRepo) FindByID(ctx context.Context, id string) (*model.Member, error) {
	m := &model.Member{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, nrp, created_at, updated_at
		 FROM members WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Name, &m.NRP, &m.CreatedAt, &m.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	return m, nil
}

// Create inserts a member.
func (r *PostgresMemberRepo) Create(ctx context.Context, m *model.Member) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO members (id, name, nrp, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Name, m.NRP, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

// Update rewrites a member's name and NRP.
func (r *PostgresMemberRepo) Update(ctx context.Context, m *model.Member) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE members SET name = $2, nrp = $3, updated_at = $4 WHERE id = $1`,
		m.ID, m.Name, m.NRP, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	return nil
}

// Delete removes a member; attendance and check-in rows cascade.
func (r *PostgresMemberRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	return nil
}
