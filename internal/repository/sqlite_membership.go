package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/minitello/minitello/internal/db"
	"github.com/minitello/minitello/internal/domain"
)

// SQLiteMembershipRepo implements MembershipRepo using a SQLite database.
type SQLiteMembershipRepo struct {
	db db.DBTX
}

// NewSQLiteMembershipRepo creates a new SQLiteMembershipRepo.
func NewSQLiteMembershipRepo(dbtx db.DBTX) *SQLiteMembershipRepo {
	return &SQLiteMembershipRepo{db: dbtx}
}

func (r *SQLiteMembershipRepo) Create(ctx context.Context, m *domain.Membership) error {
	query := `INSERT INTO project_members (project_id, user_id, role, created_at)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ProjectID,
		m.UserID,
		string(m.Role),
		m.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting membership: %w", err)
	}
	return nil
}

func (r *SQLiteMembershipRepo) Get(ctx context.Context, projectID, userID string) (*domain.Membership, error) {
	query := `SELECT project_id, user_id, role, created_at FROM project_members
		WHERE project_id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, projectID, userID)

	var m domain.Membership
	var roleStr, createdAtStr string
	err := row.Scan(&m.ProjectID, &m.UserID, &roleStr, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("membership: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning membership: %w", err)
	}
	m.Role = domain.Role(roleStr)
	m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &m, nil
}

func (r *SQLiteMembershipRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Membership, error) {
	query := `SELECT project_id, user_id, role, created_at FROM project_members
		WHERE project_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing memberships: %w", err)
	}
	defer rows.Close()

	var members []*domain.Membership
	for rows.Next() {
		var m domain.Membership
		var roleStr, createdAtStr string
		if err := rows.Scan(&m.ProjectID, &m.UserID, &roleStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning membership row: %w", err)
		}
		m.Role = domain.Role(roleStr)
		m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating memberships: %w", err)
	}
	return members, nil
}

func (r *SQLiteMembershipRepo) DeleteByProject(ctx context.Context, projectID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM project_members WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, fmt.Errorf("deleting memberships: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting memberships: %w", err)
	}
	return int(n), nil
}
