package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/minitello/minitello/internal/db"
	"github.com/minitello/minitello/internal/domain"
)

// stepColumns is the canonical SELECT column list for steps.
const stepColumns = `id, project_id, parent_step_id, name, description,
		order_index, progress, created_by_id, created_at, updated_at`

// SQLiteStepRepo implements StepRepo using a SQLite database. The constructor
// accepts db.DBTX so the same repository works against *sql.DB and, inside a
// unit of work, against *sql.Tx.
type SQLiteStepRepo struct {
	db db.DBTX
}

// NewSQLiteStepRepo creates a new SQLiteStepRepo.
func NewSQLiteStepRepo(dbtx db.DBTX) *SQLiteStepRepo {
	return &SQLiteStepRepo{db: dbtx}
}

func (r *SQLiteStepRepo) Create(ctx context.Context, s *domain.Step) error {
	query := `INSERT INTO steps (id, project_id, parent_step_id, name, description,
		order_index, progress, created_by_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.ProjectID,
		nullableStrToValue(s.ParentStepID),
		s.Name,
		s.Description,
		s.OrderIndex,
		s.Progress,
		s.CreatedByID,
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting step: %w", err)
	}
	return nil
}

func (r *SQLiteStepRepo) GetByID(ctx context.Context, id string) (*domain.Step, error) {
	query := `SELECT ` + stepColumns + ` FROM steps WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanStep(row)
}

func (r *SQLiteStepRepo) ListByParent(ctx context.Context, parentID string) ([]*domain.Step, error) {
	query := `SELECT ` + stepColumns + ` FROM steps WHERE parent_step_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing steps by parent: %w", err)
	}
	defer rows.Close()
	return r.scanSteps(rows)
}

func (r *SQLiteStepRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Step, error) {
	query := `SELECT ` + stepColumns + ` FROM steps WHERE project_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing steps by project: %w", err)
	}
	defer rows.Close()
	return r.scanSteps(rows)
}

// ListRoots returns the project roots the given user is a member of,
// oldest first.
func (r *SQLiteStepRepo) ListRoots(ctx context.Context, userID string) ([]*domain.Step, error) {
	query := `SELECT ` + stepColumns + ` FROM steps
		WHERE parent_step_id IS NULL
		AND id IN (SELECT project_id FROM project_members WHERE user_id = ?)
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing project roots: %w", err)
	}
	defer rows.Close()
	return r.scanSteps(rows)
}

func (r *SQLiteStepRepo) CountChildren(ctx context.Context, parentID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM steps WHERE parent_step_id = ?`, parentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting children of %s: %w", parentID, err)
	}
	return n, nil
}

func (r *SQLiteStepRepo) Update(ctx context.Context, s *domain.Step) error {
	query := `UPDATE steps SET project_id = ?, parent_step_id = ?, name = ?, description = ?,
		order_index = ?, progress = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		s.ProjectID,
		nullableStrToValue(s.ParentStepID),
		s.Name,
		s.Description,
		s.OrderIndex,
		s.Progress,
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating step: %w", err)
	}
	return nil
}

func (r *SQLiteStepRepo) SetOrder(ctx context.Context, id string, order int) error {
	query := `UPDATE steps SET order_index = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, order, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("setting step order: %w", err)
	}
	return nil
}

func (r *SQLiteStepRepo) SetParentAndOrder(ctx context.Context, id, parentID string, order int) error {
	query := `UPDATE steps SET parent_step_id = ?, order_index = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, parentID, order, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("reparenting step: %w", err)
	}
	return nil
}

func (r *SQLiteStepRepo) SetProgress(ctx context.Context, id string, progress float64) error {
	query := `UPDATE steps SET progress = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, progress, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("setting step progress: %w", err)
	}
	return nil
}

// ShiftOrderRange applies a relative order_index increment to every child of
// parentID whose order_index falls within the filter. A negative f.To leaves
// the range unbounded above.
func (r *SQLiteStepRepo) ShiftOrderRange(ctx context.Context, parentID string, f OrderFilter, delta int) (int, error) {
	var (
		res sql.Result
		err error
	)
	if f.To < 0 {
		query := `UPDATE steps SET order_index = order_index + ?, updated_at = ?
			WHERE parent_step_id = ? AND order_index >= ?`
		res, err = r.db.ExecContext(ctx, query, delta, nowUTC(), parentID, f.From)
	} else {
		query := `UPDATE steps SET order_index = order_index + ?, updated_at = ?
			WHERE parent_step_id = ? AND order_index >= ? AND order_index <= ?`
		res, err = r.db.ExecContext(ctx, query, delta, nowUTC(), parentID, f.From, f.To)
	}
	if err != nil {
		return 0, fmt.Errorf("shifting order range: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("shifting order range: %w", err)
	}
	return int(n), nil
}

// SetProgressByParent writes an absolute progress value onto every direct
// child of parentID and reports how many rows changed. The propagator uses
// the count to know when a cascade has reached the leaves.
func (r *SQLiteStepRepo) SetProgressByParent(ctx context.Context, parentID string, progress float64) (int, error) {
	query := `UPDATE steps SET progress = ?, updated_at = ? WHERE parent_step_id = ?`
	res, err := r.db.ExecContext(ctx, query, progress, nowUTC(), parentID)
	if err != nil {
		return 0, fmt.Errorf("setting progress by parent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("setting progress by parent: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteStepRepo) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	query := `DELETE FROM steps WHERE id IN (` + placeholders + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting steps: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting steps: %w", err)
	}
	return int(n), nil
}

// scanStep scans a single step from a *sql.Row.
func (r *SQLiteStepRepo) scanStep(row *sql.Row) (*domain.Step, error) {
	var s domain.Step
	var parentID sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&s.ID, &s.ProjectID, &parentID, &s.Name, &s.Description,
		&s.OrderIndex, &s.Progress, &s.CreatedByID, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("step: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning step: %w", err)
	}
	return r.populateStep(&s, parentID, createdAtStr, updatedAtStr)
}

// scanSteps scans multiple steps from *sql.Rows.
func (r *SQLiteStepRepo) scanSteps(rows *sql.Rows) ([]*domain.Step, error) {
	var steps []*domain.Step
	for rows.Next() {
		var s domain.Step
		var parentID sql.NullString
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&s.ID, &s.ProjectID, &parentID, &s.Name, &s.Description,
			&s.OrderIndex, &s.Progress, &s.CreatedByID, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning step row: %w", err)
		}
		step, err := r.populateStep(&s, parentID, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating steps: %w", err)
	}
	return steps, nil
}

// populateStep fills in parsed fields on a Step after scanning raw strings.
func (r *SQLiteStepRepo) populateStep(s *domain.Step, parentID sql.NullString, createdAtStr, updatedAtStr string) (*domain.Step, error) {
	s.ParentStepID = strFromNullable(parentID)

	var parseErr error
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	s.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return s, nil
}
