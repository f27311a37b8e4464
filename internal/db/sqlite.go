// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mgilabert/focal/internal/dateutil"
	"github.com/mgilabert/focal/internal/session"
	"github.com/mgilabert/focal/internal/task"
)

// SQLite implements task.Repository and session.Store using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateProject adds a new project together with its task forest.
func (s *SQLite) CreateProject(ctx context.Context, p *task.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO projects (id, name, description, status, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Status,
		p.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	if err := insertForest(ctx, tx, p.ID, p.Tasks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// GetProject retrieves a project by ID with its task forest loaded.
func (s *SQLite) GetProject(ctx context.Context, id string) (*task.Project, error) {
	query := `SELECT id, name, description, status, created_at FROM projects WHERE id = ?`

	var (
		p         task.Project
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", id, task.ErrProjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying project: %w", err)
	}

	p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	p.Tasks, err = s.loadForest(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// ListProjects returns all projects in creation order with task forests
// loaded. This order is the auto-scheduler's project iteration order.
func (s *SQLite) ListProjects(ctx context.Context) ([]*task.Project, error) {
	query := `SELECT id, name, description, status, created_at FROM projects ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*task.Project
	for rows.Next() {
		var (
			p         task.Project
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}

		p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}

		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}

	for _, p := range projects {
		p.Tasks, err = s.loadForest(ctx, p.ID)
		if err != nil {
			return nil, err
		}
	}

	return projects, nil
}

// SaveTasks replaces a project's entire task forest with the given snapshot
// atomically.
func (s *SQLite) SaveTasks(ctx context.Context, projectID string, forest []*task.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE id = ?`, projectID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking project: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("project %s: %w", projectID, task.ErrProjectNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	if err := insertForest(ctx, tx, projectID, forest); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ScheduleTask sets a task's scheduled instant, overwriting any prior one.
func (s *SQLite) ScheduleTask(ctx context.Context, taskID string, at time.Time) error {
	query := `UPDATE tasks SET scheduled_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, at.UnixMilli(), taskID)
	if err != nil {
		return fmt.Errorf("scheduling task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s: %w", taskID, task.ErrTaskNotFound)
	}

	return nil
}

// UnscheduleTask clears a task's scheduled instant. Unscheduling an
// already-unscheduled task is a no-op.
func (s *SQLite) UnscheduleTask(ctx context.Context, taskID string) error {
	query := `UPDATE tasks SET scheduled_at = NULL WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, taskID)
	if err != nil {
		return fmt.Errorf("unscheduling task: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s: %w", taskID, task.ErrTaskNotFound)
	}

	return nil
}

// SetTaskDuration updates a task's estimated minutes.
func (s *SQLite) SetTaskDuration(ctx context.Context, taskID string, minutes int) error {
	if minutes < 0 {
		return task.ErrNegativeMinutes
	}

	query := `UPDATE tasks SET estimated_minutes = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, minutes, taskID)
	if err != nil {
		return fmt.Errorf("setting task duration: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s: %w", taskID, task.ErrTaskNotFound)
	}

	return nil
}

// BatchSchedule applies all placements in a single transaction. Readers
// never observe a partially applied run.
func (s *SQLite) BatchSchedule(ctx context.Context, updates []task.ScheduleUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `UPDATE tasks SET scheduled_at = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, u := range updates {
		result, err := stmt.ExecContext(ctx, u.At.UnixMilli(), u.TaskID)
		if err != nil {
			return fmt.Errorf("scheduling task %s: %w", u.TaskID, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("task %s: %w", u.TaskID, task.ErrTaskNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ListScheduledInRange returns all tasks across all projects whose scheduled
// day falls within [start, end] inclusive, ordered by scheduled instant.
func (s *SQLite) ListScheduledInRange(ctx context.Context, start, end time.Time) ([]*task.Task, error) {
	from := dateutil.TruncateToDay(start)
	until := dateutil.TruncateToDay(end).AddDate(0, 0, 1)

	query := `
		SELECT id, title, status, estimated_minutes, scheduled_at, created_at
		FROM tasks
		WHERE scheduled_at IS NOT NULL
		  AND scheduled_at >= ? AND scheduled_at < ?
		ORDER BY scheduled_at
	`

	rows, err := s.db.QueryContext(ctx, query, from.UnixMilli(), until.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("querying scheduled tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scheduled tasks: %w", err)
	}

	return tasks, nil
}

// AppendChatMessage records one entry of a project's AI transcript.
func (s *SQLite) AppendChatMessage(ctx context.Context, msg *task.ChatMessage) error {
	query := `INSERT INTO chat_messages (project_id, role, content, created_at) VALUES (?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		msg.ProjectID,
		msg.Role,
		msg.Content,
		msg.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting chat message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	msg.ID = id

	return nil
}

// ListChatMessages returns a project's transcript in insertion order.
func (s *SQLite) ListChatMessages(ctx context.Context, projectID string) ([]*task.ChatMessage, error) {
	query := `
		SELECT id, project_id, role, content, created_at
		FROM chat_messages
		WHERE project_id = ?
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying chat messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []*task.ChatMessage
	for rows.Next() {
		var (
			m         task.ChatMessage
			createdAt string
		)
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chat message: %w", err)
		}

		m.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}

		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat messages: %w", err)
	}

	return msgs, nil
}

// AppendSession records a finished focus session.
func (s *SQLite) AppendSession(ctx context.Context, sess *session.Session) error {
	query := `
		INSERT INTO sessions (
			project_id, task_id, started_at, ended_at,
			planned_minutes, actual_minutes, completed, interrupt_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		sess.ProjectID,
		sess.TaskID,
		sess.StartedAt.UnixMilli(),
		sess.EndedAt.UnixMilli(),
		sess.PlannedMinutes,
		sess.ActualMinutes,
		sess.Completed,
		sess.InterruptReason,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	sess.ID = id

	return nil
}

// ListSessionsInRange returns sessions whose start falls within [start, end]
// inclusive, in start order.
func (s *SQLite) ListSessionsInRange(ctx context.Context, start, end time.Time) ([]*session.Session, error) {
	query := `
		SELECT id, project_id, task_id, started_at, ended_at,
		       planned_minutes, actual_minutes, completed, interrupt_reason
		FROM sessions
		WHERE started_at >= ? AND started_at <= ?
		ORDER BY started_at
	`

	rows, err := s.db.QueryContext(ctx, query, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*session.Session
	for rows.Next() {
		var (
			sess      session.Session
			startedAt int64
			endedAt   int64
		)
		err := rows.Scan(
			&sess.ID,
			&sess.ProjectID,
			&sess.TaskID,
			&startedAt,
			&endedAt,
			&sess.PlannedMinutes,
			&sess.ActualMinutes,
			&sess.Completed,
			&sess.InterruptReason,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}

		sess.StartedAt = time.UnixMilli(startedAt)
		sess.EndedAt = time.UnixMilli(endedAt)

		sessions = append(sessions, &sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// insertForest writes a task forest in pre-order, tracking parent links and
// sibling positions.
func insertForest(ctx context.Context, tx *sql.Tx, projectID string, forest []*task.Task) error {
	if len(forest) == 0 {
		return nil
	}

	query := `
		INSERT INTO tasks (
			id, project_id, parent_id, position, title, status,
			estimated_minutes, scheduled_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	position := 0
	var insert func(parentID any, nodes []*task.Task) error
	insert = func(parentID any, nodes []*task.Task) error {
		for _, t := range nodes {
			var scheduledAt any
			if t.ScheduledAt != nil {
				scheduledAt = t.ScheduledAt.UnixMilli()
			}

			_, err := stmt.ExecContext(ctx,
				t.ID,
				projectID,
				parentID,
				position,
				t.Title,
				t.Status,
				t.EstimatedMinutes,
				scheduledAt,
				t.CreatedAt.Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("inserting task %q: %w", t.Title, err)
			}
			position++

			if err := insert(t.ID, t.Children); err != nil {
				return err
			}
		}
		return nil
	}

	return insert(nil, forest)
}

// loadForest reads a project's tasks and rebuilds the tree. Rows come back
// in pre-order position, so children attach in their original sibling order.
func (s *SQLite) loadForest(ctx context.Context, projectID string) ([]*task.Task, error) {
	query := `
		SELECT id, parent_id, title, status, estimated_minutes, scheduled_at, created_at
		FROM tasks
		WHERE project_id = ?
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var forest []*task.Task
	byID := make(map[string]*task.Task)
	for rows.Next() {
		var (
			t           task.Task
			parentID    sql.NullString
			scheduledAt sql.NullInt64
			createdAt   string
		)
		err := rows.Scan(
			&t.ID,
			&parentID,
			&t.Title,
			&t.Status,
			&t.EstimatedMinutes,
			&scheduledAt,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}

		if scheduledAt.Valid {
			at := time.UnixMilli(scheduledAt.Int64)
			t.ScheduledAt = &at
		}

		t.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}

		byID[t.ID] = &t
		if parentID.Valid {
			parent, ok := byID[parentID.String]
			if !ok {
				return nil, fmt.Errorf("task %s references unknown parent %s", t.ID, parentID.String)
			}
			parent.Children = append(parent.Children, &t)
		} else {
			forest = append(forest, &t)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return forest, nil
}

// scanTask reads the flat task columns shared by range queries.
func scanTask(rows *sql.Rows) (*task.Task, error) {
	var (
		t           task.Task
		scheduledAt sql.NullInt64
		createdAt   string
	)
	err := rows.Scan(
		&t.ID,
		&t.Title,
		&t.Status,
		&t.EstimatedMinutes,
		&scheduledAt,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	if scheduledAt.Valid {
		at := time.UnixMilli(scheduledAt.Int64)
		t.ScheduledAt = &at
	}

	t.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &t, nil
}
