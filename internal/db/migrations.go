package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS projects (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT DEFAULT 'active' CHECK(status IN ('active', 'archived')),
			created_at  DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id                TEXT PRIMARY KEY,
			project_id        TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			parent_id         TEXT REFERENCES tasks(id) ON DELETE CASCADE,
			position          INTEGER NOT NULL,
			title             TEXT NOT NULL,
			status            TEXT DEFAULT 'todo' CHECK(status IN ('todo', 'in_progress', 'completed')),
			estimated_minutes INTEGER NOT NULL DEFAULT 0,
			scheduled_at      INTEGER,
			created_at        DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sessions (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id       TEXT NOT NULL,
			task_id          TEXT NOT NULL DEFAULT '',
			started_at       INTEGER NOT NULL,
			ended_at         INTEGER NOT NULL,
			planned_minutes  INTEGER NOT NULL,
			actual_minutes   INTEGER NOT NULL,
			completed        INTEGER NOT NULL,
			interrupt_reason TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS chat_messages (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			role       TEXT NOT NULL CHECK(role IN ('user', 'assistant')),
			content    TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_scheduled ON tasks(scheduled_at);
		CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);
		CREATE INDEX IF NOT EXISTS idx_chat_project ON chat_messages(project_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return nil
}
