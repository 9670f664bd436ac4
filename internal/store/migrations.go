package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Topics table - one row per brochure page
		`CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY,
			page_index INTEGER NOT NULL UNIQUE,
			title TEXT NOT NULL,
			subtitle TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL CHECK(kind IN ('cover', 'standard', 'list')),
			theme TEXT NOT NULL,
			art TEXT NOT NULL DEFAULT 'none',
			body TEXT NOT NULL DEFAULT '[]',
			pools TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_topics_page_index ON topics(page_index)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
