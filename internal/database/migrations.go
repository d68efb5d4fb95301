package database

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Up      string
	Down    string
}

// Migrations contains all database migrations
var Migrations = []Migration{
	{
		Version: 1,
		Up: `
			CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				email VARCHAR(255) UNIQUE NOT NULL,
				display_name VARCHAR(255) NOT NULL,
				role VARCHAR(50) NOT NULL DEFAULT 'applicant',
				password_hash VARCHAR(255) NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
		`,
		Down: `
			DROP TABLE IF EXISTS users;
		`,
	},
	{
		Version: 2,
		Up: `
			CREATE TABLE IF NOT EXISTS conversations (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				applicant_id UUID NOT NULL,
				recruiter_id UUID NOT NULL,
				job_id UUID NOT NULL,
				application_id UUID NOT NULL,
				status VARCHAR(50) NOT NULL DEFAULT 'active',
				risk_score INT NOT NULL DEFAULT 0,
				started_at TIMESTAMP NOT NULL DEFAULT NOW(),
				last_activity TIMESTAMP NOT NULL DEFAULT NOW(),
				reported_by UUID,
				report_reason TEXT,
				report_evidence TEXT[],
				reported_at TIMESTAMP,
				resolution TEXT,
				admin_notes TEXT,
				resolved_by UUID,
				resolved_at TIMESTAMP,
				UNIQUE(applicant_id, recruiter_id, job_id, application_id)
			);

			CREATE INDEX IF NOT EXISTS idx_conversations_applicant ON conversations(applicant_id, last_activity DESC);
			CREATE INDEX IF NOT EXISTS idx_conversations_recruiter ON conversations(recruiter_id, last_activity DESC);
			CREATE INDEX IF NOT EXISTS idx_conversations_status ON conversations(status);
		`,
		Down: `
			DROP TABLE IF EXISTS conversations;
		`,
	},
	{
		Version: 3,
		Up: `
			CREATE TABLE IF NOT EXISTS messages (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
				sender_id UUID,
				sender_type VARCHAR(50) NOT NULL,
				message_type VARCHAR(50) NOT NULL,
				body TEXT NOT NULL DEFAULT '',
				file_name TEXT,
				file_url TEXT,
				file_size BIGINT,
				mime_type VARCHAR(255),
				risk_analysis JSONB NOT NULL DEFAULT '{}',
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at);
			CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id);
		`,
		Down: `
			DROP TABLE IF EXISTS messages;
		`,
	},
	{
		Version: 4,
		Up: `
			CREATE TABLE IF NOT EXISTS message_reads (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				message_id UUID NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
				user_id UUID NOT NULL,
				read_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE(message_id, user_id)
			);

			CREATE INDEX IF NOT EXISTS idx_message_reads_message ON message_reads(message_id);
			CREATE INDEX IF NOT EXISTS idx_message_reads_user ON message_reads(user_id);
		`,
		Down: `
			DROP TABLE IF EXISTS message_reads;
		`,
	},
	{
		Version: 5,
		Up: `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INT PRIMARY KEY,
				applied_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`,
		Down: `
			DROP TABLE IF EXISTS schema_migrations;
		`,
	},
	{
		Version: 6,
		Up: `
			CREATE TABLE IF NOT EXISTS moderation_logs (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
				action VARCHAR(50) NOT NULL,
				actor_id UUID NOT NULL,
				reason TEXT,
				risk_score INT NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_moderation_logs_conversation ON moderation_logs(conversation_id);
		`,
		Down: `
			DROP TABLE IF EXISTS moderation_logs;
		`,
	},
}

// RunMigrations runs all pending migrations
func RunMigrations(db *sql.DB) error {
	// Ensure migrations table exists
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	// Get current version
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return err
	}

	// Run pending migrations in ascending order by version
	sorted := make([]Migration, len(Migrations))
	copy(sorted, Migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	// Run pending migrations
	for _, migration := range sorted {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d...\n", migration.Version)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("Migration %d completed\n", migration.Version)
	}

	return nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func getCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}
