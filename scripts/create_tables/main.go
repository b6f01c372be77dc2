package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Read environment to determine table prefix
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	prefix := env + "_"
	if override := os.Getenv("TABLE_PREFIX"); override != "" {
		prefix = override
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	schemaSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]susers (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS %[1]sdocuments (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL DEFAULT 'Untitled',
			icon TEXT NOT NULL DEFAULT '',
			cover_image TEXT NOT NULL DEFAULT '',
			is_public BOOLEAN NOT NULL DEFAULT true,
			is_favorite BOOLEAN NOT NULL DEFAULT false,
			created_by UUID NOT NULL REFERENCES %[1]susers(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_edited_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			parent_id UUID REFERENCES %[1]sdocuments(id) ON DELETE SET NULL
		);
		CREATE INDEX IF NOT EXISTS %[1]sdocuments_last_edited_idx
			ON %[1]sdocuments (last_edited_at DESC);

		CREATE TABLE IF NOT EXISTS %[1]sblocks (
			id UUID PRIMARY KEY,
			document_id UUID NOT NULL REFERENCES %[1]sdocuments(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			properties JSONB NOT NULL DEFAULT '{}',
			block_order INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS %[1]sblocks_document_idx
			ON %[1]sblocks (document_id, block_order);

		CREATE TABLE IF NOT EXISTS %[1]stags (
			id UUID PRIMARY KEY,
			document_id UUID NOT NULL REFERENCES %[1]sdocuments(id) ON DELETE CASCADE,
			tag TEXT NOT NULL,
			UNIQUE (document_id, tag)
		);
	`, prefix)

	if _, err := db.Exec(schemaSQL); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	fmt.Printf("All tables created successfully (prefix: %s)\n", prefix)
}
