package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS organizations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		attributes JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		org_id UUID NOT NULL REFERENCES organizations(id),
		email VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'MEMBER',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (email);`,
	`CREATE TABLE IF NOT EXISTS contract_templates (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		category VARCHAR(64) NOT NULL DEFAULT '',
		version INTEGER NOT NULL DEFAULT 1,
		is_system BOOLEAN NOT NULL DEFAULT FALSE,
		owner_org_id UUID REFERENCES organizations(id),
		created_by UUID REFERENCES users(id),
		fields JSONB NOT NULL DEFAULT '[]'::jsonb,
		body TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contract_templates_owner ON contract_templates (owner_org_id) WHERE active = TRUE;`,
	`CREATE TABLE IF NOT EXISTS generated_contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		template_id UUID NOT NULL,
		template_name VARCHAR(255) NOT NULL,
		form_data JSONB NOT NULL DEFAULT '{}'::jsonb,
		content TEXT NOT NULL,
		owner_org_id UUID NOT NULL REFERENCES organizations(id),
		created_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_generated_contracts_owner ON generated_contracts (owner_org_id, created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_generated_contracts_template ON generated_contracts (template_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
