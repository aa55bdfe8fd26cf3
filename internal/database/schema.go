package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pharmastock/inventory-api/internal/category"
	"github.com/pharmastock/inventory-api/internal/historique"
	"github.com/pharmastock/inventory-api/internal/produitsensible"
)

// schemaStatements creates the tables and indexes if missing and widens
// columns that earlier schemas declared narrower.
func schemaStatements() []string {
	danger := []string{
		string(produitsensible.DangerHigh),
		string(produitsensible.DangerMedium),
		string(produitsensible.DangerLow),
	}
	kinds := []string{string(historique.KindNormal), string(historique.KindSensitive)}

	return []string{
		`CREATE TABLE IF NOT EXISTS produits (
			id SERIAL PRIMARY KEY,
			nom VARCHAR(255) NOT NULL,
			description TEXT,
			prix NUMERIC NOT NULL,
			categorie VARCHAR(64) NOT NULL CHECK (categorie IN (` + inList(category.Strings(category.All)) + `)),
			sous_categorie VARCHAR(255),
			quantite INT NOT NULL DEFAULT 0,
			seuil_alerte INT NOT NULL DEFAULT 10,
			image_url VARCHAR(1024),
			necessite_ordonnance BOOLEAN NOT NULL DEFAULT FALSE,
			classe_therapeutique VARCHAR(255),
			nom_fabricant VARCHAR(255),
			"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS produits_categorie_idx ON produits (categorie)`,
		`CREATE INDEX IF NOT EXISTS produits_ordonnance_idx ON produits (necessite_ordonnance)`,
		`CREATE TABLE IF NOT EXISTS produits_sensibles (
			id SERIAL PRIMARY KEY,
			nom VARCHAR(255) NOT NULL,
			description TEXT,
			prix NUMERIC NOT NULL,
			categorie VARCHAR(64) NOT NULL CHECK (categorie IN (` + inList(category.Strings(category.Sensitive)) + `)),
			sous_categorie VARCHAR(255),
			quantite INT NOT NULL DEFAULT 0,
			seuil_alerte INT NOT NULL DEFAULT 5,
			image_url VARCHAR(1024),
			necessite_ordonnance BOOLEAN NOT NULL DEFAULT TRUE,
			classe_therapeutique VARCHAR(255),
			nom_fabricant VARCHAR(255) NOT NULL,
			lot VARCHAR(255),
			niveau_danger VARCHAR(16) NOT NULL DEFAULT 'Élevé' CHECK (niveau_danger IN (` + inList(danger) + `)),
			restrictions_legales TEXT,
			"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS produits_sensibles_categorie_idx ON produits_sensibles (categorie)`,
		`CREATE TABLE IF NOT EXISTS historiques (
			id SERIAL PRIMARY KEY,
			action VARCHAR(32) NOT NULL,
			produit_id INT,
			produit_nom VARCHAR(255),
			type_produit VARCHAR(16) CHECK (type_produit IN (` + inList(kinds) + `)),
			utilisateur VARCHAR(160) NOT NULL DEFAULT 'Admin',
			details TEXT,
			checkout_id TEXT,
			"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS historiques_action_idx ON historiques (action)`,
		`CREATE INDEX IF NOT EXISTS historiques_produit_idx ON historiques (produit_id)`,
		`CREATE INDEX IF NOT EXISTS historiques_created_idx ON historiques ("createdAt" DESC)`,
		// older deployments rounded prices and capped checkout ids
		`ALTER TABLE produits ALTER COLUMN prix TYPE NUMERIC`,
		`ALTER TABLE produits_sensibles ALTER COLUMN prix TYPE NUMERIC`,
		`ALTER TABLE historiques ALTER COLUMN checkout_id TYPE TEXT`,
	}
}

// EnsureSchema runs every statement in a single transaction.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	for _, stmt := range schemaStatements() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return tx.Commit()
}

func inList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}
