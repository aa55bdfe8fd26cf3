package statistique

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/pharmastock/inventory-api/internal/category"
	"github.com/pharmastock/inventory-api/internal/storage"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	categoryStatsQuery = `
		SELECT categorie,
			COUNT(id) AS total,
			COALESCE(SUM(quantite), 0) AS quantite_totale,
			ROUND(AVG(prix)::numeric, 2) AS prix_moyen
		FROM produits
		GROUP BY categorie
		ORDER BY total DESC, categorie ASC
	`
	lowStockAlertsQuery = `
		SELECT id, nom, categorie, quantite, seuil_alerte
		FROM produits
		WHERE quantite <= seuil_alerte
	`
	therapeuticClassesQuery = `
		SELECT DISTINCT classe_therapeutique
		FROM produits
		WHERE classe_therapeutique IS NOT NULL AND classe_therapeutique <> ''
		ORDER BY classe_therapeutique ASC
	`
	lowStockAlertsCategoryFilter = ` AND categorie = ANY($1)`
	lowStockAlertsOrder          = ` ORDER BY categorie ASC, quantite ASC, id ASC`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	rows, err := storage.Conn(ctx, r.db).QueryContext(ctx, categoryStatsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CategoryStat, 0)
	for rows.Next() {
		var (
			s   CategoryStat
			cat string
			avg decimal.NullDecimal
		)
		if err := rows.Scan(&cat, &s.Total, &s.TotalQuantity, &avg); err != nil {
			return nil, err
		}
		s.Category = category.Category(cat)
		if avg.Valid {
			s.AveragePrice = avg.Decimal
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) LowStockAlerts(ctx context.Context, categories []category.Category) ([]Alert, error) {
	q := lowStockAlertsQuery
	var args []any
	if len(categories) > 0 {
		q += lowStockAlertsCategoryFilter
		args = append(args, pq.Array(category.Strings(categories)))
	}
	q += lowStockAlertsOrder

	rows, err := storage.Conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Alert, 0)
	for rows.Next() {
		var (
			a   Alert
			cat string
		)
		if err := rows.Scan(&a.ID, &a.Name, &cat, &a.Quantity, &a.AlertThreshold); err != nil {
			return nil, err
		}
		a.Category = category.Category(cat)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) TherapeuticClasses(ctx context.Context) ([]string, error) {
	rows, err := storage.Conn(ctx, r.db).QueryContext(ctx, therapeuticClassesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
