package produitsensible

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/pharmastock/inventory-api/internal/category"
	"github.com/pharmastock/inventory-api/internal/storage"
)

type PostgresRepository struct {
	db *sql.DB
}

const sensitiveColumns = `id, nom, description, prix, categorie, sous_categorie, quantite, seuil_alerte, image_url, necessite_ordonnance, classe_therapeutique, nom_fabricant, lot, niveau_danger, restrictions_legales, "createdAt", "updatedAt"`

const (
	listSensitiveQuery = `
		SELECT ` + sensitiveColumns + `
		FROM produits_sensibles
		ORDER BY nom ASC, id ASC
	`
	getSensitiveByIDQuery = `
		SELECT ` + sensitiveColumns + `
		FROM produits_sensibles
		WHERE id = $1
	`
	insertSensitiveQuery = `
		INSERT INTO produits_sensibles (nom, description, prix, categorie, sous_categorie, quantite, seuil_alerte, image_url, necessite_ordonnance, classe_therapeutique, nom_fabricant, lot, niveau_danger, restrictions_legales, "createdAt", "updatedAt")
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING ` + sensitiveColumns
	updateSensitiveQuery = `
		UPDATE produits_sensibles
		SET nom = $1,
			description = $2,
			prix = $3,
			categorie = $4,
			sous_categorie = $5,
			quantite = $6,
			seuil_alerte = $7,
			image_url = $8,
			necessite_ordonnance = $9,
			classe_therapeutique = $10,
			nom_fabricant = $11,
			lot = $12,
			niveau_danger = $13,
			restrictions_legales = $14,
			"updatedAt" = $15
		WHERE id = $16
		RETURNING ` + sensitiveColumns
	deleteSensitiveQuery = `DELETE FROM produits_sensibles WHERE id = $1`
	countSensitiveQuery  = `SELECT COUNT(*) FROM produits_sensibles`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := storage.Conn(ctx, r.db).QueryContext(ctx, listSensitiveQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanSensitive(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	p, err := scanSensitive(storage.Conn(ctx, r.db).QueryRowContext(ctx, getSensitiveByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	row := storage.Conn(ctx, r.db).QueryRowContext(ctx,
		insertSensitiveQuery,
		p.Name,
		p.Description,
		p.Price,
		string(p.Category),
		p.SubCategory,
		p.Quantity,
		p.AlertThreshold,
		p.ImageURL,
		p.PrescriptionRequired,
		p.TherapeuticClass,
		p.Manufacturer,
		p.Lot,
		string(p.DangerLevel),
		p.LegalRestrictions,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return scanSensitive(row)
}

func (r *PostgresRepository) Update(ctx context.Context, p Product) (Product, error) {
	row := storage.Conn(ctx, r.db).QueryRowContext(ctx,
		updateSensitiveQuery,
		p.Name,
		p.Description,
		p.Price,
		string(p.Category),
		p.SubCategory,
		p.Quantity,
		p.AlertThreshold,
		p.ImageURL,
		p.PrescriptionRequired,
		p.TherapeuticClass,
		p.Manufacturer,
		p.Lot,
		string(p.DangerLevel),
		p.LegalRestrictions,
		p.UpdatedAt,
		p.ID,
	)
	updated, err := scanSensitive(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return updated, err
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	result, err := storage.Conn(ctx, r.db).ExecContext(ctx, deleteSensitiveQuery, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := storage.Conn(ctx, r.db).QueryRowContext(ctx, countSensitiveQuery).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSensitive(scanner rowScanner) (Product, error) {
	var (
		p            Product
		description  sql.NullString
		price        decimal.Decimal
		cat          string
		subCategory  sql.NullString
		imageURL     sql.NullString
		therapeutic  sql.NullString
		lot          sql.NullString
		danger       sql.NullString
		restrictions sql.NullString
	)
	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&description,
		&price,
		&cat,
		&subCategory,
		&p.Quantity,
		&p.AlertThreshold,
		&imageURL,
		&p.PrescriptionRequired,
		&therapeutic,
		&p.Manufacturer,
		&lot,
		&danger,
		&restrictions,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return Product{}, err
	}

	p.Price = price
	p.Category = category.Category(cat)
	p.ImageURL = imageURL.String
	if description.Valid {
		p.Description = &description.String
	}
	if subCategory.Valid {
		p.SubCategory = &subCategory.String
	}
	if therapeutic.Valid {
		p.TherapeuticClass = &therapeutic.String
	}
	if lot.Valid {
		p.Lot = &lot.String
	}
	p.DangerLevel = DangerHigh
	if danger.Valid {
		p.DangerLevel = DangerLevel(danger.String)
	}
	if restrictions.Valid {
		p.LegalRestrictions = &restrictions.String
	}
	return p, nil
}
