package produit

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

const productColumns = `id, nom, description, prix, categorie, sous_categorie, quantite, seuil_alerte, image_url, necessite_ordonnance, classe_therapeutique, nom_fabricant, "createdAt", "updatedAt"`

const (
	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM produits
		ORDER BY nom ASC, id ASC
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM produits
		WHERE id = $1
	`
	insertProductQuery = `
		INSERT INTO produits (nom, description, prix, categorie, sous_categorie, quantite, seuil_alerte, image_url, necessite_ordonnance, classe_therapeutique, nom_fabricant, "createdAt", "updatedAt")
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING ` + productColumns
	updateProductQuery = `
		UPDATE produits
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
			"updatedAt" = $12
		WHERE id = $13
		RETURNING ` + productColumns
	updateQuantityQuery  = `UPDATE produits SET quantite = $1, "updatedAt" = NOW() WHERE id = $2`
	deleteProductQuery   = `DELETE FROM produits WHERE id = $1`
	countProductsQuery   = `SELECT COUNT(*) FROM produits`
	countCategoriesQuery = `SELECT COUNT(DISTINCT categorie) FROM produits`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := storage.Conn(ctx, r.db).QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	row := storage.Conn(ctx, r.db).QueryRowContext(ctx, getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// Create returns the row as stored, so column defaults and numeric
// normalisation are reflected in the result.
func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	row := storage.Conn(ctx, r.db).QueryRowContext(ctx,
		insertProductQuery,
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
		p.CreatedAt,
		p.UpdatedAt,
	)
	return scanProduct(row)
}

func (r *PostgresRepository) Update(ctx context.Context, p Product) (Product, error) {
	row := storage.Conn(ctx, r.db).QueryRowContext(ctx,
		updateProductQuery,
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
		p.UpdatedAt,
		p.ID,
	)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return updated, nil
}

func (r *PostgresRepository) UpdateQuantity(ctx context.Context, id, quantity int) error {
	result, err := storage.Conn(ctx, r.db).ExecContext(ctx, updateQuantityQuery, quantity, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	result, err := storage.Conn(ctx, r.db).ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := storage.Conn(ctx, r.db).QueryRowContext(ctx, countProductsQuery).Scan(&n)
	return n, err
}

func (r *PostgresRepository) CountCategories(ctx context.Context) (int, error) {
	var n int
	err := storage.Conn(ctx, r.db).QueryRowContext(ctx, countCategoriesQuery).Scan(&n)
	return n, err
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	var (
		p            Product
		description  sql.NullString
		price        decimal.Decimal
		cat          string
		subCategory  sql.NullString
		imageURL     sql.NullString
		therapeutic  sql.NullString
		manufacturer sql.NullString
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
		&manufacturer,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return Product{}, err
	}

	p.Price = price
	p.Category = category.Category(cat)
	if description.Valid {
		p.Description = &description.String
	}
	if subCategory.Valid {
		p.SubCategory = &subCategory.String
	}
	p.ImageURL = imageURL.String
	if therapeutic.Valid {
		p.TherapeuticClass = &therapeutic.String
	}
	p.Manufacturer = DefaultManufacturer
	if manufacturer.Valid {
		p.Manufacturer = manufacturer.String
	}
	return p, nil
}
