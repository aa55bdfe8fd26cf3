package historique

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pharmastock/inventory-api/internal/storage"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertEntryQuery = `
		INSERT INTO historiques (action, produit_id, produit_nom, type_produit, utilisateur, details, checkout_id, "createdAt", "updatedAt")
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
		RETURNING id
	`
	selectEntriesQuery = `
		SELECT id, action, produit_id, produit_nom, type_produit, utilisateur, details, checkout_id, "createdAt"
		FROM historiques
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e Entry) (Entry, error) {
	var kind *string
	if e.Kind != nil {
		k := string(*e.Kind)
		kind = &k
	}
	err := storage.Conn(ctx, r.db).QueryRowContext(ctx, insertEntryQuery,
		string(e.Action),
		e.ProductID,
		e.ProductName,
		kind,
		e.Actor,
		e.Details,
		e.CheckoutID,
		e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (r *PostgresRepository) Query(ctx context.Context, f Filter) ([]Entry, error) {
	conds := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if f.Action != "" {
		args = append(args, f.Action)
		conds = append(conds, fmt.Sprintf("action = $%d", len(args)))
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		conds = append(conds, fmt.Sprintf("type_produit = $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(selectEntriesQuery)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(` ORDER BY "createdAt" DESC, id DESC`)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}

	rows, err := storage.Conn(ctx, r.db).QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(scanner rowScanner) (Entry, error) {
	var (
		e          Entry
		action     string
		productID  sql.NullInt64
		name       sql.NullString
		kind       sql.NullString
		actor      sql.NullString
		details    sql.NullString
		checkoutID sql.NullString
	)
	if err := scanner.Scan(&e.ID, &action, &productID, &name, &kind, &actor, &details, &checkoutID, &e.CreatedAt); err != nil {
		return Entry{}, err
	}
	e.Action = Action(action)
	if productID.Valid {
		id := int(productID.Int64)
		e.ProductID = &id
	}
	if name.Valid {
		e.ProductName = &name.String
	}
	if kind.Valid {
		k := Kind(kind.String)
		e.Kind = &k
	}
	e.Actor = DefaultActor
	if actor.Valid {
		e.Actor = actor.String
	}
	if details.Valid {
		e.Details = &details.String
	}
	if checkoutID.Valid {
		e.CheckoutID = &checkoutID.String
	}
	return e, nil
}
