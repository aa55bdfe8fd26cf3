package produit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/pharmastock/inventory-api/internal/apperror"
	"github.com/pharmastock/inventory-api/internal/category"
)

var produitColumns = []string{"id", "nom", "description", "prix", "categorie", "sous_categorie", "quantite", "seuil_alerte", "image_url", "necessite_ordonnance", "classe_therapeutique", "nom_fabricant", "createdAt", "updatedAt"}

func TestPostgresList_ScansNullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	at := time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(produitColumns).
		AddRow(2, "Aspirine", nil, "3.10", "Analgésiques", nil, 5, 10, nil, false, nil, nil, at, at).
		AddRow(1, "Betadine", "Antiseptique", "6.00", "Dermatologique", "Solutions", 30, 10, "/img/b.png", false, "Antiseptiques", "Viatris", at, at)
	mock.ExpectQuery("FROM produits\\s+ORDER BY nom ASC").WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
	if got[0].Description != nil || got[0].ImageURL != "" || got[0].Manufacturer != DefaultManufacturer {
		t.Fatalf("unexpected null handling %+v", got[0])
	}
	if !got[0].Price.Equal(decimal.RequireFromString("3.1")) || got[0].Category != category.Analgesics {
		t.Fatalf("unexpected price/category %+v", got[0])
	}
	if got[1].SubCategory == nil || *got[1].SubCategory != "Solutions" || *got[1].TherapeuticClass != "Antiseptiques" {
		t.Fatalf("unexpected optional fields %+v", got[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM produits\\s+WHERE id = \\$1").WithArgs(42).WillReturnRows(sqlmock.NewRows(produitColumns))

	_, err = repo.GetByID(context.Background(), 42)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate_ReturnsStoredRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	at := time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)
	p := Product{
		Name:           "Spasfon",
		Price:          decimal.RequireFromString("4.75"),
		Category:       category.Digestive,
		Quantity:       20,
		AlertThreshold: 10,
		Manufacturer:   DefaultManufacturer,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	mock.ExpectQuery("INSERT INTO produits").
		WithArgs("Spasfon", nil, p.Price, "Digestif", nil, 20, 10, "", false, nil, DefaultManufacturer, at, at).
		WillReturnRows(sqlmock.NewRows(produitColumns).
			AddRow(17, "Spasfon", nil, "4.8", "Digestif", nil, 20, 10, "", false, nil, DefaultManufacturer, at, at))

	created, err := repo.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 17 {
		t.Fatalf("expected id 17, got %d", created.ID)
	}
	// the row the database returns wins over the input
	if !created.Price.Equal(decimal.RequireFromString("4.8")) {
		t.Fatalf("expected stored price, got %s", created.Price)
	}
	if created.Name != "Spasfon" || created.Quantity != 20 || !created.CreatedAt.Equal(at) {
		t.Fatalf("unexpected row %+v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdate_ReturnsRowOrNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)
	p := Product{ID: 5, Name: "Gaviscon", Price: decimal.RequireFromString("5.5"), Category: category.Digestive, Manufacturer: "Reckitt", UpdatedAt: updated}

	mock.ExpectQuery("UPDATE produits").
		WithArgs("Gaviscon", nil, p.Price, "Digestif", nil, 0, 0, "", false, nil, "Reckitt", updated, 5).
		WillReturnRows(sqlmock.NewRows(produitColumns).
			AddRow(5, "Gaviscon", nil, "5.5", "Digestif", nil, 0, 0, "", false, nil, "Reckitt", created, updated))
	mock.ExpectQuery("UPDATE produits").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 6).
		WillReturnRows(sqlmock.NewRows(produitColumns))

	got, err := repo.Update(context.Background(), p)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("expected createdAt from the row, got %s", got.CreatedAt)
	}

	p.ID = 6
	if _, err := repo.Update(context.Background(), p); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateQuantityAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE produits SET quantite").WithArgs(25, 3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE produits SET quantite").WithArgs(1, 4).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM produits").WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM produits").WithArgs(3).WillReturnError(errors.New("connection reset"))

	if err := repo.UpdateQuantity(ctx, 3, 25); err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if err := repo.UpdateQuantity(ctx, 4, 1); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Delete(ctx, 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, 3); err == nil || err.Error() != "connection reset" {
		t.Fatalf("expected driver error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM produits").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("SELECT COUNT\\(DISTINCT categorie\\) FROM produits").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.Count(context.Background())
	if err != nil || n != 12 {
		t.Fatalf("count: %d %v", n, err)
	}
	c, err := repo.CountCategories(context.Background())
	if err != nil || c != 4 {
		t.Fatalf("count categories: %d %v", c, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
