package produit

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/pharmastock/inventory-api/internal/category"
)

func newTestApp(seed []Product) (*fiber.App, fixture) {
	f := newFixture(seed)
	app := fiber.New()
	NewHandler(f.service).RegisterPublicRoutes(app.Group("/api"))
	return app, f
}

func TestProduitRoutes_Registered(t *testing.T) {
	app, _ := newTestApp(nil)

	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Method+" "+r.Path] = true
		}
	}
	for _, want := range []string{
		"GET /api/produits",
		"POST /api/produits",
		"GET /api/produits/:id",
		"PUT /api/produits/:id",
		"DELETE /api/produits/:id",
	} {
		if !routes[want] {
			t.Fatalf("expected route %q to be registered", want)
		}
	}
}

func TestCreateProduit_Returns201WithDefaults(t *testing.T) {
	app, f := newTestApp(nil)

	body := `{"nom":"Test Produit","prix":10.5,"categorie":"Médicament Général","quantite":100}`
	req := httptest.NewRequest("POST", "/api/produits", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 201, got %d: %s", res.StatusCode, b)
	}

	var got map[string]any
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["nom"] != "Test Produit" || got["nom_fabricant"] != DefaultManufacturer {
		t.Fatalf("unexpected body %v", got)
	}
	if got["seuil_alerte"].(float64) != 10 || got["quantite"].(float64) != 100 {
		t.Fatalf("unexpected quantities %v", got)
	}
	if len(f.audit.Entries()) != 1 {
		t.Fatalf("expected one audit entry")
	}
}

func TestCreateProduit_MissingFieldsIs400(t *testing.T) {
	app, f := newTestApp(nil)

	for _, body := range []string{`{"nom":"Sans prix","categorie":"Digestif"}`, `{}`, `not json`} {
		req := httptest.NewRequest("POST", "/api/produits", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if res.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, res.StatusCode)
		}
		var e map[string]string
		_ = json.NewDecoder(res.Body).Decode(&e)
		if e["error"] == "" {
			t.Fatalf("body %q: expected error message", body)
		}
	}
	if n, _ := f.repo.Count(context.Background()); n != 0 {
		t.Fatalf("catalog must stay empty, got %d", n)
	}
}

func TestGetProduit(t *testing.T) {
	app, _ := newTestApp([]Product{{ID: 12, Name: "Efferalgan", Price: decimal.RequireFromString("2.1"), Category: category.Analgesics}})

	res, err := app.Test(httptest.NewRequest("GET", "/api/produits/12", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"nom":"Efferalgan"`) {
		t.Fatalf("unexpected body %s", b)
	}

	res404, _ := app.Test(httptest.NewRequest("GET", "/api/produits/13", nil))
	if res404.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res404.StatusCode)
	}
	var e map[string]string
	_ = json.NewDecoder(res404.Body).Decode(&e)
	if e["error"] != "Produit non trouvé" {
		t.Fatalf("unexpected error body %v", e)
	}

	res400, _ := app.Test(httptest.NewRequest("GET", "/api/produits/abc", nil))
	if res400.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", res400.StatusCode)
	}
}

func TestUpdateProduit(t *testing.T) {
	app, _ := newTestApp([]Product{{ID: 2, Name: "Old", Price: decimal.RequireFromString("1"), Category: category.General, Quantity: 7}})

	req := httptest.NewRequest("PUT", "/api/produits/2", strings.NewReader(`{"nom":"New","id":99}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var got map[string]any
	_ = json.NewDecoder(res.Body).Decode(&got)
	if got["nom"] != "New" || got["id"].(float64) != 2 || got["quantite"].(float64) != 7 {
		t.Fatalf("unexpected body %v", got)
	}

	req404 := httptest.NewRequest("PUT", "/api/produits/3", strings.NewReader(`{"nom":"New"}`))
	req404.Header.Set("Content-Type", "application/json")
	res404, _ := app.Test(req404)
	if res404.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res404.StatusCode)
	}
}

func TestDeleteProduit(t *testing.T) {
	app, f := newTestApp([]Product{{ID: 4, Name: "Toplexil", Category: category.General}})

	res, err := app.Test(httptest.NewRequest("DELETE", "/api/produits/4", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if len(b) != 0 {
		t.Fatalf("expected empty body, got %q", b)
	}
	if *f.audit.Entries()[0].ProductName != "Toplexil" {
		t.Fatalf("expected name snapshot in audit")
	}

	res404, _ := app.Test(httptest.NewRequest("DELETE", "/api/produits/4", nil))
	if res404.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res404.StatusCode)
	}
}
