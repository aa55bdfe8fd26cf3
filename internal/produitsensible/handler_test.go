package produitsensible

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestSensitiveRoutes_RoundTripOverHTTP(t *testing.T) {
	svc, _ := newTestService(nil)
	app := fiber.New()
	NewHandler(svc).RegisterPublicRoutes(app)

	body := `{
		"nom": "Méthadone 20mg",
		"description": "Traitement de substitution",
		"prix": 4.5,
		"categorie": "Morphiniques",
		"sous_categorie": "Opioïdes",
		"quantite": 8,
		"seuil_alerte": 2,
		"image_url": "/img/methadone.png",
		"necessite_ordonnance": true,
		"classe_therapeutique": "Agonistes opioïdes",
		"nom_fabricant": "Bouchara",
		"lot": "M-2024-01",
		"niveau_danger": "Moyen",
		"restrictions_legales": "Stupéfiant"
	}`
	req := httptest.NewRequest("POST", "/produits-sensibles", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 201, got %d: %s", res.StatusCode, b)
	}
	var created map[string]any
	_ = json.NewDecoder(res.Body).Decode(&created)

	res2, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/produits-sensibles/%v", created["id"]), nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res2.StatusCode)
	}
	var fetched map[string]any
	_ = json.NewDecoder(res2.Body).Decode(&fetched)

	var sent map[string]any
	_ = json.Unmarshal([]byte(body), &sent)
	for k, v := range sent {
		if k == "prix" {
			continue
		}
		if fetched[k] != v {
			t.Fatalf("field %s: sent %v, fetched %v", k, v, fetched[k])
		}
	}
}

func TestSensitiveHandler_Errors(t *testing.T) {
	svc, _ := newTestService(nil)
	app := fiber.New()
	NewHandler(svc).RegisterPublicRoutes(app)

	req := httptest.NewRequest("POST", "/produits-sensibles", strings.NewReader(`{"nom":"X","prix":1,"categorie":"Morphiniques"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without manufacturer, got %d", res.StatusCode)
	}
	var e map[string]string
	_ = json.NewDecoder(res.Body).Decode(&e)
	if e["error"] != "Nom, prix, catégorie et nom du fabricant sont obligatoires" {
		t.Fatalf("unexpected error %v", e)
	}

	res2, _ := app.Test(httptest.NewRequest("DELETE", "/produits-sensibles/77", nil))
	if res2.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res2.StatusCode)
	}

	res3, _ := app.Test(httptest.NewRequest("GET", "/produits-sensibles/x", nil))
	if res3.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res3.StatusCode)
	}
}
