package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/routemap/internal/adapters/http"
	"github.com/samirrijal/routemap/internal/core/domain"
)

// findOpenAPISpec locates the openapi.yaml file by walking up from the test directory.
func findOpenAPISpec(t *testing.T) string {
	// Start from the current working directory or test file location
	dir, _ := os.Getwd()

	// Look for api/openapi.yaml by going up directories
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "api", "openapi.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}

	t.Fatalf("could not find api/openapi.yaml")
	return ""
}

// TestOpenAPISpec validates the OpenAPI document.
func TestOpenAPISpec(t *testing.T) {
	// Load the document
	specPath := findOpenAPISpec(t)
	data, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	// Parse YAML spec
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}

	// Validate it
	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	// Every route registered by SetupRoutes under /v1 and /graphql
	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/chart.svg",
		"/v1/chart.png",
		"/v1/map.svg",
		"/v1/map.pdf",
		"/v1/airlines",
		"/v1/airlines/{id}",
		"/v1/airlines/{id}/routes",
		"/v1/airlines/{id}/lines",
		"/v1/airports",
		"/v1/airports/nearby",
		"/v1/dataset",
		"/v1/dataset/reload",
		"/graphql",
	}

	for _, path := range expectedPaths {
		if item := spec.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found in spec", path)
		}
	}

	// Verify key schemas exist
	expectedSchemas := []string{
		"Airline",
		"Airport",
		"Route",
		"RouteLine",
		"LineDiff",
		"DatasetStatus",
		"APIError",
		"Pagination",
	}

	for _, schema := range expectedSchemas {
		if spec.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	t.Logf("OpenAPI spec valid: %d paths, %d schemas", len(spec.Paths.Map()), len(spec.Components.Schemas))
}

// TestOpenAPIInfo verifies spec metadata.
func TestOpenAPIInfo(t *testing.T) {
	specPath := findOpenAPISpec(t)
	data, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}

	if spec.Info.Title != "routemap API" {
		t.Errorf("expected title 'routemap API', got %q", spec.Info.Title)
	}

	if spec.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", spec.Info.Version)
	}

	if spec.Info.Description == "" {
		t.Error("expected non-empty description")
	}

	if len(spec.Servers) == 0 {
		t.Error("expected at least one server")
	}

	t.Logf("OpenAPI Info: %s v%s @ %s", spec.Info.Title, spec.Info.Version, spec.Servers[0].URL)
}

// TestOpenAPISchemasMatchJSON checks that documented schemas list every field
// the domain types marshal to.
func TestOpenAPISchemasMatchJSON(t *testing.T) {
	data, err := os.ReadFile(findOpenAPISpec(t))
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}
	spec, err := (&openapi3.Loader{}).LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}

	cases := map[string]interface{}{
		"Airline":       domain.AirlineAggregate{},
		"Airport":       domain.AirportAggregate{},
		"Route":         domain.Route{},
		"RouteLine":     domain.RouteLine{},
		"DatasetStatus": domain.DatasetStatus{},
		"LineDiff":      domain.LineDiff{Highlights: []domain.Highlight{{}}},
	}
	for name, v := range cases {
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			t.Fatal(err)
		}
		schema := spec.Components.Schemas[name]
		if schema == nil {
			t.Errorf("schema %s missing", name)
			continue
		}
		for field := range fields {
			if _, ok := schema.Value.Properties[field]; !ok {
				t.Errorf("schema %s lacks property %s", name, field)
			}
		}
	}
}

// TestDocsServeBothEncodings checks the loaded document is served as YAML
// and JSON.
func TestDocsServeBothEncodings(t *testing.T) {
	specPath := findOpenAPISpec(t)
	app := setupApp(makeDeps(func(d *handler.Dependencies) { d.SpecPath = specPath }))

	resp, _ := app.Test(httptest.NewRequest("GET", "/docs/openapi.json", nil), -1)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
	}
	if err := json.Unmarshal(readBody(t, resp.Body), &doc); err != nil {
		t.Fatalf("decode json document: %v", err)
	}
	if doc.Info.Title != "routemap API" {
		t.Errorf("unexpected title %q", doc.Info.Title)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/docs/openapi.yaml", nil), -1)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("unexpected content type %q", ct)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/docs", nil), -1)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for /docs, got %d", resp.StatusCode)
	}
}

func TestDocsMissingDocument(t *testing.T) {
	app := setupApp(makeDeps(func(d *handler.Dependencies) { d.SpecPath = "does/not/exist.yaml" }))

	resp, _ := app.Test(httptest.NewRequest("GET", "/docs/openapi.json", nil), -1)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
