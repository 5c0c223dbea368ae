package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
)

// DefaultSpecPath is where the OpenAPI document lives relative to the
// working directory of the api binary.
const DefaultSpecPath = "api/openapi.yaml"

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>routemap API</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <style>body{margin:0;background:#fafafa}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/docs/openapi.json',
      dom_id: '#swagger-ui',
      deepLinking: true,
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: 'BaseLayout',
    });
  </script>
</body>
</html>`

// apiDocument is the OpenAPI document in both encodings.
type apiDocument struct {
	yaml []byte
	json []byte
}

// loadAPIDocument reads and validates the document at path.
func loadAPIDocument(path string) (*apiDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := openapi3.NewLoader().LoadFromData(raw)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, err
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return &apiDocument{yaml: raw, json: js}, nil
}

// SetupDocs registers Swagger UI at /docs and the OpenAPI document at
// /docs/openapi.yaml and /docs/openapi.json. The document is loaded and
// validated once; when that fails the document routes answer 404 and the
// rest of the API is unaffected.
func SetupDocs(app *fiber.App, specPath string) {
	if specPath == "" {
		specPath = DefaultSpecPath
	}
	doc, err := loadAPIDocument(specPath)
	if err != nil {
		slog.Warn("openapi document unavailable", "path", specPath, "error", err)
	}

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(swaggerUIHTML)
	})

	serve := func(contentType string, body func(*apiDocument) []byte) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if doc == nil {
				return errNotFound(c, "openapi document not found")
			}
			c.Set(fiber.HeaderContentType, contentType)
			return c.Send(body(doc))
		}
	}
	app.Get("/docs/openapi.yaml", serve("application/yaml", func(d *apiDocument) []byte { return d.yaml }))
	app.Get("/docs/openapi.json", serve(fiber.MIMEApplicationJSON, func(d *apiDocument) []byte { return d.json }))
}
