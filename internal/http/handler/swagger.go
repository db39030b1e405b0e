package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "scopedocs/docs"
)

// RegisterDocs serves the registered OpenAPI document and Swagger UI under
// /swagger. The document leaves host and schemes empty, so clients resolve
// them against the URL they fetched it from and no per-request state is kept.
func RegisterDocs(app *fiber.App) {
	app.Get("/swagger/*", swagger.HandlerDefault)
}
