package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"scopedocs/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, catalog service.CatalogService, bridge service.LibraryBridge) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	ns := app.Group("/namespaces/:namespace")
	ns.Get("/documents", ListDocuments(catalog))
	ns.Post("/documents", UploadDocuments(catalog))
	ns.Post("/imports", ImportDocuments(bridge))

	app.Get("/library/documents", BrowseLibrary(bridge))

	app.Get("/documents/:id/content", DownloadDocument(catalog))
	app.Delete("/documents/:id", DeleteDocument(catalog))
}
