package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/bakery/internal/images"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, imageStore images.Store) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db, Images: imageStore}
	healthHandler := &HealthHandler{DB: db}

	// Collection routes answer with and without the trailing slash.
	mux.HandleFunc("POST /items/{$}", itemsHandler.Create)
	mux.HandleFunc("POST /items", itemsHandler.Create)
	mux.HandleFunc("GET /items/{$}", itemsHandler.List)
	mux.HandleFunc("GET /items", itemsHandler.List)

	mux.HandleFunc("GET /items/{id}", itemsHandler.Get)
	mux.HandleFunc("PUT /items/{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /items/{id}", itemsHandler.Delete)

	// Uploaded images, referenced by an item's image_path.
	mux.Handle("GET /"+images.Prefix+"{name}", images.Handler(imageStore))

	mux.HandleFunc("GET /healthz", healthHandler.Check)

	return CORSMiddleware(mux)
}
