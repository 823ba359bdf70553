package images

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// Handler serves GET /images/{name} from the store.
func Handler(s Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if !validName(name) {
			http.NotFound(w, r)
			return
		}

		rc, err := s.Open(r.Context(), name)
		if errors.Is(err, ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("failed to open image", "name", name, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", contentType(name))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		if _, err := io.Copy(w, rc); err != nil {
			slog.Error("failed to write image response", "name", name, "error", err)
		}
	})
}
