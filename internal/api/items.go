package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	"github.com/erazemk/bakery/internal/images"
	"github.com/erazemk/bakery/internal/model"
	"github.com/erazemk/bakery/internal/store"
)

const itemNotFound = "Item not found"

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB     *sql.DB
	Images images.Store
}

// List handles GET /items/.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, "failed to list items", err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /items/.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := parseItemForm(w, r)
	if err != nil {
		writeFormError(w, r, err)
		return
	}
	if form.Name == nil {
		jsonError(w, http.StatusUnprocessableEntity, "name: field required")
		return
	}
	if form.Price == nil {
		jsonError(w, http.StatusUnprocessableEntity, "price: field required")
		return
	}

	item := model.Item{
		ID:          store.NewItemID(),
		Name:        *form.Name,
		Price:       *form.Price,
		Description: form.Description,
	}

	if form.Image != nil {
		path, err := h.saveImage(r.Context(), item.ID, form.Image)
		if err != nil {
			serverError(w, r, "failed to save image", err)
			return
		}
		item.ImagePath = &path
	}

	created, err := store.CreateItem(r.Context(), h.DB, item)
	if err != nil {
		serverError(w, r, "failed to create item", err)
		return
	}

	jsonResponse(w, http.StatusOK, created)
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, itemNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "failed to get item", err)
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /items/{id}. Only supplied fields are changed.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	form, err := parseItemForm(w, r)
	if err != nil {
		writeFormError(w, r, err)
		return
	}

	// Check existence first so a missing item never gets an image written.
	if _, err := store.GetItem(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, http.StatusNotFound, itemNotFound)
			return
		}
		serverError(w, r, "failed to get item", err)
		return
	}

	update := store.ItemUpdate{
		Name:        form.Name,
		Price:       form.Price,
		Description: form.Description,
	}

	// The previous image file, if any, is left in place.
	if form.Image != nil {
		path, err := h.saveImage(r.Context(), id, form.Image)
		if err != nil {
			serverError(w, r, "failed to save image", err)
			return
		}
		update.ImagePath = &path
	}

	item, err := store.UpdateItem(r.Context(), h.DB, id, update)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, itemNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "failed to update item", err)
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /items/{id}. The item's image file is kept.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	err := store.DeleteItem(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, itemNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "failed to delete item", err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}

// saveImage writes an upload as {id}{ext} and returns its image_path.
func (h *ItemsHandler) saveImage(ctx context.Context, id string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	name := images.FileName(id, fh.Filename)
	if err := h.Images.Save(ctx, name, f, fh.Size); err != nil {
		return "", err
	}
	return images.Path(name), nil
}

// itemID parses the {id} path value as a UUID and returns its canonical form.
func itemID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusUnprocessableEntity, "id: invalid UUID")
		return "", false
	}
	return id.String(), true
}
