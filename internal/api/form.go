package api

import (
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
)

// Request bodies above maxBodySize are rejected; multipart parts beyond
// maxFormMemory are spooled to temporary files.
const (
	maxBodySize   = 32 << 20
	maxFormMemory = 8 << 20
)

// itemForm holds the supplied fields of an item form. A field is nil when it
// was omitted or sent empty.
type itemForm struct {
	Name        *string
	Price       *float64
	Description *string
	Image       *multipart.FileHeader
}

// formError is a request-shape failure reported to the client.
type formError struct {
	status int
	detail string
}

func (e *formError) Error() string { return e.detail }

// parseItemForm reads an urlencoded or multipart item form.
func parseItemForm(w http.ResponseWriter, r *http.Request) (*itemForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &formError{http.StatusRequestEntityTooLarge, "request body too large"}
		}
		return nil, &formError{http.StatusUnprocessableEntity, "invalid form body"}
	}

	form := &itemForm{
		Name:        formValue(r, "name"),
		Description: formValue(r, "description"),
	}

	if v := formValue(r, "price"); v != nil {
		price, err := strconv.ParseFloat(*v, 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			return nil, &formError{http.StatusUnprocessableEntity, fmt.Sprintf("price: %q is not a valid number", *v)}
		}
		form.Price = &price
	}

	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["image"]; len(files) > 0 && files[0].Filename != "" {
			form.Image = files[0]
		}
	}

	return form, nil
}

func formValue(r *http.Request, key string) *string {
	v := r.PostForm.Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// writeFormError writes err as a JSON error response.
func writeFormError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *formError
	if errors.As(err, &fe) {
		jsonError(w, fe.status, fe.detail)
		return
	}
	serverError(w, r, "failed to parse form", err)
}
