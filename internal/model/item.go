package model

// Item is a catalog entry. Description and ImagePath are nil when unset and
// encode as JSON null.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description *string `json:"description"`
	ImagePath   *string `json:"image_path"`
}
