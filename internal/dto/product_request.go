package dto

// ProductRequest carries the scalar fields of a create/update call plus the
// stored filenames of the uploads already persisted by the HTTP layer.
type ProductRequest struct {
	ID        int64   `json:"-"`
	UserID    int64   `json:"-"`
	Name      string  `json:"name" form:"name"`
	Category  string  `json:"category" form:"category"`
	Price     float64 `json:"price" form:"price"`
	Condition string  `json:"condition" form:"condition"`
	Images    []string
}
