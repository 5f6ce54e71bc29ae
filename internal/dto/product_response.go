package dto

type ProductResponse struct {
	ID        int64    `json:"id"`
	UserID    int64    `json:"userId"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Price     float64  `json:"price"`
	Condition string   `json:"condition"`
	Images    []string `json:"images"`
}

type ProductListResponse struct {
	Data []ProductResponse `json:"data"`
}

type CreateProductResponse struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

type UpdateProductResponse struct {
	Message        string          `json:"message"`
	UpdatedProduct ProductResponse `json:"updatedProduct"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
