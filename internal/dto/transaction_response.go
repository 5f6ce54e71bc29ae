package dto

type TransactionResponse struct {
	TransactionID int64    `json:"transaction_id"`
	UserID        int64    `json:"user_id"`
	ProductID     int64    `json:"product_id"`
	ProductName   *string  `json:"product_name"`
	Category      *string  `json:"category"`
	Price         *float64 `json:"price"`
	Condition     *string  `json:"condition"`
	UserName      *string  `json:"user_name"`
	Email         *string  `json:"email"`
	Status        *string  `json:"status"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

type ValidatePaymentResult struct {
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}

type ValidatePaymentResponse struct {
	Message  string                `json:"message"`
	Response ValidatePaymentResult `json:"response"`
}
