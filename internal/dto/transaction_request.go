package dto

type TransactionRequest struct {
	UserID    int64 `json:"user_id"`
	ProductID int64 `json:"product_id"`
}

type ValidatePaymentRequest struct {
	UserID int64 `json:"user_id"`
}
