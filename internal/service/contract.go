package service

import (
	"context"

	"github.com/Iphint/Sayurku/internal/dto"
)

type UserService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (resp dto.UserResponse, err error)
	Login(ctx context.Context, payload dto.LoginRequest) (resp dto.LoginUserResponse, err error)
}

type ProductService interface {
	GetProducts(ctx context.Context) (resp dto.ProductListResponse, err error)
	AddProduct(ctx context.Context, payload dto.ProductRequest) (resp dto.ProductResponse, err error)
	UpdateProduct(ctx context.Context, payload dto.ProductRequest) (resp dto.ProductResponse, err error)
	DeleteProduct(ctx context.Context, id int64, userID int64) (err error)
	SweepOrphanFiles()
}

type TransactionService interface {
	AddTransaction(ctx context.Context, payload dto.TransactionRequest) (err error)
	GetTransactions(ctx context.Context, userID int64) (resp dto.TransactionListResponse, err error)
	DeleteTransaction(ctx context.Context, id int64) (err error)
	ValidatePayment(ctx context.Context, userID int64) (resp dto.ValidatePaymentResult, err error)
}
