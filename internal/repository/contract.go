package repository

import (
	"context"

	"github.com/Iphint/Sayurku/internal/domain"
)

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (res domain.User, err error)
	AddUser(ctx context.Context, data domain.User) (id int64, err error)
}

type ProductRepository interface {
	GetProductRows(ctx context.Context) (data []domain.ProductImageRow, err error)
	GetProductByID(ctx context.Context, id int64) (data domain.Product, err error)
	GetProductByIDAndUserID(ctx context.Context, id int64, userID int64) (data domain.Product, err error)
	AddProduct(ctx context.Context, data domain.Product) (id int64, err error)
	UpdateProduct(ctx context.Context, data domain.Product) (err error)
	DeleteProduct(ctx context.Context, id int64, userID int64) (affected int64, err error)
	GetImagesByProductID(ctx context.Context, productID int64) (data []domain.Image, err error)
	AddImage(ctx context.Context, data domain.Image) (err error)
	DeleteImage(ctx context.Context, id int64) (err error)
	DeleteImagesByProductID(ctx context.Context, productID int64) (err error)
	GetImageTitles(ctx context.Context) (titles []string, err error)
	HandleTrx(ctx context.Context, fn func(ctx context.Context, repo ProductRepository) error) error
}

type TransactionRepository interface {
	AddTransaction(ctx context.Context, data domain.Transaction) (id int64, err error)
	AddPaymentValidation(ctx context.Context, data domain.PaymentValidation) (err error)
	GetTransactionRowsByUserID(ctx context.Context, userID int64) (data []domain.TransactionRow, err error)
	DeletePaymentValidationByTransactionID(ctx context.Context, transactionID int64) (err error)
	DeleteTransaction(ctx context.Context, id int64) (affected int64, err error)
	CountPendingTransactions(ctx context.Context, userID int64) (count int64, err error)
	MarkTransactionsPaid(ctx context.Context, userID int64) (affected int64, err error)
	HandleTrx(ctx context.Context, fn func(ctx context.Context, repo TransactionRepository) error) error
}
