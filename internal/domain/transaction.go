package domain

const (
	PaymentStatusOnProcess = "on process"
	PaymentStatusPaid      = "paid"
)

type Transaction struct {
	ID        int64 `db:"id"`
	UserID    int64 `db:"user_id"`
	ProductID int64 `db:"product_id"`
}

type PaymentValidation struct {
	ID            int64  `db:"id"`
	TransactionID int64  `db:"transaction_id"`
	Status        string `db:"status"`
}

// TransactionRow is one row of the transaction listing join across
// transaction, products, users and validasi_payment.
type TransactionRow struct {
	TransactionID int64    `db:"transaction_id"`
	UserID        int64    `db:"user_id"`
	ProductID     int64    `db:"product_id"`
	ProductName   *string  `db:"product_name"`
	Category      *string  `db:"category"`
	Price         *float64 `db:"price"`
	Condition     *string  `db:"condition"`
	UserName      *string  `db:"user_name"`
	Email         *string  `db:"email"`
	Status        *string  `db:"status"`
}
