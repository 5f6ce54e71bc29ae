package repository

import (
	"context"
	"database/sql"

	"github.com/Iphint/Sayurku/internal/domain"
	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type TransactionRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreateTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

func (r *TransactionRepositoryImpl) ext() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *TransactionRepositoryImpl) AddTransaction(ctx context.Context, data domain.Transaction) (id int64, err error) {
	rows, err := sqlx.NamedQueryContext(ctx, r.ext(), "INSERT INTO transaction(user_id, product_id) VALUES (:user_id, :product_id) returning id", data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddTransaction").Msg("")
		return 0, errs.ErrInternalServer
	}
	defer rows.Close()

	if rows.Next() {
		if err = rows.Scan(&id); err != nil {
			log.Error().Err(err).Str("component", "AddTransaction").Msg("")
			return 0, errs.ErrInternalServer
		}
	}

	return id, nil
}

func (r *TransactionRepositoryImpl) AddPaymentValidation(ctx context.Context, data domain.PaymentValidation) (err error) {
	_, err = sqlx.NamedExecContext(ctx, r.ext(), "INSERT INTO validasi_payment(status, transaction_id) VALUES (:status, :transaction_id)", data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddPaymentValidation").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *TransactionRepositoryImpl) GetTransactionRowsByUserID(ctx context.Context, userID int64) (data []domain.TransactionRow, err error) {
	err = sqlx.SelectContext(ctx, r.ext(), &data,
		`SELECT
			transaction.id AS transaction_id,
			transaction.user_id,
			transaction.product_id,
			products.name AS product_name,
			products.category,
			products.price,
			products."condition",
			users.name AS user_name,
			users.email,
			validasi_payment.status AS status
		 FROM transaction
		 LEFT JOIN products ON transaction.product_id = products.id
		 LEFT JOIN users ON transaction.user_id = users.id
		 LEFT JOIN validasi_payment ON transaction.id = validasi_payment.transaction_id
		 WHERE transaction.user_id = $1
		 ORDER BY transaction.id`, userID)
	if err != nil {
		log.Error().Err(err).Str("component", "GetTransactionRowsByUserID").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *TransactionRepositoryImpl) DeletePaymentValidationByTransactionID(ctx context.Context, transactionID int64) (err error) {
	_, err = r.ext().ExecContext(ctx, "DELETE FROM validasi_payment WHERE transaction_id = $1", transactionID)
	if err != nil {
		log.Error().Err(err).Str("component", "DeletePaymentValidationByTransactionID").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *TransactionRepositoryImpl) DeleteTransaction(ctx context.Context, id int64) (affected int64, err error) {
	res, err := r.ext().ExecContext(ctx, "DELETE FROM transaction WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteTransaction").Msg("")
		return 0, errs.ErrInternalServer
	}

	affected, err = res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteTransaction").Msg("")
		return 0, errs.ErrInternalServer
	}

	return affected, nil
}

func (r *TransactionRepositoryImpl) CountPendingTransactions(ctx context.Context, userID int64) (count int64, err error) {
	err = sqlx.GetContext(ctx, r.ext(), &count,
		`SELECT COUNT(*)
		 FROM transaction
		 INNER JOIN validasi_payment ON transaction.id = validasi_payment.transaction_id
		 WHERE transaction.user_id = $1 AND validasi_payment.status = $2`, userID, domain.PaymentStatusOnProcess)
	if err != nil {
		log.Error().Err(err).Str("component", "CountPendingTransactions").Msg("")
		return 0, errs.ErrInternalServer
	}

	return
}

func (r *TransactionRepositoryImpl) MarkTransactionsPaid(ctx context.Context, userID int64) (affected int64, err error) {
	res, err := r.ext().ExecContext(ctx,
		`UPDATE validasi_payment
		 SET status = $1
		 WHERE transaction_id IN (SELECT id FROM transaction WHERE user_id = $2) AND status = $3`,
		domain.PaymentStatusPaid, userID, domain.PaymentStatusOnProcess)
	if err != nil {
		log.Error().Err(err).Str("component", "MarkTransactionsPaid").Msg("")
		return 0, errs.ErrInternalServer
	}

	affected, err = res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "MarkTransactionsPaid").Msg("")
		return 0, errs.ErrInternalServer
	}

	return affected, nil
}

func (r *TransactionRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo TransactionRepository) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		log.Error().Err(err).Str("component", "HandleTrx").Msg("")
		return errs.ErrInternalServer
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	trxRepo := &TransactionRepositoryImpl{
		db: r.db,
		tx: tx,
	}

	err = fn(ctx, trxRepo)

	return err
}
