package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Iphint/Sayurku/config"
	"github.com/Iphint/Sayurku/internal/domain"
	"github.com/Iphint/Sayurku/internal/dto"
	"github.com/Iphint/Sayurku/internal/repository"
	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

type TransactionServiceImpl struct {
	repo          repository.TransactionRepository
	config        config.Config
	kafkaProducer *kafka.Conn
}

func CreateTransactionService(repo repository.TransactionRepository, config config.Config, kafkaProducer *kafka.Conn) TransactionService {
	return &TransactionServiceImpl{
		repo:          repo,
		config:        config,
		kafkaProducer: kafkaProducer,
	}
}

// AddTransaction inserts the purchase record and its payment-validation row
// atomically; the validation row starts in "on process".
func (s *TransactionServiceImpl) AddTransaction(ctx context.Context, payload dto.TransactionRequest) (err error) {
	if payload.UserID == 0 || payload.ProductID == 0 {
		return errs.ErrClient
	}

	ctx, cancel := context.WithTimeout(ctx, trxTimeout)
	defer cancel()

	return s.repo.HandleTrx(ctx, func(ctx context.Context, repo repository.TransactionRepository) error {
		transactionID, err := repo.AddTransaction(ctx, domain.Transaction{
			UserID:    payload.UserID,
			ProductID: payload.ProductID,
		})
		if err != nil {
			return err
		}

		return repo.AddPaymentValidation(ctx, domain.PaymentValidation{
			TransactionID: transactionID,
			Status:        domain.PaymentStatusOnProcess,
		})
	})
}

func (s *TransactionServiceImpl) GetTransactions(ctx context.Context, userID int64) (resp dto.TransactionListResponse, err error) {
	rows, err := s.repo.GetTransactionRowsByUserID(ctx, userID)
	if err != nil {
		return
	}

	resp.Transactions = []dto.TransactionResponse{}
	for _, row := range rows {
		resp.Transactions = append(resp.Transactions, dto.TransactionResponse{
			TransactionID: row.TransactionID,
			UserID:        row.UserID,
			ProductID:     row.ProductID,
			ProductName:   row.ProductName,
			Category:      row.Category,
			Price:         row.Price,
			Condition:     row.Condition,
			UserName:      row.UserName,
			Email:         row.Email,
			Status:        row.Status,
		})
	}

	return resp, nil
}

// DeleteTransaction cascades the payment-validation rows before the
// transaction row. There is no ownership check on this operation.
func (s *TransactionServiceImpl) DeleteTransaction(ctx context.Context, id int64) (err error) {
	ctx, cancel := context.WithTimeout(ctx, trxTimeout)
	defer cancel()

	return s.repo.HandleTrx(ctx, func(ctx context.Context, repo repository.TransactionRepository) error {
		if err := repo.DeletePaymentValidationByTransactionID(ctx, id); err != nil {
			return err
		}

		affected, err := repo.DeleteTransaction(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return errs.ErrTransactionNotFound
		}

		return nil
	})
}

// ValidatePayment moves every "on process" validation row of the user to
// "paid" in one set-based update. The pending count is taken inside the same
// transaction, so the emptiness check and the transition see the same state.
func (s *TransactionServiceImpl) ValidatePayment(ctx context.Context, userID int64) (resp dto.ValidatePaymentResult, err error) {
	if userID == 0 {
		return resp, errs.ErrClient
	}

	ctx, cancel := context.WithTimeout(ctx, trxTimeout)
	defer cancel()

	err = s.repo.HandleTrx(ctx, func(ctx context.Context, repo repository.TransactionRepository) error {
		count, err := repo.CountPendingTransactions(ctx, userID)
		if err != nil {
			return err
		}
		if count == 0 {
			return errs.ErrNoPendingTransaction
		}

		_, err = repo.MarkTransactionsPaid(ctx, userID)
		return err
	})
	if err != nil {
		return resp, err
	}

	s.publishEvent("payment_validated", dto.PaymentValidatedEvent{
		UserID: userID,
		Status: domain.PaymentStatusPaid,
	})

	resp.UserID = userID
	resp.Status = domain.PaymentStatusPaid

	return resp, nil
}

func (s *TransactionServiceImpl) publishEvent(eventType string, data interface{}) {
	if s.kafkaProducer == nil {
		return
	}

	jsonMsg, err := json.Marshal(dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	})
	if err != nil {
		log.Error().Err(err).Str("component", "publishEvent").Msg("")
		return
	}

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		_, err = s.kafkaProducer.WriteMessages(kafka.Message{Value: jsonMsg})
		if err == nil {
			return
		}
		log.Error().Err(err).Str("component", "publishEvent").Str("event", eventType).Msg("")
		time.Sleep(time.Second * time.Duration(i+1))
	}
}
