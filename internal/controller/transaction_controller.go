package controller

import (
	"strconv"

	"github.com/Iphint/Sayurku/internal/dto"
	"github.com/Iphint/Sayurku/internal/service"
	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/Iphint/Sayurku/pkg/response"
	"github.com/Iphint/Sayurku/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type TransactionController struct {
	service service.TransactionService
}

func CreateTransactionController(e *echo.Group, service service.TransactionService, isLoggedIn echo.MiddlewareFunc) {
	c := TransactionController{
		service: service,
	}

	e.POST("/transactions", c.AddTransaction, isLoggedIn)
	e.GET("/transactions", c.GetTransactions, isLoggedIn)
	e.DELETE("/transactions/:id", c.DeleteTransaction, isLoggedIn)
	e.POST("/validate-payment", c.ValidatePayment, isLoggedIn)
}

func (c *TransactionController) AddTransaction(e echo.Context) error {
	payload := dto.TransactionRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "AddTransaction").Msg("")
	}

	if err := c.service.AddTransaction(e.Request().Context(), payload); err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, dto.MessageResponse{
		Message: "Transaction inserted successfully",
	})
}

func (c *TransactionController) GetTransactions(e echo.Context) error {
	userID, _, _ := utils.ExtractTokenUser(e)

	resp, err := c.service.GetTransactions(e.Request().Context(), userID)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, resp)
}

func (c *TransactionController) DeleteTransaction(e echo.Context) error {
	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient)
	}

	if err := c.service.DeleteTransaction(e.Request().Context(), id); err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, dto.MessageResponse{
		Message: "Transaction deleted successfully",
	})
}

func (c *TransactionController) ValidatePayment(e echo.Context) error {
	payload := dto.ValidatePaymentRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "ValidatePayment").Msg("")
	}

	result, err := c.service.ValidatePayment(e.Request().Context(), payload.UserID)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, dto.ValidatePaymentResponse{
		Message:  "Payment validated successfully",
		Response: result,
	})
}
