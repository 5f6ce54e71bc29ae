package controller

import (
	"github.com/Iphint/Sayurku/internal/dto"
	"github.com/Iphint/Sayurku/internal/service"
	"github.com/Iphint/Sayurku/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type UserController struct {
	service service.UserService
}

func CreateUserController(e *echo.Group, service service.UserService) {
	uc := UserController{
		service: service,
	}
	e.POST("/register", uc.Register)
	e.POST("/login", uc.Login)
}

func (c *UserController) Register(e echo.Context) error {
	payload := dto.RegisterRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Register").Msg("")
	}

	user, err := c.service.Register(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, dto.RegisterResponse{
		Message: "User registered successfully",
		User:    user,
	})
}

func (c *UserController) Login(e echo.Context) error {
	payload := dto.LoginRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
	}

	user, err := c.service.Login(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err)
	}

	return response.WriteSuccessResponse(e, dto.LoginResponse{
		Message: "Login successful",
		User:    user,
	})
}
