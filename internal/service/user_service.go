package service

import (
	"context"

	"github.com/Iphint/Sayurku/config"
	"github.com/Iphint/Sayurku/internal/domain"
	"github.com/Iphint/Sayurku/internal/dto"
	"github.com/Iphint/Sayurku/internal/repository"
	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/Iphint/Sayurku/pkg/utils"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	repo   repository.UserRepository
	config config.Config
}

func CreateUserService(repo repository.UserRepository, config config.Config) UserService {
	return &UserServiceImpl{repo: repo, config: config}
}

func (s *UserServiceImpl) Register(ctx context.Context, payload dto.RegisterRequest) (resp dto.UserResponse, err error) {
	if payload.Name == "" || payload.Email == "" || payload.Password == "" || payload.ConfirmPassword == "" {
		return resp, errs.ErrClient
	}

	if payload.Password != payload.ConfirmPassword {
		return resp, errs.ErrPasswordMismatch
	}

	user, err := s.repo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return
	}

	if user.ID != 0 {
		return resp, errs.ErrEmailAlreadyUsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Str("component", "Register").Msg("")
		return resp, errs.ErrInternalServer
	}

	userEnt := domain.User{
		Name:       payload.Name,
		Email:      payload.Email,
		Password:   string(hash),
		ExternalID: ulid.Make().String(),
	}

	if _, err = s.repo.AddUser(ctx, userEnt); err != nil {
		return
	}

	resp.Name = payload.Name
	resp.Email = payload.Email

	return resp, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, payload dto.LoginRequest) (resp dto.LoginUserResponse, err error) {
	if payload.Email == "" || payload.Password == "" {
		return resp, errs.ErrClient
	}

	user, err := s.repo.GetUserByEmail(ctx, payload.Email)
	if err != nil {
		return
	}

	if user.ID == 0 {
		return resp, errs.ErrEmailNotFound
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password))
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return resp, errs.ErrWrongPassword
	}

	token, err := utils.CreateJWTToken(user.ID, user.Name, user.ExternalID, s.config.JWTSecret)
	if err != nil {
		log.Error().Err(err).Str("component", "Login").Msg("")
		return resp, errs.ErrInternalServer
	}

	resp.Name = user.Name
	resp.Email = user.Email
	resp.Token = token

	return resp, nil
}
