package repository

import (
	"context"
	"database/sql"

	"github.com/Iphint/Sayurku/internal/domain"
	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type UserRepositoryImpl struct {
	db *sqlx.DB
}

func CreateUserRepository(db *sqlx.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (res domain.User, err error) {
	row := r.db.QueryRowxContext(ctx, "SELECT * FROM users WHERE email = $1", email)
	err = row.StructScan(&res)
	if err != nil {
		if err == sql.ErrNoRows {
			return res, nil
		}
		log.Error().Err(err).Str("component", "GetUserByEmail").Msg("")
		return res, errs.ErrInternalServer
	}

	return
}

func (r *UserRepositoryImpl) AddUser(ctx context.Context, data domain.User) (id int64, err error) {
	nstmt, err := r.db.PrepareNamedContext(ctx, "INSERT INTO users(name, email, password, external_id) VALUES (:name, :email, :password, :external_id) returning id")
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, errs.ErrInternalServer
	}

	err = nstmt.GetContext(ctx, &data.ID, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, errs.ErrInternalServer
	}

	return data.ID, nil
}
