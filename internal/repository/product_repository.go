package repository

import (
	"context"
	"database/sql"

	"github.com/Iphint/Sayurku/internal/domain"
	"github.com/Iphint/Sayurku/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type ProductRepositoryImpl struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

func CreateProductRepository(db *sqlx.DB) ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

// ext returns the bound transaction when the repository runs inside
// HandleTrx, and the pool otherwise.
func (r *ProductRepositoryImpl) ext() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *ProductRepositoryImpl) GetProductRows(ctx context.Context) (data []domain.ProductImageRow, err error) {
	err = sqlx.SelectContext(ctx, r.ext(), &data,
		`SELECT products.id, products.user_id, products.name, products.category, products.price, products."condition", images.image_title
		 FROM products
		 LEFT JOIN images ON products.id = images.product_id
		 LEFT JOIN users ON products.user_id = users.id
		 ORDER BY products.id, images.id`)
	if err != nil {
		log.Error().Err(err).Str("component", "GetProductRows").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *ProductRepositoryImpl) GetProductByID(ctx context.Context, id int64) (data domain.Product, err error) {
	row := r.ext().QueryRowxContext(ctx, "SELECT * FROM products WHERE id = $1", id)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, errs.ErrProductNotFound
		}
		log.Error().Err(err).Str("component", "GetProductByID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *ProductRepositoryImpl) GetProductByIDAndUserID(ctx context.Context, id int64, userID int64) (data domain.Product, err error) {
	row := r.ext().QueryRowxContext(ctx, "SELECT * FROM products WHERE id = $1 AND user_id = $2", id, userID)
	err = row.StructScan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return data, errs.ErrProductNotFound
		}
		log.Error().Err(err).Str("component", "GetProductByIDAndUserID").Msg("")
		return data, errs.ErrInternalServer
	}

	return
}

func (r *ProductRepositoryImpl) AddProduct(ctx context.Context, data domain.Product) (id int64, err error) {
	rows, err := sqlx.NamedQueryContext(ctx, r.ext(), `INSERT INTO products(user_id, name, category, price, "condition") VALUES (:user_id, :name, :category, :price, :condition) returning id`, data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddProduct").Msg("")
		return 0, errs.ErrInternalServer
	}
	defer rows.Close()

	if rows.Next() {
		if err = rows.Scan(&id); err != nil {
			log.Error().Err(err).Str("component", "AddProduct").Msg("")
			return 0, errs.ErrInternalServer
		}
	}

	return id, nil
}

func (r *ProductRepositoryImpl) UpdateProduct(ctx context.Context, data domain.Product) (err error) {
	_, err = sqlx.NamedExecContext(ctx, r.ext(), `UPDATE products SET name=:name, category=:category, price=:price, "condition"=:condition WHERE id=:id`, data)
	if err != nil {
		log.Error().Err(err).Str("component", "UpdateProduct").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *ProductRepositoryImpl) DeleteProduct(ctx context.Context, id int64, userID int64) (affected int64, err error) {
	res, err := r.ext().ExecContext(ctx, "DELETE FROM products WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return 0, errs.ErrInternalServer
	}

	affected, err = res.RowsAffected()
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return 0, errs.ErrInternalServer
	}

	return affected, nil
}

func (r *ProductRepositoryImpl) GetImagesByProductID(ctx context.Context, productID int64) (data []domain.Image, err error) {
	err = sqlx.SelectContext(ctx, r.ext(), &data, "SELECT * FROM images WHERE product_id = $1 ORDER BY id", productID)
	if err != nil {
		log.Error().Err(err).Str("component", "GetImagesByProductID").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

func (r *ProductRepositoryImpl) AddImage(ctx context.Context, data domain.Image) (err error) {
	_, err = sqlx.NamedExecContext(ctx, r.ext(), "INSERT INTO images(product_id, image_title) VALUES (:product_id, :image_title)", data)
	if err != nil {
		log.Error().Err(err).Str("component", "AddImage").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *ProductRepositoryImpl) DeleteImage(ctx context.Context, id int64) (err error) {
	_, err = r.ext().ExecContext(ctx, "DELETE FROM images WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteImage").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *ProductRepositoryImpl) DeleteImagesByProductID(ctx context.Context, productID int64) (err error) {
	_, err = r.ext().ExecContext(ctx, "DELETE FROM images WHERE product_id = $1", productID)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteImagesByProductID").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *ProductRepositoryImpl) GetImageTitles(ctx context.Context) (titles []string, err error) {
	err = sqlx.SelectContext(ctx, r.ext(), &titles, "SELECT image_title FROM images")
	if err != nil {
		log.Error().Err(err).Str("component", "GetImageTitles").Msg("")
		return nil, errs.ErrInternalServer
	}

	return
}

// HandleTrx brackets fn in one transaction: rollback on error or panic,
// commit otherwise. The commit error is surfaced through the named return.
func (r *ProductRepositoryImpl) HandleTrx(ctx context.Context, fn func(ctx context.Context, repo ProductRepository) error) (err error) {
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

	trxRepo := &ProductRepositoryImpl{
		db: r.db,
		tx: tx,
	}

	err = fn(ctx, trxRepo)

	return err
}
