package domain

type Product struct {
	ID        int64   `db:"id"`
	UserID    int64   `db:"user_id"`
	Name      string  `db:"name"`
	Category  string  `db:"category"`
	Price     float64 `db:"price"`
	Condition string  `db:"condition"`
}

type Image struct {
	ID         int64  `db:"id"`
	ProductID  int64  `db:"product_id"`
	ImageTitle string `db:"image_title"`
}

// ProductImageRow is one row of the denormalized product listing join.
// ImageTitle is nullable because the join is a left join.
type ProductImageRow struct {
	ID         int64   `db:"id"`
	UserID     int64   `db:"user_id"`
	Name       string  `db:"name"`
	Category   string  `db:"category"`
	Price      float64 `db:"price"`
	Condition  string  `db:"condition"`
	ImageTitle *string `db:"image_title"`
}
