package domain

type User struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	Password   string `db:"password"`
	ExternalID string `db:"external_id"`
}
