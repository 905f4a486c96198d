package domain

// User is a registered account. PasswordHash and Salt never leave the service layer.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Salt         string
}
