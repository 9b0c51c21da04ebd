package models

// User represents the signed-in account, derived from bearer token claims
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
