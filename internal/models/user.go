package models

type User struct {
	ID    string `json:"user_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
