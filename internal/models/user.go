package models

type User struct {
	ID       string `json:"userId"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"-"`
	PhotoURL string `json:"photoURL,omitempty"`
	Provider string `json:"provider,omitempty"`
}
