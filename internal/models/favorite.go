package models

import "time"

// FavoriteEntry relie un utilisateur à un jouet.
// Invariant : au plus une entrée par couple (toyId, userId).
type FavoriteEntry struct {
	ToyID  string    `json:"toyId"`
	UserID string    `json:"userId"`
	Date   time.Time `json:"date"`
}

// Valid rejette les entrées malformées lues depuis le snapshot durable
func (f FavoriteEntry) Valid() bool {
	return f.ToyID != "" && f.UserID != ""
}
