package models

import "time"

const (
	ReviewMinRating        = 1
	ReviewMaxRating        = 5
	ReviewMaxCommentLength = 500
)

// Review est un avis laissé par un utilisateur sur un jouet.
// Seuls rating, comment et updatedAt changent lors d'une édition.
type Review struct {
	ID        string     `json:"id"`
	ToyID     string     `json:"toyId"`
	UserID    string     `json:"userId"`
	UserEmail string     `json:"userEmail"`
	Rating    int        `json:"rating"` // 1-5
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Valid rejette les entrées malformées lues depuis le snapshot durable
func (r Review) Valid() bool {
	return r.ID != "" && r.ToyID != "" && r.UserID != "" &&
		r.Rating >= ReviewMinRating && r.Rating <= ReviewMaxRating
}
