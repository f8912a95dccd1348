package models

// Toy représente un jouet du catalogue statique.
// Le catalogue est chargé une seule fois au démarrage et n'est jamais modifié.
type Toy struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Price             float64 `json:"price"`
	Image             string  `json:"image,omitempty"`
	Category          string  `json:"category"`
	Rating            float64 `json:"rating"`
	AvailableQuantity int     `json:"availableQuantity"`
	AgeGroup          string  `json:"age_group,omitempty"`
	Material          string  `json:"material,omitempty"`
	SellerName        string  `json:"seller_name"`
	SellerInfo        string  `json:"seller_info,omitempty"`
}

// Validate vérifie les invariants du catalogue (prix ≥ 0, note 0-5, stock ≥ 0)
func (t Toy) Validate() error {
	switch {
	case t.ID == "":
		return ErrToyMissingID
	case t.Name == "":
		return ErrToyMissingName
	case t.Price < 0:
		return ErrToyNegativePrice
	case t.Rating < 0 || t.Rating > 5:
		return ErrToyRatingRange
	case t.AvailableQuantity < 0:
		return ErrToyNegativeStock
	}
	return nil
}
