package models

import "errors"

var (
	ErrToyMissingID     = errors.New("jouet sans identifiant")
	ErrToyMissingName   = errors.New("jouet sans nom")
	ErrToyNegativePrice = errors.New("prix négatif")
	ErrToyRatingRange   = errors.New("note hors de l'intervalle 0-5")
	ErrToyNegativeStock = errors.New("quantité disponible négative")
)
