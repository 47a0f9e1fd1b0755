package models

import "errors"

var (
	ErrInvalidOffer    = errors.New("invalid offer")
	ErrOfferNotFound   = errors.New("offer not found")
	ErrProductNotFound = errors.New("product not found")
)
