package models

// Product is the normalized catalog view the pricing layer works on.
type Product struct {
	ID       string  `json:"id"`
	Price    float64 `json:"price"`
	Vendor   string  `json:"vendor"`
	Category string  `json:"category"`
}
