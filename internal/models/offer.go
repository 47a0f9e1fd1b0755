package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Scope selects which products an offer can apply to.
type Scope string

const (
	ScopeGlobal   Scope = "global"
	ScopeSeller   Scope = "seller"
	ScopeCategory Scope = "category"
	ScopeProduct  Scope = "product"
)

// Valid reports whether s is one of the defined scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeGlobal, ScopeSeller, ScopeCategory, ScopeProduct:
		return true
	}
	return false
}

// ParseScope accepts any letter case; unknown names are a validation error.
func ParseScope(raw string) (Scope, error) {
	s := Scope(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", &ValidationError{Field: "scope", Reason: "unknown scope " + strconv.Quote(raw)}
	}
	return s, nil
}

func (s *Scope) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Field: "scope", Reason: "must be a string"}
	}
	parsed, err := ParseScope(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// DiscountKind selects the discount arithmetic.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// Valid reports whether k is one of the defined kinds.
func (k DiscountKind) Valid() bool {
	return k == DiscountPercentage || k == DiscountFixed
}

func ParseDiscountKind(raw string) (DiscountKind, error) {
	k := DiscountKind(strings.ToLower(strings.TrimSpace(raw)))
	if !k.Valid() {
		return "", &ValidationError{Field: "discountKind", Reason: "unknown discount kind " + strconv.Quote(raw)}
	}
	return k, nil
}

func (k *DiscountKind) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Field: "discountKind", Reason: "must be a string"}
	}
	parsed, err := ParseDiscountKind(raw)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Offer is an admin-defined promotional rule.
type Offer struct {
	ID            string       `json:"id"`
	Scope         Scope        `json:"scope"`
	TargetID      string       `json:"targetId"`
	DiscountKind  DiscountKind `json:"discountKind"`
	DiscountValue float64      `json:"discountValue"`
	Active        bool         `json:"active"`
	Description   string       `json:"description,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Normalize trims free-text fields and drops the target of global offers.
func (o *Offer) Normalize() {
	o.TargetID = strings.TrimSpace(o.TargetID)
	o.Description = strings.TrimSpace(o.Description)
	if o.Scope == ScopeGlobal {
		o.TargetID = ""
	}
}

// Validate checks the write-time invariants of an offer.
func (o Offer) Validate() error {
	if !o.Scope.Valid() {
		return &ValidationError{Field: "scope", Reason: "unknown scope " + strconv.Quote(string(o.Scope))}
	}
	if !o.DiscountKind.Valid() {
		return &ValidationError{Field: "discountKind", Reason: "unknown discount kind " + strconv.Quote(string(o.DiscountKind))}
	}
	if o.Scope != ScopeGlobal && strings.TrimSpace(o.TargetID) == "" {
		return &ValidationError{Field: "targetId", Reason: "required for " + string(o.Scope) + " offers"}
	}
	if math.IsNaN(o.DiscountValue) || math.IsInf(o.DiscountValue, 0) {
		return &ValidationError{Field: "discountValue", Reason: "must be a finite number"}
	}
	if o.DiscountValue < 0 {
		return &ValidationError{Field: "discountValue", Reason: "must not be negative"}
	}
	return nil
}
