package promo

import (
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"velora_back_end/internal/models"
	"velora_back_end/internal/pricing"
)

var (
	// ErrExpired : valid_until est dépassé au moment de l'application.
	ErrExpired = errors.New("code promo expiré")
	// ErrAlreadyUsed : code à usage unique déjà consommé par cet utilisateur.
	ErrAlreadyUsed = errors.New("code promo déjà utilisé")
)

// BelowMinimumError porte le montant minimum exigé par le code.
type BelowMinimumError struct {
	Required float64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("un minimum de %.2f$ est requis pour ce code promo", e.Required)
}

// Evaluation est le résultat d'une application réussie. Le code n'est PAS
// consommé ici : la consommation se fait à la complétion de la commande.
type Evaluation struct {
	Discount    float64    `json:"discount"`
	NewTotal    float64    `json:"new_total"`
	PromoCodeID gocql.UUID `json:"promo_code_id"`
}

// Evaluate valide un code promo déjà chargé contre le total du panier et
// l'historique d'usage de l'utilisateur, puis calcule la remise.
// alreadyUsed reflète l'existence d'une ligne promo_usage pour cet
// utilisateur (pertinent uniquement pour les codes single_use).
func Evaluate(code models.PromoCode, cartTotal float64, alreadyUsed bool, now time.Time) (Evaluation, error) {
	if !code.ValidUntil.IsZero() && now.After(code.ValidUntil) {
		return Evaluation{}, ErrExpired
	}

	if code.MinimumAmount != nil && cartTotal < *code.MinimumAmount {
		return Evaluation{}, &BelowMinimumError{Required: *code.MinimumAmount}
	}

	if code.SingleUse && alreadyUsed {
		return Evaluation{}, ErrAlreadyUsed
	}

	// discount et newTotal sont non négatifs par construction
	// (pourcentage borné à [0,100] à la création du code).
	discount := pricing.Percentage(cartTotal, code.DiscountPercentage)

	return Evaluation{
		Discount:    discount,
		NewTotal:    cartTotal - discount,
		PromoCodeID: code.ID,
	}, nil
}
