package models

type Cart struct {
	UserID   string     `json:"user_id"`
	Items    []CartItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
}

// CartItem est une ligne de panier enrichie avec les infos produit.
// Les lignes dupliquées (même product_id) sont fusionnées avant tout calcul.
type CartItem struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"image_url,omitempty"`
}
