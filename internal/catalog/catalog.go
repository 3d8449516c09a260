// Package catalog lists the products offered on the landing page.
package catalog

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

var defaultProducts = []Product{
	{ID: "1", Name: "Açaí Bowl 500ml", Description: "Açaí with banana, granola and honey.", Price: "24.90"},
	{ID: "2", Name: "Lemon Sorbet", Description: "Two scoops of sicilian lemon sorbet.", Price: "12.50"},
	{ID: "3", Name: "Chocolate Popsicle", Description: "Belgian chocolate popsicle dipped in nuts.", Price: "9.90"},
	{ID: "4", Name: "Strawberry Milkshake", Description: "400ml shake with fresh strawberries.", Price: "18.00"},
}

// Default returns a copy of the built-in product list.
func Default() []Product {
	out := make([]Product, len(defaultProducts))
	copy(out, defaultProducts)
	return out
}
