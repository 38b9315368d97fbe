package cart

import "github.com/shopspring/decimal"

// Line is one product in the cart. JSON names match the persisted shape
// {id, title, price, quantity, image}.
type Line struct {
	ProductID int             `json:"id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image,omitempty"`
}

// Subtotal is UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the persisted snapshot. Items keep insertion order and are unique
// by ProductID; Total always equals the sum of line subtotals.
type Cart struct {
	Items []Line          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Item describes a product being added.
type Item struct {
	ProductID int
	Title     string
	UnitPrice decimal.Decimal
	ImageURL  string
}

// Empty returns {items: [], total: 0}.
func Empty() Cart {
	return Cart{Items: []Line{}, Total: decimal.Zero}
}

// Count returns the number of units across all lines.
func (c Cart) Count() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) indexOf(productID int) int {
	for i, l := range c.Items {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// normalized returns a copy with a non-nil item slice, lines with a
// non-positive quantity dropped and the total recomputed.
func (c Cart) normalized() Cart {
	out := Cart{Items: make([]Line, 0, len(c.Items)), Total: decimal.Zero}
	for _, l := range c.Items {
		if l.Quantity <= 0 {
			continue
		}
		out.Items = append(out.Items, l)
		out.Total = out.Total.Add(l.Subtotal())
	}
	return out
}
