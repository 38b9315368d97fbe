package dashboard

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/dummyjson"
)

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

const revenueVariation = 0.3

// InventoryValue sums price × stock over products.
func InventoryValue(products []dummyjson.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return total
}

// RevenueTrend spreads the inventory value over twelve months. Each month is
// jittered by ±30% using rnd (a value in [0,1)) and shaped by a seasonal
// curve that peaks mid-year.
func RevenueTrend(products []dummyjson.Product, rnd func() float64) []MonthlyRevenue {
	base := InventoryValue(products).Div(decimal.NewFromInt(12))
	out := make([]MonthlyRevenue, 0, len(months))
	for i, month := range months {
		random := 1 + (rnd()*revenueVariation*2 - revenueVariation)
		seasonal := 1 + math.Sin(float64(i)/11*math.Pi)*0.2
		revenue := base.Mul(decimal.NewFromFloat(random)).Mul(decimal.NewFromFloat(seasonal)).Round(0)
		out = append(out, MonthlyRevenue{Month: month, Revenue: revenue})
	}
	return out
}

// CategoryDistribution counts products per category in first-seen order.
func CategoryDistribution(products []dummyjson.Product) []CategoryCount {
	out := []CategoryCount{}
	index := map[string]int{}
	for _, p := range products {
		if i, ok := index[p.Category]; ok {
			out[i].Value++
			continue
		}
		index[p.Category] = len(out)
		out = append(out, CategoryCount{Name: p.Category, Value: 1})
	}
	return out
}
