package dashboard

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/dummyjson"
)

type Stats struct {
	TotalPosts    int             `json:"totalPosts"`
	TotalProducts int             `json:"totalProducts"`
	TotalComments int             `json:"totalComments"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// MonthlyRevenue is one point of the revenue trend, rounded to whole units.
type MonthlyRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// CategoryCount is one slice of the category distribution.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Overview struct {
	Stats          Stats               `json:"stats"`
	RevenueTrend   []MonthlyRevenue    `json:"revenueTrend"`
	Categories     []CategoryCount     `json:"categories"`
	RecentPosts    []dummyjson.Post    `json:"recentPosts"`
	RecentComments []dummyjson.Comment `json:"recentComments"`
}
