package store

import (
	"sort"

	"github.com/pocketledger/client/pkg/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategorySum is the total of the transactions of one category.
type CategorySum struct {
	Category models.Category `json:"category"`
	Sum      decimal.Decimal `json:"sum" example:"1520.40"`
	Count    int             `json:"count" example:"4"`
}

// CategoryAnalysis returns the per-category sums and counts of the
// transactions matching the filter, largest sum first.
//
// Amounts are stored as text and summed as decimals here. Summing in SQL
// would convert them to floating point.
func (s *Store) CategoryAnalysis(filter TransactionFilter) Query[[]CategorySum] {
	return newQuery(s, func(db *gorm.DB) ([]CategorySum, error) {
		transactions, err := findTransactions(filter.apply(db))
		if err != nil {
			return nil, err
		}

		return sumByCategory(transactions), nil
	}, TableTransactions, TableCategories)
}

// Total returns the sum of the amounts of all transactions matching the filter.
func (s *Store) Total(filter TransactionFilter) Query[decimal.Decimal] {
	return newQuery(s, func(db *gorm.DB) (decimal.Decimal, error) {
		transactions, err := findTransactions(filter.apply(db))
		if err != nil {
			return decimal.Zero, err
		}

		total := decimal.Zero
		for _, t := range transactions {
			total = total.Add(t.Amount)
		}
		return total, nil
	}, TableTransactions, TableCategories)
}

func sumByCategory(transactions []models.Transaction) []CategorySum {
	index := make(map[int64]int)
	sums := make([]CategorySum, 0)

	for _, t := range transactions {
		i, ok := index[t.CategoryID]
		if !ok {
			i = len(sums)
			index[t.CategoryID] = i
			sums = append(sums, CategorySum{Category: t.Category, Sum: decimal.Zero})
		}

		sums[i].Sum = sums[i].Sum.Add(t.Amount)
		sums[i].Count++
	}

	sort.SliceStable(sums, func(i, j int) bool {
		if c := sums[i].Sum.Cmp(sums[j].Sum); c != 0 {
			return c > 0
		}
		return sums[i].Category.ID < sums[j].Category.ID
	})

	return sums
}
