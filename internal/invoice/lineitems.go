package invoice

import (
	"errors"

	"github.com/JoshiWorld/rechnungssteller-api/internal/article"
)

// The invoice layout has a fixed number of line-item rows.
const maxLineItems = 6

var ErrCapacityExceeded = errors.New("invoice line-item capacity exceeded")

type LineItem struct {
	Title       string
	Description string
	Quantity    int
	UnitPrice   float64
	Tax         string
	Amount      float64
}

// BuildLineItems folds the order's articles into invoice rows. Articles with
// an already-placed title merge into that row, bumping quantity by one and
// adding the price to the amount; everything else takes the next free row.
// More distinct titles than rows is a render error, not silent loss.
func BuildLineItems(articles []article.Article) ([]LineItem, error) {
	items := make([]LineItem, 0, maxLineItems)

	for _, a := range articles {
		merged := false
		for i := range items {
			if items[i].Title == a.Title {
				items[i].Quantity++
				items[i].Amount += a.Price
				merged = true
				break
			}
		}
		if merged {
			continue
		}

		if len(items) == maxLineItems {
			return nil, ErrCapacityExceeded
		}

		description := a.Description
		if description == "" {
			description = " "
		}
		items = append(items, LineItem{
			Title:       a.Title,
			Description: description,
			Quantity:    1,
			UnitPrice:   a.Price,
			Tax:         "0 %",
			Amount:      a.Price,
		})
	}

	return items, nil
}
