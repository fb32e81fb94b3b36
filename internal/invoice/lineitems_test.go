package invoice

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/JoshiWorld/rechnungssteller-api/internal/article"
)

func TestBuildLineItems_MergesDuplicateTitles(t *testing.T) {
	articles := []article.Article{
		{ID: 1, Title: "Song A", Price: 9.99, Description: "Single"},
		{ID: 1, Title: "Song A", Price: 9.99, Description: "Single"},
		{ID: 2, Title: "Album B", Price: 19.99},
	}

	items, err := BuildLineItems(articles)
	require.NoError(t, err)

	expected := []LineItem{
		{Title: "Song A", Description: "Single", Quantity: 2, UnitPrice: 9.99, Tax: "0 %", Amount: 19.98},
		{Title: "Album B", Description: " ", Quantity: 1, UnitPrice: 19.99, Tax: "0 %", Amount: 19.99},
	}
	if diff := cmp.Diff(expected, items); diff != "" {
		t.Errorf("line items mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildLineItems_EmptyOrder(t *testing.T) {
	items, err := BuildLineItems(nil)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestBuildLineItems_CapacityExceeded(t *testing.T) {
	articles := make([]article.Article, 0, maxLineItems+1)
	for i := 0; i <= maxLineItems; i++ {
		articles = append(articles, article.Article{
			ID:    int64(i + 1),
			Title: string(rune('A' + i)),
			Price: 1,
		})
	}

	_, err := BuildLineItems(articles)
	require.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestBuildLineItems_SixDistinctTitlesFit(t *testing.T) {
	articles := make([]article.Article, 0, maxLineItems)
	for i := 0; i < maxLineItems; i++ {
		articles = append(articles, article.Article{
			ID:    int64(i + 1),
			Title: string(rune('A' + i)),
			Price: 1,
		})
	}

	items, err := BuildLineItems(articles)
	require.NoError(t, err)
	require.Len(t, items, maxLineItems)
}

func TestBuildLineItems_DuplicatesBeyondCapacityStillMerge(t *testing.T) {
	// Seven articles but only six distinct titles: the seventh merges.
	articles := make([]article.Article, 0, maxLineItems+1)
	for i := 0; i < maxLineItems; i++ {
		articles = append(articles, article.Article{
			ID:    int64(i + 1),
			Title: string(rune('A' + i)),
			Price: 2,
		})
	}
	articles = append(articles, articles[0])

	items, err := BuildLineItems(articles)
	require.NoError(t, err)
	require.Len(t, items, maxLineItems)
	require.Equal(t, 2, items[0].Quantity)
	require.Equal(t, 4.0, items[0].Amount)
}
