package listing

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/propdesk/propdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func props(ids ...string) []domain.Property {
	out := make([]domain.Property, len(ids))
	for i, id := range ids {
		out[i] = domain.Property{ID: id, Title: "v1-" + id}
	}
	return out
}

func ids(items []domain.Property) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestAccumulatorEmpty(t *testing.T) {
	a := NewAccumulator()
	assert.True(t, a.HasMore())
	assert.Equal(t, 1, a.NextPage())
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, a.TotalCount())
	assert.Empty(t, a.Items())
}

func TestAccumulatorLastOccurrenceWins(t *testing.T) {
	a := NewAccumulator()
	a.AppendPage(domain.Page{Items: props("a", "b", "c"), Meta: domain.PageMeta{Page: 1, TotalPages: 2, Total: 5}})

	updated := props("b", "d")
	updated[0].Title = "v2-b"
	a.AppendPage(domain.Page{Items: updated, Meta: domain.PageMeta{Page: 2, TotalPages: 2, Total: 5}})

	items := a.Items()
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(items))
	assert.Equal(t, "v2-b", items[1].Title)
	assert.False(t, a.HasMore())
}

func TestAccumulatorDedupInvariantsHoldForRandomPages(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 50; run++ {
		a := NewAccumulator()
		last := map[string]string{}
		var firstOrder []string
		seen := map[string]bool{}

		pages := 1 + rng.Intn(6)
		for p := 1; p <= pages; p++ {
			n := rng.Intn(8)
			items := make([]domain.Property, n)
			for i := range items {
				id := fmt.Sprintf("id-%d", rng.Intn(15))
				title := fmt.Sprintf("run%d-page%d-item%d", run, p, i)
				items[i] = domain.Property{ID: id, Title: title}
				last[id] = title
				if !seen[id] {
					seen[id] = true
					firstOrder = append(firstOrder, id)
				}
			}
			a.AppendPage(domain.Page{Items: items, Meta: domain.PageMeta{Page: p, TotalPages: pages}})
		}

		got := a.Items()
		require.Equal(t, firstOrder, ids(got), "run %d", run)
		for _, item := range got {
			assert.Equal(t, last[item.ID], item.Title, "run %d id %s", run, item.ID)
		}
	}
}

func TestAccumulatorTotalFromFirstPageOnly(t *testing.T) {
	a := NewAccumulator()
	a.AppendPage(domain.Page{Items: props("a"), Meta: domain.PageMeta{Page: 1, TotalPages: 3, Total: 25}})
	a.AppendPage(domain.Page{Items: props("b"), Meta: domain.PageMeta{Page: 2, TotalPages: 3, Total: 31}})

	assert.Equal(t, 25, a.TotalCount())
}

func TestAccumulatorTrustsLatestTotalPages(t *testing.T) {
	a := NewAccumulator()
	a.AppendPage(domain.Page{Items: props("a"), Meta: domain.PageMeta{Page: 1, TotalPages: 5, Total: 50}})
	a.AppendPage(domain.Page{Items: props("b"), Meta: domain.PageMeta{Page: 2, TotalPages: 2, Total: 20}})

	assert.False(t, a.HasMore())
}

func TestAccumulatorAdvancesWhenMetaPageMissing(t *testing.T) {
	a := NewAccumulator()
	a.AppendPage(domain.Page{Items: props("a"), Meta: domain.PageMeta{TotalPages: 3}})
	a.AppendPage(domain.Page{Items: props("b"), Meta: domain.PageMeta{TotalPages: 3}})

	assert.Equal(t, 3, a.NextPage())
	assert.True(t, a.HasMore())
}

func TestAccumulatorReset(t *testing.T) {
	a := NewAccumulator()
	a.AppendPage(domain.Page{Items: props("a"), Meta: domain.PageMeta{Page: 1, TotalPages: 1, Total: 1}})
	a.Reset()

	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 1, a.NextPage())
	assert.True(t, a.HasMore())
	assert.Equal(t, 0, a.Pages())
}
