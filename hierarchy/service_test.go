package hierarchy

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-category-cache/category"
	"github.com/goliatone/go-category-cache/pkg/testsupport"
)

type staticProvider struct {
	records []category.Record
	err     error
}

func (p staticProvider) Categories(context.Context) ([]category.Record, error) {
	return p.records, p.err
}

func rec(id, parent string, order float64) category.Record {
	return category.Record{ID: id, Name: id, Slug: id, ParentID: parent, IsActive: true, Order: order, Type: category.TypeMain}
}

func ids(list []category.Record) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.ID
	}
	return out
}

func nodeIDs(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func fixtureService(t *testing.T) *Service {
	t.Helper()
	return New(staticProvider{records: testsupport.LoadRecords(t, testsupport.FixturePath("categories.json"))})
}

func abcd() *Service {
	return New(staticProvider{records: []category.Record{
		rec("A", "", 0),
		rec("B", "A", 0),
		rec("C", "A", 0),
		rec("D", "B", 0),
	}})
}

func TestTreeDerivation(t *testing.T) {
	ctx := context.Background()
	svc := abcd()

	main := svc.MainCategories(ctx)
	require.Len(t, main, 1)
	assert.Equal(t, "A", main[0].ID)
	assert.Equal(t, []string{"B", "C"}, nodeIDs(main[0].Children))
	for _, child := range main[0].Children {
		assert.Empty(t, child.Children, "main categories hydrate one level only")
	}

	assert.Equal(t, []string{"B", "C"}, ids(svc.Subcategories(ctx, "A")))
	assert.ElementsMatch(t, []string{"B", "C", "D"}, svc.AllDescendantIDs(ctx, "A"))
	assert.Equal(t, []string{"A", "B", "D"}, ids(svc.CategoryPath(ctx, "D")))
}

func TestOrdering_StableOnTies(t *testing.T) {
	svc := New(staticProvider{records: []category.Record{
		rec("p", "", 0),
		rec("x", "p", 2),
		rec("y", "p", 1),
		rec("z", "p", 2),
		rec("w", "p", 1),
	}})

	assert.Equal(t, []string{"y", "w", "x", "z"}, ids(svc.Subcategories(context.Background(), "p")))
}

func TestOrdering_DoesNotMutateProviderList(t *testing.T) {
	records := []category.Record{rec("b", "", 2), rec("a", "", 1)}
	svc := New(staticProvider{records: records})

	assert.Equal(t, []string{"a", "b"}, nodeIDs(svc.MainCategories(context.Background())))
	assert.Equal(t, "b", records[0].ID)
}

func TestInactiveExclusion(t *testing.T) {
	ctx := context.Background()
	svc := fixtureService(t)

	assert.Equal(t, []string{"c", "b"}, ids(svc.Subcategories(ctx, "a")))
	assert.NotContains(t, nodeIDs(svc.MainCategories(ctx)), "i")

	archived, ok := svc.ByID(ctx, "e")
	require.True(t, ok)
	assert.False(t, archived.IsActive)

	_, ok = svc.BySlug(ctx, "ancien-rayon")
	assert.True(t, ok)
}

func TestMainCategories_Fixture(t *testing.T) {
	main := fixtureService(t).MainCategories(context.Background())

	assert.Equal(t, []string{"g", "f", "a", "h"}, nodeIDs(main))
	assert.Equal(t, []string{"c", "b"}, nodeIDs(main[2].Children))
}

func TestSubcategories_EmptyParent(t *testing.T) {
	assert.Empty(t, abcd().Subcategories(context.Background(), ""))
	assert.NotNil(t, abcd().Subcategories(context.Background(), ""))
}

func TestCategoryPath(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		path := abcd().CategoryPath(ctx, "missing")
		assert.NotNil(t, path)
		assert.Empty(t, path)
	})

	t.Run("root", func(t *testing.T) {
		assert.Equal(t, []string{"A"}, ids(abcd().CategoryPath(ctx, "A")))
	})

	t.Run("dangling parent", func(t *testing.T) {
		svc := New(staticProvider{records: []category.Record{rec("x", "gone", 0)}})
		assert.Equal(t, []string{"x"}, ids(svc.CategoryPath(ctx, "x")))
	})

	t.Run("cycle terminates", func(t *testing.T) {
		svc := New(staticProvider{records: []category.Record{
			rec("x", "y", 0),
			rec("y", "x", 0),
		}})
		assert.Equal(t, []string{"y", "x"}, ids(svc.CategoryPath(ctx, "x")))
	})

	t.Run("depth bound", func(t *testing.T) {
		var chain []category.Record
		parent := ""
		for _, id := range []string{"l0", "l1", "l2", "l3", "l4"} {
			chain = append(chain, rec(id, parent, 0))
			parent = id
		}
		svc := New(staticProvider{records: chain}, WithMaxDepth(2))
		assert.Equal(t, []string{"l2", "l3", "l4"}, ids(svc.CategoryPath(ctx, "l4")))
	})
}

func TestAllDescendantIDs(t *testing.T) {
	ctx := context.Background()

	t.Run("includes inactive", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"b", "c", "d", "e"}, fixtureService(t).AllDescendantIDs(ctx, "a"))
	})

	t.Run("leaf", func(t *testing.T) {
		got := abcd().AllDescendantIDs(ctx, "D")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("empty parent", func(t *testing.T) {
		assert.Empty(t, abcd().AllDescendantIDs(ctx, ""))
	})

	t.Run("cycle terminates", func(t *testing.T) {
		svc := New(staticProvider{records: []category.Record{
			rec("x", "y", 0),
			rec("y", "x", 0),
			rec("z", "z", 0),
		}})
		assert.Equal(t, []string{"y"}, svc.AllDescendantIDs(ctx, "x"))
		assert.Empty(t, svc.AllDescendantIDs(ctx, "z"))
	})
}

func TestTree(t *testing.T) {
	tree := abcd().Tree(context.Background())

	require.Len(t, tree, 1)
	require.Equal(t, []string{"B", "C"}, nodeIDs(tree[0].Children))
	assert.Equal(t, []string{"D"}, nodeIDs(tree[0].Children[0].Children))
	assert.Empty(t, tree[0].Children[1].Children)
}

func TestTree_DepthBound(t *testing.T) {
	svc := New(staticProvider{records: []category.Record{
		rec("r", "", 0),
		rec("c1", "r", 0),
		rec("c2", "c1", 0),
	}}, WithMaxDepth(1))

	tree := svc.Tree(context.Background())
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Empty(t, tree[0].Children[0].Children)
}

func TestPromoCategories(t *testing.T) {
	assert.Equal(t, []string{"h"}, ids(fixtureService(t).PromoCategories(context.Background())))
}

func TestStats(t *testing.T) {
	st := fixtureService(t).Stats(context.Background())

	assert.Equal(t, Stats{Total: 9, Main: 5, Sub: 4, Active: 7, Inactive: 2, Promo: 1}, st)
}

func TestByID_BySlug(t *testing.T) {
	ctx := context.Background()
	svc := fixtureService(t)

	got, ok := svc.ByID(ctx, "g")
	require.True(t, ok)
	assert.Equal(t, "Bijoux électriques", got.Name)

	got, ok = svc.BySlug(ctx, "cuisine")
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)

	_, ok = svc.ByID(ctx, "nope")
	assert.False(t, ok)
	_, ok = svc.BySlug(ctx, "")
	assert.False(t, ok)
}

func TestDegradedProvider(t *testing.T) {
	svc := New(staticProvider{
		records: []category.Record{rec("A", "", 0)},
		err:     errors.New("upstream down"),
	})

	assert.Len(t, svc.MainCategories(context.Background()), 1)
	assert.Equal(t, Stats{Total: 1, Main: 1, Active: 1}, svc.Stats(context.Background()))
}

func TestRecordsWithoutIDAreIgnored(t *testing.T) {
	svc := New(staticProvider{records: []category.Record{
		rec("A", "", 0),
		{Name: "ghost", IsActive: true},
	}})

	assert.Equal(t, 1, svc.Stats(context.Background()).Total)
}

func TestConcurrentReads(t *testing.T) {
	svc := fixtureService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.MainCategories(ctx)
			svc.Search(ctx, "elec")
			svc.CategoryPath(ctx, "d")
		}()
	}
	wg.Wait()
}
