// Package hierarchy derives read-only views over the flat category list:
// main categories, subcategories, breadcrumb paths, descendant sets, search
// and statistics. Nothing is cached here; every call works from the list the
// Provider currently returns.
package hierarchy

import (
	"cmp"
	"context"
	"slices"

	"github.com/goliatone/go-category-cache/category"
)

// MaxDepth bounds every ancestor and descendant walk.
const MaxDepth = 10

// Provider returns the current flat list. A Provider may return a degraded
// list together with an error; the list is used and the error ignored.
type Provider interface {
	Categories(ctx context.Context) ([]category.Record, error)
}

// Node is a category with its children attached.
type Node struct {
	category.Record
	Children []Node `json:"children"`
}

// Option configures a Service.
type Option func(*Service)

// WithMaxDepth overrides MaxDepth.
func WithMaxDepth(depth int) Option {
	return func(s *Service) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

// Service computes hierarchy views. It holds no state besides its Provider.
type Service struct {
	provider Provider
	maxDepth int
}

// New creates a Service reading from provider.
func New(provider Provider, opts ...Option) *Service {
	s := &Service{provider: provider, maxDepth: MaxDepth}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// records returns the usable records in source order.
func (s *Service) records(ctx context.Context) []category.Record {
	list, _ := s.provider.Categories(ctx)
	out := make([]category.Record, 0, len(list))
	for _, r := range list {
		if r.ID == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MainCategories returns the active top level categories sorted by order,
// each with its active direct children attached. Grandchildren are not.
func (s *Service) MainCategories(ctx context.Context) []Node {
	all := s.records(ctx)
	children := childIndex(all, true)

	roots := filter(all, func(r category.Record) bool {
		return r.IsRoot() && r.IsActive
	})

	nodes := make([]Node, 0, len(roots))
	for _, root := range roots {
		kids := children[root.ID]
		node := Node{Record: root, Children: make([]Node, 0, len(kids))}
		for _, kid := range kids {
			node.Children = append(node.Children, Node{Record: kid, Children: []Node{}})
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Subcategories returns the active direct children of parentID sorted by
// order. An empty parentID yields an empty list.
func (s *Service) Subcategories(ctx context.Context, parentID string) []category.Record {
	if parentID == "" {
		return []category.Record{}
	}
	return filter(s.records(ctx), func(r category.Record) bool {
		return r.ParentID == parentID && r.IsActive
	})
}

// PromoCategories returns the active promotional categories sorted by order.
func (s *Service) PromoCategories(ctx context.Context) []category.Record {
	return filter(s.records(ctx), func(r category.Record) bool {
		return r.IsPromo() && r.IsActive
	})
}

// Tree returns the full active hierarchy. Children are attached recursively
// up to the maximum depth; a record reachable twice is attached once.
func (s *Service) Tree(ctx context.Context) []Node {
	all := s.records(ctx)
	children := childIndex(all, true)
	visited := make(map[string]bool, len(all))

	var build func(r category.Record, depth int) Node
	build = func(r category.Record, depth int) Node {
		node := Node{Record: r, Children: []Node{}}
		if depth >= s.maxDepth {
			return node
		}
		for _, kid := range children[r.ID] {
			if visited[kid.ID] {
				continue
			}
			visited[kid.ID] = true
			node.Children = append(node.Children, build(kid, depth+1))
		}
		return node
	}

	roots := filter(all, func(r category.Record) bool {
		return r.IsRoot() && r.IsActive
	})
	tree := make([]Node, 0, len(roots))
	for _, root := range roots {
		visited[root.ID] = true
		tree = append(tree, build(root, 0))
	}
	return tree
}

// CategoryPath returns the ancestors of id from the root down to id itself.
// The walk stops after the maximum depth or when it meets a record twice, and
// returns whatever it built so far. An unknown id yields an empty path.
func (s *Service) CategoryPath(ctx context.Context, id string) []category.Record {
	byID := index(s.records(ctx))

	current, ok := byID[id]
	if !ok {
		return []category.Record{}
	}

	path := []category.Record{current}
	visited := map[string]bool{current.ID: true}
	for hops := 0; hops < s.maxDepth && !current.IsRoot(); hops++ {
		parent, ok := byID[current.ParentID]
		if !ok || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		path = append(path, parent)
		current = parent
	}

	slices.Reverse(path)
	return path
}

// AllDescendantIDs returns the ids of every record beneath parentID,
// depth first, regardless of the active flag.
func (s *Service) AllDescendantIDs(ctx context.Context, parentID string) []string {
	if parentID == "" {
		return []string{}
	}

	children := childIndex(s.records(ctx), false)
	out := []string{}
	visited := map[string]bool{parentID: true}

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if depth >= s.maxDepth {
			return
		}
		for _, kid := range children[id] {
			if visited[kid.ID] {
				continue
			}
			visited[kid.ID] = true
			out = append(out, kid.ID)
			walk(kid.ID, depth+1)
		}
	}
	walk(parentID, 0)

	return out
}

// ByID returns the record with the given id, active or not.
func (s *Service) ByID(ctx context.Context, id string) (category.Record, bool) {
	for _, r := range s.records(ctx) {
		if r.ID == id {
			return r, true
		}
	}
	return category.Record{}, false
}

// BySlug returns the first record with the given slug, active or not.
func (s *Service) BySlug(ctx context.Context, slug string) (category.Record, bool) {
	if slug == "" {
		return category.Record{}, false
	}
	for _, r := range s.records(ctx) {
		if r.Slug == slug {
			return r, true
		}
	}
	return category.Record{}, false
}

// childIndex groups records by parent id, each group sorted by order.
func childIndex(all []category.Record, activeOnly bool) map[string][]category.Record {
	idx := make(map[string][]category.Record)
	for _, r := range all {
		if r.IsRoot() || (activeOnly && !r.IsActive) {
			continue
		}
		idx[r.ParentID] = append(idx[r.ParentID], r)
	}
	for parent := range idx {
		sortByOrder(idx[parent])
	}
	return idx
}

func index(all []category.Record) map[string]category.Record {
	idx := make(map[string]category.Record, len(all))
	for _, r := range all {
		if _, dup := idx[r.ID]; !dup {
			idx[r.ID] = r
		}
	}
	return idx
}

// filter returns the matching records in a new slice sorted by order.
func filter(all []category.Record, keep func(category.Record) bool) []category.Record {
	out := make([]category.Record, 0)
	for _, r := range all {
		if keep(r) {
			out = append(out, r)
		}
	}
	sortByOrder(out)
	return out
}

// sortByOrder sorts in place; equal orders keep their relative position.
func sortByOrder(list []category.Record) {
	slices.SortStableFunc(list, func(a, b category.Record) int {
		return cmp.Compare(a.Order, b.Order)
	})
}
