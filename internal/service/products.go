package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/vbonduro/cmsadmin/internal/api"
	"github.com/vbonduro/cmsadmin/internal/domain"
	"github.com/vbonduro/cmsadmin/internal/listing"
	"github.com/vbonduro/cmsadmin/internal/mutate"
)

// productsAPI is the subset of api.Client that ProductsPage requires.
type productsAPI interface {
	ListProducts(ctx context.Context, p api.ListParams) (api.Page[domain.ProductListItem], error)
	ToggleProductActive(ctx context.Context, id string) (*domain.ProductListItem, error)
	DeleteProduct(ctx context.Context, id string) error
}

type ProductsPage struct {
	List *listing.Controller[domain.ProductListItem]

	api    productsAPI
	mut    *mutate.Mutator[domain.ProductListItem]
	logger *slog.Logger

	mu       sync.Mutex
	selected []string
}

func NewProductsPage(client productsAPI, n Notifier, s Settings, logger *slog.Logger, opts ...listing.Option) *ProductsPage {
	logger = loggerOr(logger).With("page", "products")
	base := []listing.Option{
		listing.WithPageSize(s.PageSize),
		listing.WithDebounce(s.Debounce),
		listing.WithFailMessage("Failed to load products"),
		listing.WithLogger(logger),
	}
	list := listing.NewController(client.ListProducts, domain.ProductListItem.Key, append(base, opts...)...)
	return &ProductsPage{
		List:   list,
		api:    client,
		mut:    mutate.New[domain.ProductListItem](list, n, n, logger),
		logger: logger,
	}
}

func (p *ProductsPage) ToggleActive(ctx context.Context, id string) (domain.ProductListItem, error) {
	return p.mut.Apply(ctx, id,
		func(v domain.ProductListItem) domain.ProductListItem {
			v.IsActive = !v.IsActive
			return v
		},
		func(ctx context.Context, _ domain.ProductListItem) (*domain.ProductListItem, error) {
			return p.api.ToggleProductActive(ctx, id)
		},
		"Failed to update product status",
	)
}

func (p *ProductsPage) Delete(ctx context.Context, id string) error {
	name := id
	if v, ok := p.List.Lookup(id); ok && v.Name != "" {
		name = v.Name
	}
	err := p.mut.Delete(ctx, id,
		fmt.Sprintf("Delete product %q?", name),
		func(ctx context.Context) error { return p.api.DeleteProduct(ctx, id) },
		"Failed to delete product",
	)
	if err == nil {
		p.Deselect(id)
	}
	return err
}

// Select adds ids to the selection, keeping selection order.
func (p *ProductsPage) Select(ids ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range ids {
		if !slices.Contains(p.selected, id) {
			p.selected = append(p.selected, id)
		}
	}
}

func (p *ProductsPage) Deselect(ids ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = slices.DeleteFunc(p.selected, func(id string) bool { return slices.Contains(ids, id) })
}

// SelectAll selects every loaded product.
func (p *ProductsPage) SelectAll() {
	items := p.List.State().Items
	ids := make([]string, len(items))
	for i, v := range items {
		ids[i] = v.Key()
	}
	p.Select(ids...)
}

func (p *ProductsPage) ClearSelection() {
	p.mu.Lock()
	p.selected = nil
	p.mu.Unlock()
}

func (p *ProductsPage) Selected() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.selected)
}

// BulkDelete deletes the selection. Products that failed to delete stay in
// both the list and the selection.
func (p *ProductsPage) BulkDelete(ctx context.Context) (mutate.BulkResult, error) {
	ids := p.Selected()
	res, err := p.mut.BulkDelete(ctx, ids,
		fmt.Sprintf("Delete %d selected products?", len(ids)),
		p.api.DeleteProduct,
		"product",
	)
	if err != nil {
		return res, err
	}
	p.Deselect(res.Deleted...)
	return res, nil
}
