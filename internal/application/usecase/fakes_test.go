package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	catalog "github.com/tisoftshake/softshake/internal/domain/catalog"
	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	reportdom "github.com/tisoftshake/softshake/internal/domain/report"
)

var errBoom = errors.New("boom")

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ------------------------------------------------------------
// catalog
// ------------------------------------------------------------

type fakeCatalog struct {
	categories map[string]catalog.Category
	products   map[string]catalog.Product
	options    []catalog.Option

	failList     bool
	failCategory bool
	seq          int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories: map[string]catalog.Category{},
		products:   map[string]catalog.Product{},
	}
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	if f.failList {
		return nil, errBoom
	}
	out := make([]catalog.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCatalog) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	if f.failCategory {
		return catalog.Category{}, errBoom
	}
	c, ok := f.categories[id]
	if !ok {
		return catalog.Category{}, catalog.ErrNotFound
	}
	return c, nil
}

func (f *fakeCatalog) GetCategoryBySlug(ctx context.Context, slug string) (catalog.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return catalog.Category{}, catalog.ErrNotFound
}

func (f *fakeCatalog) ListProducts(ctx context.Context, flt catalog.ProductFilter) ([]catalog.Product, error) {
	if f.failList {
		return nil, errBoom
	}
	out := []catalog.Product{}
	for _, p := range f.products {
		if flt.CategoryID != "" && p.CategoryID != flt.CategoryID {
			continue
		}
		if flt.InStockOnly && !p.InStock {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (f *fakeCatalog) ListOptions(ctx context.Context, ref catalog.OptionRef) ([]catalog.Option, error) {
	out := []catalog.Option{}
	for _, o := range f.options {
		if (ref.ProductID != "" && o.ProductID == ref.ProductID) || (ref.Group != "" && o.Group == ref.Group) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetOption(ctx context.Context, id string) (catalog.Option, error) {
	for _, o := range f.options {
		if o.ID == id {
			return o, nil
		}
	}
	return catalog.Option{}, catalog.ErrNotFound
}

func (f *fakeCatalog) SaveProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if p.ID == "" {
		f.seq++
		p.ID = fmt.Sprintf("p%d", f.seq)
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeCatalog) DeleteProduct(ctx context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalog) SetProductStock(ctx context.Context, id string, inStock bool) error {
	p, ok := f.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	p.InStock = inStock
	f.products[id] = p
	return nil
}

func (f *fakeCatalog) SetProductImage(ctx context.Context, id, url string) error {
	p, ok := f.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	p.ImageURL = url
	f.products[id] = p
	return nil
}

func (f *fakeCatalog) SaveOption(ctx context.Context, o catalog.Option) (catalog.Option, error) {
	if o.ID == "" {
		f.seq++
		o.ID = fmt.Sprintf("o%d", f.seq)
	}
	for i := range f.options {
		if f.options[i].ID == o.ID {
			f.options[i] = o
			return o, nil
		}
	}
	f.options = append(f.options, o)
	return o, nil
}

func (f *fakeCatalog) DeleteOption(ctx context.Context, id string) error {
	for i := range f.options {
		if f.options[i].ID == id {
			f.options = append(f.options[:i], f.options[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (f *fakeCatalog) SetOptionStock(ctx context.Context, id string, inStock bool) error {
	for i := range f.options {
		if f.options[i].ID == id {
			f.options[i].InStock = inStock
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (f *fakeCatalog) SaveCategory(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	f.categories[c.ID] = c
	return c, nil
}

// seedShop fills the catalog with one product per rule used in tests.
func seedShop() *fakeCatalog {
	f := newFakeCatalog()
	f.categories["acai"] = catalog.Category{ID: "acai", Name: "Açaí", Slug: "acai", Rule: catalog.RuleToppingLimited, SortOrder: 1}
	f.categories["bolos"] = catalog.Category{ID: "bolos", Name: "Bolos", Slug: "bolos", Rule: catalog.RuleCakeFlavorFilling, SortOrder: 2}
	f.categories["potes"] = catalog.Category{ID: "potes", Name: "Potes", Slug: "potes", Rule: catalog.RuleIceCreamPot, SortOrder: 3}

	f.products["acai-500"] = catalog.Product{ID: "acai-500", Name: "Açaí 500ml", Price: money("10.00"), CategoryID: "acai", InStock: true, Size: catalog.Size500}
	f.products["acai-300"] = catalog.Product{ID: "acai-300", Name: "Açaí 300ml", Price: money("8.00"), CategoryID: "acai", InStock: false, Size: catalog.Size300}
	f.products["bolo"] = catalog.Product{ID: "bolo", Name: "Bolo de Pote", Price: money("40.00"), CategoryID: "bolos", InStock: true}
	f.products["pote"] = catalog.Product{ID: "pote", Name: "Pote 2L", Price: money("75.00"), CategoryID: "potes", InStock: true}

	f.options = []catalog.Option{
		{ID: "granola", Name: "Granola", Price: money("1.50"), InStock: true, Kind: catalog.KindTopping, Group: catalog.GroupAcaiToppings},
		{ID: "ninho", Name: "Leite Ninho", Price: money("2.00"), InStock: true, Kind: catalog.KindTopping, Group: catalog.GroupAcaiToppings},
		{ID: "banana", Name: "Banana", Price: money("1.00"), InStock: true, Kind: catalog.KindTopping, Group: catalog.GroupAcaiToppings},
		{ID: "chocolate", Name: "Chocolate", Price: money("0"), InStock: true, Kind: catalog.KindFlavor, ProductID: "bolo"},
		{ID: "brigadeiro", Name: "Brigadeiro", Price: money("0"), InStock: true, Kind: catalog.KindFilling, ProductID: "bolo"},
		{ID: "morango", Name: "Morango", Price: money("0"), InStock: true, Kind: catalog.KindFilling, ProductID: "bolo"},
		{ID: "creme", Name: "Creme", Price: money("0"), InStock: true, Kind: catalog.KindFlavor, ProductID: "pote"},
		{ID: "flocos", Name: "Flocos", Price: money("0"), InStock: true, Kind: catalog.KindFlavor, ProductID: "pote"},
		{ID: "napolitano", Name: "Napolitano", Price: money("0"), InStock: true, Kind: catalog.KindFlavor, ProductID: "pote"},
	}
	return f
}

// ------------------------------------------------------------
// carts
// ------------------------------------------------------------

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string]*cartdom.Cart
	saves int

	failSave bool
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]*cartdom.Cart{}}
}

func (r *fakeCartRepo) Get(ctx context.Context, id string) (*cartdom.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Items = c.Snapshot()
	return &cp, nil
}

func (r *fakeCartRepo) Save(ctx context.Context, c *cartdom.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return errBoom
	}
	cp := *c
	cp.Items = c.Snapshot()
	r.carts[c.ID] = &cp
	r.saves++
	return nil
}

func (r *fakeCartRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, id)
	return nil
}

// ------------------------------------------------------------
// orders
// ------------------------------------------------------------

type fakeOrderRepo struct {
	orders  map[string]orderdom.Order
	seq     int
	updates int

	failCreate bool
	failUpdate bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]orderdom.Order{}}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o orderdom.Order) (orderdom.Order, error) {
	if r.failCreate {
		return orderdom.Order{}, errBoom
	}
	if o.ID == "" {
		r.seq++
		o.ID = fmt.Sprintf("ord-%d", r.seq)
	}
	r.orders[o.ID] = o
	return o, nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id string, s orderdom.Status, at time.Time) error {
	r.updates++
	if r.failUpdate {
		return errBoom
	}
	o, ok := r.orders[id]
	if !ok {
		return orderdom.ErrNotFound
	}
	o.Status = s
	o.UpdatedAt = at
	r.orders[id] = o
	return nil
}

func (r *fakeOrderRepo) List(ctx context.Context, f orderdom.Filter) ([]orderdom.Order, error) {
	out := []orderdom.Order{}
	for _, o := range r.orders {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	orderdom.SortNewestFirst(out)
	return out, nil
}

// ------------------------------------------------------------
// reports
// ------------------------------------------------------------

type fakeReportRepo struct {
	reports map[string]reportdom.SalesReport
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[string]reportdom.SalesReport{}}
}

func (r *fakeReportRepo) Get(ctx context.Context, year int, month time.Month) (*reportdom.SalesReport, error) {
	rep, ok := r.reports[reportdom.PeriodID(year, month)]
	if !ok {
		return nil, nil
	}
	return &rep, nil
}

func (r *fakeReportRepo) Save(ctx context.Context, rep reportdom.SalesReport) error {
	r.reports[rep.ID()] = rep
	return nil
}

type fakeExporter struct{}

func (fakeExporter) Render(w io.Writer, r reportdom.SalesReport) error {
	_, err := fmt.Fprintf(w, "%s;%d;%s", r.ID(), r.TotalOrders, r.TotalSales.StringFixed(2))
	return err
}
func (fakeExporter) ContentType() string { return "text/csv" }
func (fakeExporter) Extension() string   { return ".csv" }

// ------------------------------------------------------------
// signals, mail, storage
// ------------------------------------------------------------

type fakePublisher struct {
	mu     sync.Mutex
	events []notifdom.Event
}

func (p *fakePublisher) Publish(ctx context.Context, e notifdom.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) kinds() []notifdom.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notifdom.Kind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

type fakeNotifier struct {
	placed    []string
	completed []string
	fail      bool
}

func (n *fakeNotifier) OrderPlaced(ctx context.Context, o orderdom.Order) error {
	n.placed = append(n.placed, o.ID)
	if n.fail {
		return errBoom
	}
	return nil
}

func (n *fakeNotifier) OrderCompleted(ctx context.Context, o orderdom.Order) error {
	n.completed = append(n.completed, o.ID)
	if n.fail {
		return errBoom
	}
	return nil
}

type fakeStore struct {
	objects map[string][]byte
	fail    bool
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string][]byte{}} }

func (s *fakeStore) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if s.fail {
		return "", errBoom
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[name] = b
	return "https://storage.example/" + name, nil
}
