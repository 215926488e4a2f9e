// internal/adapters/in/http/presenter/presenter.go
package presenter

import (
	"time"

	"github.com/shopspring/decimal"

	usecase "github.com/tisoftshake/softshake/internal/application/usecase"
	cartdom "github.com/tisoftshake/softshake/internal/domain/cart"
	"github.com/tisoftshake/softshake/internal/domain/catalog"
	"github.com/tisoftshake/softshake/internal/domain/customization"
	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
	reportdom "github.com/tisoftshake/softshake/internal/domain/report"
)

// Money amounts leave the API as strings with two fraction digits ("13.50").

func money(d decimal.Decimal) string { return pricing.Format(d) }

// ============================================================
// Catalog
// ============================================================

type ProductDTO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       string            `json:"price"`
	ImageURL    string            `json:"imageUrl"`
	CategoryID  string            `json:"categoryId"`
	InStock     bool              `json:"inStock"`
	Size        catalog.SizeToken `json:"size,omitempty"`
	CreatedAt   *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time        `json:"updatedAt,omitempty"`
}

type OptionDTO struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Price     string             `json:"price"`
	InStock   bool               `json:"inStock"`
	Kind      catalog.OptionKind `json:"kind"`
	ProductID string             `json:"productId,omitempty"`
	Group     string             `json:"group,omitempty"`
}

type ProductListDTO struct {
	Items       []ProductDTO `json:"items"`
	Unavailable bool         `json:"unavailable"`
}

type CategoryListDTO struct {
	Items       []catalog.Category `json:"items"`
	Unavailable bool               `json:"unavailable"`
}

func Product(p catalog.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		InStock:     p.InStock,
		Size:        p.Size,
		CreatedAt:   timePtr(p.CreatedAt),
		UpdatedAt:   timePtr(p.UpdatedAt),
	}
}

func Products(ps []catalog.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, Product(p))
	}
	return out
}

func ProductList(l usecase.ProductList) ProductListDTO {
	return ProductListDTO{Items: Products(l.Items), Unavailable: l.Unavailable}
}

func CategoryList(l usecase.CategoryList) CategoryListDTO {
	items := l.Items
	if items == nil {
		items = []catalog.Category{}
	}
	return CategoryListDTO{Items: items, Unavailable: l.Unavailable}
}

func Option(o catalog.Option) OptionDTO {
	return OptionDTO{
		ID:        o.ID,
		Name:      o.Name,
		Price:     money(o.Price),
		InStock:   o.InStock,
		Kind:      o.Kind,
		ProductID: o.ProductID,
		Group:     o.Group,
	}
}

func Options(os []catalog.Option) []OptionDTO {
	out := make([]OptionDTO, 0, len(os))
	for _, o := range os {
		out = append(out, Option(o))
	}
	return out
}

// ============================================================
// Customization
// ============================================================

type ChoiceDTO struct {
	Option   OptionDTO `json:"option"`
	Selected bool      `json:"selected"`
	Disabled bool      `json:"disabled"`
}

type ViewDTO struct {
	Rule             catalog.Rule            `json:"rule"`
	Step             customization.Step      `json:"step"`
	Steps            []customization.Step    `json:"steps"`
	Slot             customization.Slot      `json:"slot,omitempty"`
	Limit            *customization.Limit    `json:"limit,omitempty"`
	Choices          []ChoiceDTO             `json:"choices"`
	Selection        customization.Selection `json:"selection"`
	CanAdvance       bool                    `json:"canAdvance"`
	RequiresDate     bool                    `json:"requiresDate"`
	RequiresCustomer bool                    `json:"requiresCustomer"`
	EarliestDate     string                  `json:"earliestDate,omitempty"`
	UnitPrice        string                  `json:"unitPrice"`
	Label            string                  `json:"label"`
}

func View(v customization.View) ViewDTO {
	choices := make([]ChoiceDTO, 0, len(v.Choices))
	for _, c := range v.Choices {
		choices = append(choices, ChoiceDTO{Option: Option(c.Option), Selected: c.Selected, Disabled: c.Disabled})
	}
	return ViewDTO{
		Rule:             v.Rule,
		Step:             v.Step,
		Steps:            v.Steps,
		Slot:             v.Slot,
		Limit:            v.Limit,
		Choices:          choices,
		Selection:        v.Selection,
		CanAdvance:       v.CanAdvance,
		RequiresDate:     v.RequiresDate,
		RequiresCustomer: v.RequiresCustomer,
		EarliestDate:     v.EarliestDate,
		UnitPrice:        money(v.UnitPrice),
		Label:            v.Label,
	}
}

// ============================================================
// Cart / Order
// ============================================================

type ToppingDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type LineItemDTO struct {
	ID            string       `json:"id"`
	Key           string       `json:"key"`
	Name          string       `json:"name"`
	BasePrice     string       `json:"basePrice"`
	UnitPrice     string       `json:"unitPrice"`
	LineTotal     string       `json:"lineTotal"`
	Quantity      int          `json:"quantity"`
	ImageURL      string       `json:"imageUrl,omitempty"`
	Rule          catalog.Rule `json:"rule"`
	Toppings      []ToppingDTO `json:"toppings"`
	Flavors       []string     `json:"flavors,omitempty"`
	Fillings      []string     `json:"fillings,omitempty"`
	Variation     string       `json:"variation,omitempty"`
	DeliveryDate  string       `json:"deliveryDate,omitempty"`
	CustomerName  string       `json:"customerName,omitempty"`
	CustomerPhone string       `json:"customerPhone,omitempty"`
}

type CartDTO struct {
	ID           string               `json:"id"`
	Items        []LineItemDTO        `json:"items"`
	ItemCount    int                  `json:"itemCount"`
	DeliveryType pricing.DeliveryType `json:"deliveryType"`
	Subtotal     string               `json:"subtotal"`
	DeliveryFee  string               `json:"deliveryFee"`
	Total        string               `json:"total"`
	UpdatedAt    *time.Time           `json:"updatedAt,omitempty"`
	ExpiresAt    *time.Time           `json:"expiresAt,omitempty"`
}

type OrderDTO struct {
	ID              string               `json:"id"`
	Number          string               `json:"number"`
	CustomerName    string               `json:"customerName"`
	CustomerPhone   string               `json:"customerPhone"`
	DeliveryType    pricing.DeliveryType `json:"deliveryType"`
	DeliveryAddress string               `json:"deliveryAddress,omitempty"`
	Items           []LineItemDTO        `json:"items"`
	Subtotal        string               `json:"subtotal"`
	DeliveryFee     string               `json:"deliveryFee"`
	TotalAmount     string               `json:"totalAmount"`
	Status          orderdom.Status      `json:"status"`
	NextStatus      orderdom.Status      `json:"nextStatus,omitempty"`
	DeliveryDate    *time.Time           `json:"deliveryDate,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

type OrderBoardDTO struct {
	Orders []OrderDTO               `json:"orders"`
	Counts map[orderdom.Status]int `json:"counts"`
	Total  int                      `json:"total"`
}

func LineItem(it cartdom.LineItem) LineItemDTO {
	toppings := make([]ToppingDTO, 0, len(it.Toppings))
	for _, t := range it.Toppings {
		toppings = append(toppings, ToppingDTO{ID: t.ID, Name: t.Name, Price: money(t.Price)})
	}
	return LineItemDTO{
		ID:            it.ID,
		Key:           it.Key,
		Name:          it.Name,
		BasePrice:     money(it.BasePrice),
		UnitPrice:     money(it.UnitPrice()),
		LineTotal:     money(it.LineTotal()),
		Quantity:      it.Quantity,
		ImageURL:      it.ImageURL,
		Rule:          it.Rule,
		Toppings:      toppings,
		Flavors:       it.Flavors,
		Fillings:      it.Fillings,
		Variation:     it.Variation,
		DeliveryDate:  it.DeliveryDate,
		CustomerName:  it.CustomerName,
		CustomerPhone: it.CustomerPhone,
	}
}

func LineItems(items []cartdom.LineItem) []LineItemDTO {
	out := make([]LineItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, LineItem(it))
	}
	return out
}

func Cart(v usecase.CartView) CartDTO {
	out := CartDTO{
		Items:        []LineItemDTO{},
		DeliveryType: v.DeliveryType,
		Subtotal:     money(v.Subtotal),
		DeliveryFee:  money(v.DeliveryFee),
		Total:        money(v.Total),
	}
	if c := v.Cart; c != nil {
		out.ID = c.ID
		out.Items = LineItems(c.Items)
		for _, it := range c.Items {
			out.ItemCount += it.Quantity
		}
		out.UpdatedAt = timePtr(c.UpdatedAt)
		out.ExpiresAt = timePtr(c.ExpiresAt)
	}
	return out
}

// Number is the short order number shown to people.
func Number(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func Order(o orderdom.Order) OrderDTO {
	out := OrderDTO{
		ID:              o.ID,
		Number:          Number(o.ID),
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		DeliveryType:    o.DeliveryType,
		DeliveryAddress: o.DeliveryAddress,
		Items:           LineItems(o.Items),
		Subtotal:        money(o.Subtotal),
		DeliveryFee:     money(o.DeliveryFee),
		TotalAmount:     money(o.TotalAmount),
		Status:          o.Status,
		DeliveryDate:    o.DeliveryDate,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if next, ok := o.NextStatus(); ok {
		out.NextStatus = next
	}
	return out
}

func OrderBoard(b usecase.OrderBoard) OrderBoardDTO {
	orders := make([]OrderDTO, 0, len(b.Orders))
	for _, o := range b.Orders {
		orders = append(orders, Order(o))
	}
	counts := b.Counts
	if counts == nil {
		counts = map[orderdom.Status]int{}
	}
	return OrderBoardDTO{Orders: orders, Counts: counts, Total: b.Total}
}

// ============================================================
// Reports
// ============================================================

type OrderSummaryDTO struct {
	ID           string               `json:"id"`
	Number       string               `json:"number"`
	CustomerName string               `json:"customerName"`
	DeliveryType pricing.DeliveryType `json:"deliveryType"`
	Status       orderdom.Status      `json:"status"`
	TotalAmount  string               `json:"totalAmount"`
	ItemCount    int                  `json:"itemCount"`
	CreatedAt    time.Time            `json:"createdAt"`
}

type ReportDTO struct {
	ID                string            `json:"id"`
	Year              int               `json:"year"`
	Month             int               `json:"month"`
	MonthName         string            `json:"monthName"`
	TotalSales        string            `json:"totalSales"`
	TotalOrders       int               `json:"totalOrders"`
	AverageOrderValue string            `json:"averageOrderValue"`
	Orders            []OrderSummaryDTO `json:"orders"`
	CreatedAt         time.Time         `json:"createdAt"`
	LastUpdated       time.Time         `json:"lastUpdated"`
}

func Report(r reportdom.SalesReport) ReportDTO {
	orders := make([]OrderSummaryDTO, 0, len(r.Orders))
	for _, o := range r.Orders {
		orders = append(orders, OrderSummaryDTO{
			ID:           o.ID,
			Number:       Number(o.ID),
			CustomerName: o.CustomerName,
			DeliveryType: o.DeliveryType,
			Status:       o.Status,
			TotalAmount:  money(o.TotalAmount),
			ItemCount:    o.ItemCount,
			CreatedAt:    o.CreatedAt,
		})
	}
	return ReportDTO{
		ID:                r.ID(),
		Year:              r.Year,
		Month:             int(r.Month),
		MonthName:         r.MonthName(),
		TotalSales:        money(r.TotalSales),
		TotalOrders:       r.TotalOrders,
		AverageOrderValue: money(r.AverageOrderValue),
		Orders:            orders,
		CreatedAt:         r.CreatedAt,
		LastUpdated:       r.LastUpdated,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
