package adminHandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tisoftshake/softshake/internal/adapters/in/http/admin"
	"github.com/tisoftshake/softshake/internal/adapters/out/memory"
	xlsxout "github.com/tisoftshake/softshake/internal/adapters/out/xlsx"
	usecase "github.com/tisoftshake/softshake/internal/application/usecase"
	"github.com/tisoftshake/softshake/internal/domain/catalog"
	"github.com/tisoftshake/softshake/internal/domain/customization"
	notifdom "github.com/tisoftshake/softshake/internal/domain/notification"
	orderdom "github.com/tisoftshake/softshake/internal/domain/order"
	"github.com/tisoftshake/softshake/internal/domain/pricing"
)

var testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeImageStore struct {
	mu    sync.Mutex
	names []string
	types []string
}

func (s *fakeImageStore) Put(_ context.Context, name, contentType string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, name)
	s.types = append(s.types, contentType)
	return "https://storage.googleapis.com/test-bucket/" + name, nil
}

type fakeMailer struct{ err error }

func (m fakeMailer) SendTest(context.Context) error { return m.err }

type fixture struct {
	handler http.Handler
	catalog *memory.CatalogRepositoryMem
	orders  *memory.OrderRepositoryMem
	feed    *memory.ChangeFeedMem
	images  *fakeImageStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	clock := fixedClock{t: testNow}

	cat := memory.NewCatalogRepositoryMem()
	_, err := cat.SaveCategory(ctx, catalog.Category{ID: "acai", Name: "Açaí", Slug: "acai", Rule: catalog.RuleToppingLimited})
	require.NoError(t, err)
	_, err = cat.SaveProduct(ctx, catalog.Product{ID: "acai-500", Name: "Açaí 500ml", Price: money("10"), CategoryID: "acai", InStock: true, Size: catalog.Size500})
	require.NoError(t, err)
	_, err = cat.SaveOption(ctx, catalog.Option{ID: "granola", Name: "Granola", Price: money("1.5"), InStock: true, Kind: catalog.KindTopping, Group: catalog.GroupAcaiToppings})
	require.NoError(t, err)

	orders := memory.NewOrderRepositoryMem()
	feed := memory.NewChangeFeedMem()
	images := &fakeImageStore{}
	policy := pricing.DefaultPolicy()

	stock := usecase.NewStockUsecase(cat, cat).WithImageStore(images).WithPublisher(feed).WithClock(clock)
	custom := usecase.NewCustomizationUsecase(cat, policy, customization.DefaultParams(), time.UTC).WithClock(clock)
	carts := usecase.NewCartUsecaseWithClock(memory.NewCartRepositoryMem(), custom, policy, clock)
	orderUC := usecase.NewOrderUsecase(orders, carts, policy, time.UTC).WithPublisher(feed).WithClock(clock)
	reports := usecase.NewReportUsecase(orders, memory.NewReportRepositoryMem(), xlsxout.NewReportExporter(time.UTC), time.UTC).WithClock(clock)

	r := chi.NewRouter()
	admin.Register(r, admin.Deps{
		Orders:   NewOrderHandler(orderUC),
		Products: NewProductHandler(stock),
		Options:  NewOptionHandler(stock),
		Reports:  NewReportHandler(reports),
		Feed:     NewFeedHandler(feed, []string{"https://admin.example.com"}),
		MailTest: NewMailTestHandler(fakeMailer{}),
	})
	return fixture{handler: r, catalog: cat, orders: orders, feed: feed, images: images}
}

func (f fixture) seedOrder(t *testing.T, name string, total string, at time.Time) orderdom.Order {
	t.Helper()
	o, err := f.orders.Create(context.Background(), orderdom.Order{
		CustomerName:  name,
		CustomerPhone: "11999990000",
		DeliveryType:  pricing.DeliveryPickup,
		Subtotal:      money(total),
		DeliveryFee:   decimal.Zero,
		TotalAmount:   money(total),
		CreatedAt:     at,
	})
	require.NoError(t, err)
	return o
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type orderBody struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	TotalAmount string `json:"totalAmount"`
}

func TestOrderBoard(t *testing.T) {
	f := newFixture(t)
	ana := f.seedOrder(t, "Ana", "29.00", testNow.Add(-2*time.Hour))
	f.seedOrder(t, "Bruno", "10.00", testNow.Add(-1*time.Hour))

	rec := do(t, f.handler, http.MethodGet, "/admin/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[struct {
		Orders []orderBody     `json:"orders"`
		Counts map[string]int `json:"counts"`
		Total  int            `json:"total"`
	}](t, rec)
	require.Len(t, board.Orders, 2)
	assert.Equal(t, "Bruno", func() string {
		o, err := f.orders.GetByID(context.Background(), board.Orders[0].ID)
		require.NoError(t, err)
		return o.CustomerName
	}(), "newest first")
	assert.Equal(t, 2, board.Counts["pending"])
	assert.Equal(t, "29.00", board.Orders[1].TotalAmount)

	// advance 5 times: the last call stays at completed
	want := []string{"accepted", "preparing", "delivering", "completed", "completed"}
	for _, w := range want {
		rec = do(t, f.handler, http.MethodPost, "/admin/orders/"+ana.ID+"/advance", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, w, decode[orderBody](t, rec).Status)
	}

	rec = do(t, f.handler, http.MethodGet, "/admin/orders?status=completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board = decode[struct {
		Orders []orderBody     `json:"orders"`
		Counts map[string]int `json:"counts"`
		Total  int            `json:"total"`
	}](t, rec)
	require.Len(t, board.Orders, 1)
	assert.Equal(t, ana.ID, board.Orders[0].ID)
	assert.Equal(t, 2, board.Total, "counts cover every order")

	rec = do(t, f.handler, http.MethodGet, "/admin/orders?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, f.handler, http.MethodPost, "/admin/orders/missing/advance", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductStockManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec := do(t, f.handler, http.MethodPost, "/admin/products", map[string]any{
		"name": "Açaí 700ml", "price": "14.00", "categoryId": "acai",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		ID      string `json:"id"`
		Price   string `json:"price"`
		Size    string `json:"size"`
		InStock bool   `json:"inStock"`
	}](t, rec)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "14.00", created.Price)
	assert.Equal(t, "700ml", created.Size, "size token parsed from the name")
	assert.True(t, created.InStock)

	rec = do(t, f.handler, http.MethodPost, "/admin/products", map[string]any{"name": "", "categoryId": "acai"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, f.handler, http.MethodPatch, "/admin/products/"+created.ID+"/stock", map[string]any{"inStock": false})
	require.Equal(t, http.StatusOK, rec.Code)
	p, err := f.catalog.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, p.InStock)

	rec = do(t, f.handler, http.MethodPatch, "/admin/products/"+created.ID+"/stock", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "inStock is required")

	rec = do(t, f.handler, http.MethodPut, "/admin/products/"+created.ID, map[string]any{
		"name": "Açaí 700ml", "price": 15, "categoryId": "acai", "inStock": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "15.00", decode[map[string]any](t, rec)["price"])

	rec = do(t, f.handler, http.MethodGet, "/admin/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = do(t, f.handler, http.MethodDelete, "/admin/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, f.handler, http.MethodDelete, "/admin/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductOptionsAndGroups(t *testing.T) {
	f := newFixture(t)

	rec := do(t, f.handler, http.MethodPost, "/admin/products/acai-500/options", map[string]any{
		"name": "Grande", "price": "2.00", "kind": "variation",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	opt := decode[map[string]any](t, rec)
	assert.Equal(t, "acai-500", opt["productId"])

	rec = do(t, f.handler, http.MethodGet, "/admin/products/acai-500/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = do(t, f.handler, http.MethodPost, "/admin/options", map[string]any{
		"name": "Paçoca", "price": "1.00", "kind": "topping", "group": catalog.GroupAcaiToppings,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, f.handler, http.MethodGet, "/admin/options?group="+catalog.GroupAcaiToppings, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	group := decode[[]struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Price string `json:"price"`
	}](t, rec)
	require.Len(t, group, 2)
	assert.Equal(t, "Granola", group[0].Name)
	assert.Equal(t, "1.50", group[0].Price)

	rec = do(t, f.handler, http.MethodPost, "/admin/options", map[string]any{
		"name": "Both", "kind": "topping", "group": catalog.GroupAcaiToppings, "productId": "acai-500",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "an option has one owner")

	rec = do(t, f.handler, http.MethodPatch, "/admin/options/granola/stock", map[string]any{"inStock": false})
	require.Equal(t, http.StatusOK, rec.Code)
	o, err := f.catalog.GetOption(context.Background(), "granola")
	require.NoError(t, err)
	assert.False(t, o.InStock)

	rec = do(t, f.handler, http.MethodPut, "/admin/options/granola", map[string]any{
		"name": "Granola Crocante", "price": "1.75", "kind": "topping", "group": catalog.GroupAcaiToppings,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.75", decode[map[string]any](t, rec)["price"])

	rec = do(t, f.handler, http.MethodDelete, "/admin/options/granola", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, f.handler, http.MethodGet, "/admin/options", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "group is required")
}

func multipartImage(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="acai.png"`)
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestProductImageUpload(t *testing.T) {
	f := newFixture(t)
	png := []byte("\x89PNG\r\n\x1a\n0000000000000000")

	body, ct := multipartImage(t, "", png)
	req := httptest.NewRequest(http.MethodPost, "/admin/products/acai-500/image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	url := decode[map[string]string](t, rec)["imageUrl"]
	assert.True(t, strings.HasPrefix(url, "https://storage.googleapis.com/test-bucket/products/acai-500-"))
	assert.Equal(t, []string{"image/png"}, f.images.types, "content type sniffed")

	p, err := f.catalog.GetProduct(context.Background(), "acai-500")
	require.NoError(t, err)
	assert.Equal(t, url, p.ImageURL)

	body, ct = multipartImage(t, "text/plain", []byte("hello"))
	req = httptest.NewRequest(http.MethodPost, "/admin/products/acai-500/image", body)
	req.Header.Set("Content-Type", ct)
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/products/acai-500/image", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing file part")
}

func TestReports(t *testing.T) {
	f := newFixture(t)
	f.seedOrder(t, "Ana", "29.00", testNow.Add(-48*time.Hour))
	f.seedOrder(t, "Bruno", "11.00", testNow.Add(-24*time.Hour))
	f.seedOrder(t, "Carla", "50.00", time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC))

	rec := do(t, f.handler, http.MethodGet, "/admin/reports/2026/3", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, f.handler, http.MethodPost, "/admin/reports/monthly", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rep := decode[struct {
		ID                string            `json:"id"`
		TotalSales        string            `json:"totalSales"`
		TotalOrders       int               `json:"totalOrders"`
		AverageOrderValue string            `json:"averageOrderValue"`
		Orders            []json.RawMessage `json:"orders"`
	}](t, rec)
	assert.Equal(t, "2026-03", rep.ID)
	assert.Equal(t, "40.00", rep.TotalSales)
	assert.Equal(t, 2, rep.TotalOrders)
	assert.Equal(t, "20.00", rep.AverageOrderValue)
	assert.Len(t, rep.Orders, 2)

	rec = do(t, f.handler, http.MethodGet, "/admin/reports/2026/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, f.handler, http.MethodGet, "/admin/reports/2026/3/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxout.NewReportExporter(time.UTC).ContentType(), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "relatorio-vendas-2026-03.xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip container")

	rec = do(t, f.handler, http.MethodGet, "/admin/reports/2026/13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, f.handler, http.MethodGet, "/admin/reports/abc/3/export", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMailTest(t *testing.T) {
	h := NewMailTestHandler(fakeMailer{})
	rec := do(t, h, http.MethodPost, "/admin/mail/test", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/admin/mail/test", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, NewMailTestHandler(fakeMailer{err: errors.New("401")}), http.MethodPost, "/admin/mail/test", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestFeedWebsocket(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/ws"

	hdr := http.Header{}
	hdr.Set("Origin", "https://evil.example.com")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, hdr)
	require.Error(t, err, "foreign origin rejected")
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		_ = resp.Body.Close()
	}

	hdr.Set("Origin", "https://admin.example.com")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, hdr)
	require.NoError(t, err)
	defer conn.Close()
	_ = resp.Body.Close()

	// the subscription exists once the upgrade answered
	require.Eventually(t, func() bool { return f.feed.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	rec := do(t, f.handler, http.MethodPatch, "/admin/products/acai-500/stock", map[string]any{"inStock": false})
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var e notifdom.Event
	require.NoError(t, conn.ReadJSON(&e))
	assert.Equal(t, notifdom.ProductsChanged, e.Kind)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, func() bool { return f.feed.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
