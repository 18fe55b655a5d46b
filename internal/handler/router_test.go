package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/internal/auth"
	"github.com/dmitrymomot/storefront/internal/cart"
	"github.com/dmitrymomot/storefront/internal/catalog"
	"github.com/dmitrymomot/storefront/internal/contact"
	"github.com/dmitrymomot/storefront/internal/handler"
	"github.com/dmitrymomot/storefront/internal/order"
	"github.com/dmitrymomot/storefront/internal/user"
	"github.com/dmitrymomot/storefront/pkg/cookie"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/mailer"
)

// In-memory repositories backing the full router under test.

type memProducts struct {
	products map[string]catalog.Product
	seq      int
}

func (m *memProducts) Find(_ context.Context, q catalog.ListQuery) ([]catalog.Product, int64, error) {
	var out []catalog.Product
	for _, p := range m.products {
		if !p.IsActive && !q.ShowAll && !q.IncludeInactive {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *memProducts) FindByID(_ context.Context, id string) (catalog.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (m *memProducts) Insert(_ context.Context, p catalog.Product) (catalog.Product, error) {
	m.seq++
	p.ID = "p" + strconv.Itoa(m.seq)
	m.products[p.ID] = p
	return p, nil
}

func (m *memProducts) Update(_ context.Context, id string, patch catalog.Patch) (catalog.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	m.products[id] = p
	return p, nil
}

func (m *memProducts) SetActive(_ context.Context, id string, active bool) error {
	p, ok := m.products[id]
	if !ok {
		return catalog.ErrNotFound
	}
	p.IsActive = active
	m.products[id] = p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	delete(m.products, id)
	return nil
}

func (m *memProducts) Categories(_ context.Context) ([]string, error) { return nil, nil }
func (m *memProducts) Stats(_ context.Context) (catalog.Stats, error) {
	return catalog.Stats{}, nil
}
func (m *memProducts) Count(_ context.Context) (int64, error) {
	return int64(len(m.products)), nil
}

type memCarts struct {
	carts map[string]cart.Cart
	seq   int
}

func (m *memCarts) findID(owner cart.Owner) (string, bool) {
	for id, c := range m.carts {
		if c.Owner == owner {
			return id, true
		}
	}
	return "", false
}

func (m *memCarts) FindByOwner(_ context.Context, owner cart.Owner) (cart.Cart, error) {
	if id, ok := m.findID(owner); ok {
		return m.carts[id], nil
	}
	return cart.Cart{}, cart.ErrCartNotFound
}

func (m *memCarts) ClaimGuestCart(_ context.Context, guestID string) (cart.Cart, error) {
	id, ok := m.findID(cart.GuestOwner(guestID))
	if !ok {
		return cart.Cart{}, cart.ErrCartNotFound
	}
	c := m.carts[id]
	delete(m.carts, id)
	return c, nil
}

func (m *memCarts) Save(_ context.Context, c *cart.Cart) error {
	if c.ID == "" {
		m.seq++
		c.ID = "c" + strconv.Itoa(m.seq)
	}
	m.carts[c.ID] = *c
	return nil
}

func (m *memCarts) Delete(_ context.Context, id string) error {
	delete(m.carts, id)
	return nil
}

func (m *memCarts) AddItemAtomic(_ context.Context, userID string, item cart.LineItem) (cart.Cart, error) {
	owner := cart.UserOwner(userID)
	id, ok := m.findID(owner)
	if !ok {
		m.seq++
		c := cart.Cart{ID: "c" + strconv.Itoa(m.seq), Owner: owner, Items: []cart.LineItem{item}}
		c.TotalPrice = item.Price * float64(item.Quantity)
		m.carts[c.ID] = c
		return c, nil
	}
	c := m.carts[id]
	found := false
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			found = true
		}
	}
	if !found {
		c.Items = append(c.Items, item)
	}
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	c.TotalPrice = total
	m.carts[id] = c
	return c, nil
}

type memOrders struct {
	orders map[string]order.Order
	seq    int
}

func (m *memOrders) Insert(_ context.Context, o order.Order) (order.Order, error) {
	m.seq++
	o.ID = "o" + strconv.Itoa(m.seq)
	m.orders[o.ID] = o
	return o, nil
}

func (m *memOrders) FindByID(_ context.Context, id string) (order.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return o, nil
}

func (m *memOrders) FindAll(_ context.Context) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *memOrders) FindByUser(_ context.Context, userID string) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) Update(_ context.Context, o order.Order) (order.Order, error) {
	m.orders[o.ID] = o
	return o, nil
}

func (m *memOrders) Delete(_ context.Context, id string) error {
	delete(m.orders, id)
	return nil
}

func (m *memOrders) Count(_ context.Context) (int64, error) {
	return int64(len(m.orders)), nil
}

type memContacts struct {
	contacts map[string]contact.Contact
	seq      int
}

func (m *memContacts) Insert(_ context.Context, c contact.Contact) (contact.Contact, error) {
	m.seq++
	c.ID = "m" + strconv.Itoa(m.seq)
	m.contacts[c.ID] = c
	return c, nil
}

func (m *memContacts) FindByID(_ context.Context, id string) (contact.Contact, error) {
	c, ok := m.contacts[id]
	if !ok {
		return contact.Contact{}, contact.ErrNotFound
	}
	return c, nil
}

func (m *memContacts) Find(_ context.Context, page, limit int, status contact.Status) ([]contact.Contact, int64, error) {
	var out []contact.Contact
	for _, c := range m.contacts {
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (m *memContacts) Update(_ context.Context, c contact.Contact) (contact.Contact, error) {
	m.contacts[c.ID] = c
	return c, nil
}

func (m *memContacts) Delete(_ context.Context, id string) error {
	delete(m.contacts, id)
	return nil
}

type memUsers struct {
	users map[string]user.User
	seq   int
}

func (m *memUsers) Insert(_ context.Context, u user.User) (user.User, error) {
	for _, e := range m.users {
		if e.Email == u.Email {
			return user.User{}, user.ErrEmailTaken
		}
	}
	m.seq++
	u.ID = "u" + strconv.Itoa(m.seq)
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUsers) FindAll(_ context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, u user.User) (user.User, error) {
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *memUsers) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

type nopSender struct{}

func (nopSender) Send(context.Context, *mailer.Email) error { return nil }

type testEnv struct {
	srv    *httptest.Server
	tokens *auth.Service
	users  *memUsers
	carts  *memCarts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.NewNope()
	tokens, err := auth.NewService("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	caches := catalog.NewMemoryCaches()
	t.Cleanup(func() { _ = caches.Close() })

	products := &memProducts{products: make(map[string]catalog.Product)}
	carts := &memCarts{carts: make(map[string]cart.Cart)}
	orders := &memOrders{orders: make(map[string]order.Order)}
	contacts := &memContacts{contacts: make(map[string]contact.Contact)}
	users := &memUsers{users: make(map[string]user.User)}

	catalogSvc := catalog.NewService(products, caches, log)
	engine := cart.NewEngine(carts, catalogSvc, log)

	h := handler.New(handler.Deps{
		Catalog:  catalogSvc,
		Carts:    engine,
		Orders:   order.NewService(orders, carts, log),
		Contacts: contact.NewService(contacts, nopSender{}, log),
		Users:    user.NewService(users, tokens, log),
		Tokens:   tokens,
		Cookies:  cookie.New(cookie.WithSecret("another-32-byte-cookie-secret!!!")),
		Log:      log,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, tokens: tokens, users: users, carts: carts}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	u, err := e.users.Insert(context.Background(), user.User{Name: "Root", Email: fmt.Sprintf("root%d@example.com", e.users.seq), IsAdmin: true})
	require.NoError(t, err)
	token, err := e.tokens.Issue(u.ID, true)
	require.NoError(t, err)
	return token
}

func (e *testEnv) userToken(t *testing.T) (string, string) {
	t.Helper()
	u, err := e.users.Insert(context.Background(), user.User{Name: "Shopper", Email: fmt.Sprintf("shopper%d@example.com", e.users.seq)})
	require.NoError(t, err)
	token, err := e.tokens.Issue(u.ID, false)
	require.NoError(t, err)
	return u.ID, token
}

func (e *testEnv) createProduct(t *testing.T) catalog.Product {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/products", e.adminToken(t), map[string]any{
		"name":        "Trail Runner",
		"price":       42.5,
		"description": "Lightweight trail shoe",
		"image":       "https://img.example.com/trail.png",
		"category":    "shoes",
		"stock":       5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p catalog.Product
	decodeBody(t, resp, &p)
	return p
}

func TestRouterLiveness(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterProductAuthz(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	t.Run("public list", func(t *testing.T) {
		resp := env.do(t, http.MethodGet, "/api/products", "", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("anonymous create rejected", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/products", "", map[string]any{"name": "x"})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("non-admin create rejected", func(t *testing.T) {
		_, token := env.userToken(t)
		resp := env.do(t, http.MethodPost, "/api/products", token, map[string]any{"name": "x"})
		defer resp.Body.Close()
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin create then public read", func(t *testing.T) {
		p := env.createProduct(t)

		resp := env.do(t, http.MethodGet, "/api/products/"+p.ID, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got catalog.Product
		decodeBody(t, resp, &got)
		require.Equal(t, "Trail Runner", got.Name)
	})

	t.Run("invalid payload is a 400", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/products", env.adminToken(t), map[string]any{"name": "no price"})
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRouterGuestCartCookie(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/cart", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var issued *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "guestCartId" {
			issued = c
		}
	}
	require.NotNil(t, issued, "first anonymous cart read must issue the guest cookie")
	require.True(t, issued.HttpOnly)

	var body struct {
		Items      []cart.LineItem `json:"items"`
		TotalPrice float64         `json:"totalPrice"`
	}
	decodeBody(t, resp, &body)
	require.Empty(t, body.Items)
	require.Zero(t, body.TotalPrice)
}

func TestRouterCartFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	p := env.createProduct(t)
	userID, token := env.userToken(t)

	t.Run("anonymous add rejected", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/cart/add", "", map[string]any{"productId": p.ID})
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("add defaults quantity to one", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/cart/add", token, map[string]any{"productId": p.ID})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			User  string          `json:"user"`
			Items []cart.LineItem `json:"items"`
		}
		decodeBody(t, resp, &body)
		require.Equal(t, userID, body.User)
		require.Len(t, body.Items, 1)
		require.Equal(t, 1, body.Items[0].Quantity)
	})

	t.Run("unknown product is a 404", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/cart/add", token, map[string]any{"productId": "ghost"})
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("order consumes the cart", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/orders", token, map[string]any{
			"paymentMethod": "card",
			"address": map[string]any{
				"firstName": "Nadia", "lastName": "Haddad", "country": "Lebanon",
				"address": "12 Hamra St", "city": "Beirut",
				"phone": "+96170000000", "email": "nadia@example.com",
			},
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		after := env.do(t, http.MethodGet, "/api/cart", token, nil)
		var body struct {
			Items []cart.LineItem `json:"items"`
		}
		decodeBody(t, after, &body)
		require.Empty(t, body.Items, "cart must be empty after checkout")
	})
}

func TestRouterRegisterLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/users/register", "", map[string]any{
		"name": "Lena", "email": "lena@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reg struct {
		User  user.User `json:"user"`
		Token string    `json:"token"`
	}
	decodeBody(t, resp, &reg)
	require.NotEmpty(t, reg.Token)

	resp = env.do(t, http.MethodPost, "/api/users/login", "", map[string]any{
		"email": "lena@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &login)

	me := env.do(t, http.MethodGet, "/api/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, me.StatusCode)
	var u user.User
	decodeBody(t, me, &u)
	require.Equal(t, "lena@example.com", u.Email)

	bad := env.do(t, http.MethodPost, "/api/users/login", "", map[string]any{
		"email": "lena@example.com", "password": "wrong",
	})
	defer bad.Body.Close()
	require.Equal(t, http.StatusUnauthorized, bad.StatusCode)
}

func TestRouterContactSubmit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/contact", "", map[string]any{
		"name": "Rami", "email": "rami@example.com", "message": "Hi there",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	listAnon := env.do(t, http.MethodGet, "/api/contact", "", nil)
	defer listAnon.Body.Close()
	require.Equal(t, http.StatusUnauthorized, listAnon.StatusCode)

	list := env.do(t, http.MethodGet, "/api/contact", env.adminToken(t), nil)
	require.Equal(t, http.StatusOK, list.StatusCode)
	var res contact.ListResult
	decodeBody(t, list, &res)
	require.Equal(t, int64(1), res.Total)
}
