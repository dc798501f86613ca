package services_test

import (
	"context"
	"sync"
	"time"

	"storefront/kafka"
	"storefront/models"
	repositories "storefront/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- Mock user repository ---

type mockUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (m *mockUserRepo) add(user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.ID] = user
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindAll(_ context.Context, _, _ int) ([]models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []models.User
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, int64(len(users)), nil
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	m.add(user)
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

// --- Mock product repository ---

type mockProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
	findErr  error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (m *mockProductRepo) add(product *models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	m.products[product.ID] = product
}

func (m *mockProductRepo) setPrice(id uuid.UUID, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		p.Price = price
	}
}

func (m *mockProductRepo) failFinds(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findErr = err
}

func (m *mockProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepo) FindAll(_ context.Context, _, _ int, _ *repositories.ProductFilters) ([]models.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var products []models.Product
	for _, p := range m.products {
		products = append(products, *p)
	}
	return products, int64(len(products)), nil
}

func (m *mockProductRepo) FindByStockLessThan(_ context.Context, threshold int) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var products []models.Product
	for _, p := range m.products {
		if p.Stock < threshold {
			products = append(products, *p)
		}
	}
	return products, nil
}

func (m *mockProductRepo) Create(_ context.Context, product *models.Product) error {
	m.add(product)
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.products)), nil
}

// --- Mock cart repository ---

// mockCartRepo deep-copies on read and write so the service never aliases
// stored state, matching what a real row store gives back.
type mockCartRepo struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*models.Cart // keyed by user id
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[uuid.UUID]*models.Cart)}
}

func copyCart(c *models.Cart) *models.Cart {
	copied := *c
	copied.Items = make([]models.CartItem, len(c.Items))
	copy(copied.Items, c.Items)
	return &copied
}

func (m *mockCartRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyCart(c), nil
}

func (m *mockCartRepo) Create(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	m.carts[cart.UserID] = copyCart(cart)
	return nil
}

func (m *mockCartRepo) Save(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range cart.Items {
		if cart.Items[i].ID == uuid.Nil {
			cart.Items[i].ID = uuid.New()
		}
		cart.Items[i].CartID = cart.ID
	}
	m.carts[cart.UserID] = copyCart(cart)
	return nil
}

func (m *mockCartRepo) clearByCartID(cartID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.carts {
		if c.ID == cartID {
			c.Items = nil
			c.TotalPrice = 0
			return
		}
	}
}

// --- Mock order repository ---

type mockOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order
	carts  *mockCartRepo
}

func newMockOrderRepo(carts *mockCartRepo) *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*models.Order), carts: carts}
}

func copyOrder(o *models.Order) *models.Order {
	copied := *o
	copied.OrderItems = make([]models.OrderItem, len(o.OrderItems))
	copy(copied.OrderItems, o.OrderItems)
	return &copied
}

func (m *mockOrderRepo) CreateFromCart(_ context.Context, order *models.Order, cartID uuid.UUID) error {
	m.mu.Lock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.OrderItems {
		if order.OrderItems[i].ID == uuid.Nil {
			order.OrderItems[i].ID = uuid.New()
		}
		order.OrderItems[i].OrderID = order.ID
	}
	m.orders[order.ID] = copyOrder(order)
	m.mu.Unlock()

	m.carts.clearByCartID(cartID)
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyOrder(o), nil
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, *copyOrder(o))
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, _, _ int) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []models.Order
	for _, o := range m.orders {
		orders = append(orders, *copyOrder(o))
	}
	return orders, int64(len(orders)), nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepo) SalesSummary(_ context.Context, from, to time.Time, statuses []models.OrderStatus) (*repositories.SalesSummaryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := &repositories.SalesSummaryRow{}
	for _, o := range m.orders {
		if o.OrderDate.Before(from) || o.OrderDate.After(to) {
			continue
		}
		for _, s := range statuses {
			if o.Status == s {
				row.TotalOrders++
				row.TotalRevenue += o.TotalPrice
				break
			}
		}
	}
	return row, nil
}

func (m *mockOrderRepo) TopProducts(_ context.Context, limit int, statuses []models.OrderStatus) ([]repositories.TopProductRow, error) {
	return nil, nil
}

// --- Mock event producer ---

type mockProducer struct {
	mu     sync.Mutex
	events []kafka.OrderCreatedEvent
}

func (m *mockProducer) SendOrderEvent(_ context.Context, event kafka.OrderCreatedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}
