package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/agromanage/agromanage/internal/auth"
	"github.com/agromanage/agromanage/internal/handlers"
	"github.com/agromanage/agromanage/internal/models"
	"github.com/agromanage/agromanage/internal/realtime"
	"github.com/agromanage/agromanage/internal/router"
	"github.com/agromanage/agromanage/internal/store"
	"github.com/agromanage/agromanage/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errBoom = errors.New("boom")

type fakeUsers struct {
	mu     sync.Mutex
	nextID uint
	users  []models.User
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return store.ErrDuplicate
		}
	}

	f.nextID++
	user.ID = f.nextID
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) FindByUsernameAndRole(_ context.Context, username string, role types.Role) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == username && u.Role == role {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

type fakeProducts struct {
	mu         sync.Mutex
	nextID     uint
	products   map[uint]models.Product
	referenced map[uint]bool
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{products: map[uint]models.Product{}, referenced: map[uint]bool{}}
}

func (f *fakeProducts) List(context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProducts) Get(_ context.Context, id uint) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProducts) Create(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	product.ID = f.nextID
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProducts) Update(_ context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.products[product.ID]
	if !ok {
		return store.ErrNotFound
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.products[id]; !ok {
		return store.ErrNotFound
	}
	if f.referenced[id] {
		return store.ErrReferenced
	}
	delete(f.products, id)
	return nil
}

type fakeOrders struct {
	mu       sync.Mutex
	products *fakeProducts
	nextID   uint
	orders   []models.Order
}

func (f *fakeOrders) List(context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]models.Order{}, f.orders...), nil
}

func (f *fakeOrders) ListByUser(_ context.Context, userID uint) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) Get(_ context.Context, id uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, o := range f.orders {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeOrders) Create(ctx context.Context, userID uint, lines []store.OrderLine) (*models.Order, error) {
	var total int64
	items := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		p, err := f.products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, store.ErrUnknownProduct
		}
		unit, err := p.Price.Cents()
		if err != nil {
			return nil, err
		}
		total += unit * int64(line.Quantity)
		if total > store.MaxAmountCents {
			return nil, store.ErrAmountOutOfRange
		}
		items = append(items, models.OrderItem{
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			PricePerUnit: types.DecimalFromCents(unit),
			TotalPrice:   types.DecimalFromCents(unit * int64(line.Quantity)),
		})
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	order := models.Order{
		ID:          f.nextID,
		UserID:      userID,
		TotalAmount: types.DecimalFromCents(total),
		Status:      types.OrderPending,
		Items:       items,
	}
	f.orders = append(f.orders, order)
	return &order, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id uint, status types.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeLoans struct {
	mu     sync.Mutex
	nextID uint
	loans  []models.Loan
	err    error
}

func (f *fakeLoans) List(context.Context) ([]models.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Loan{}, f.loans...), nil
}

func (f *fakeLoans) ListByUser(_ context.Context, userID uint) ([]models.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	out := []models.Loan{}
	for _, l := range f.loans {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLoans) Get(_ context.Context, id uint) (*models.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, l := range f.loans {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeLoans) Create(_ context.Context, loan *models.Loan) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	loan.ID = f.nextID
	f.loans = append(f.loans, *loan)
	return nil
}

func (f *fakeLoans) UpdateStatus(_ context.Context, id uint, status types.LoanStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.loans {
		if f.loans[i].ID == id {
			f.loans[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeAlerts struct {
	mu     sync.Mutex
	nextID uint
	alerts []models.WeatherAlert
}

func (f *fakeAlerts) List(context.Context) ([]models.WeatherAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]models.WeatherAlert{}, f.alerts...), nil
}

func (f *fakeAlerts) ListActive(_ context.Context, at time.Time) ([]models.WeatherAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.WeatherAlert{}
	for _, a := range f.alerts {
		if a.ActiveAt(at) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAlerts) Get(_ context.Context, id uint) (*models.WeatherAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.alerts {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeAlerts) Create(_ context.Context, alert *models.WeatherAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	alert.ID = f.nextID
	f.alerts = append(f.alerts, *alert)
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []models.WeatherAlert
}

func (f *fakePublisher) PublishAlert(_ context.Context, alert models.WeatherAlert) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.published = append(f.published, alert)
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.published)
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type testServer struct {
	engine    *gin.Engine
	handler   *handlers.Handler
	issuer    *auth.TokenIssuer
	users     *fakeUsers
	products  *fakeProducts
	orders    *fakeOrders
	loans     *fakeLoans
	alerts    *fakeAlerts
	publisher *fakePublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	products := newFakeProducts()
	s := &testServer{
		issuer:    issuer,
		users:     &fakeUsers{},
		products:  products,
		orders:    &fakeOrders{products: products},
		loans:     &fakeLoans{},
		alerts:    &fakeAlerts{},
		publisher: &fakePublisher{},
	}

	s.handler = &handlers.Handler{
		Users:          s.users,
		Products:       s.products,
		Orders:         s.orders,
		Loans:          s.loans,
		Alerts:         s.alerts,
		Tokens:         issuer,
		Alerter:        s.publisher,
		DB:             fakePinger{},
		Hub:            realtime.NewHub(zap.NewNop()),
		Logger:         zap.NewNop(),
		AllowedOrigins: []string{"http://localhost:3000"},
		Now:            func() time.Time { return testNow },
	}

	s.engine = router.NewRouter(s.handler, router.Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         zap.NewNop(),
	})

	return s
}

// addUser stores a user with a real bcrypt hash and returns a bearer token for it.
func (s *testServer) addUser(t *testing.T, username, password string, role types.Role) (models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hash,
		Role:     role,
	}
	require.NoError(t, s.users.Create(context.Background(), &user))

	token, err := s.issuer.IssueToken(user.ID, user.Username, user.Role)
	require.NoError(t, err)

	return user, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type errorsBody struct {
	Errors []handlers.FieldError `json:"errors"`
	Error  string                `json:"error"`
}

func (b errorsBody) fields() []string {
	out := make([]string, 0, len(b.Errors))
	for _, e := range b.Errors {
		out = append(out, e.Field)
	}
	return out
}

func idOf(t *testing.T, rec *httptest.ResponseRecorder) uint {
	t.Helper()

	var body struct {
		ID uint `json:"id"`
	}
	decode(t, rec, &body)
	require.NotZero(t, body.ID)
	return body.ID
}
