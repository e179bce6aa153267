package handlers

import (
	"context"
	"time"

	"github.com/agromanage/agromanage/internal/auth"
	"github.com/agromanage/agromanage/internal/models"
	"github.com/agromanage/agromanage/internal/realtime"
	"github.com/agromanage/agromanage/internal/store"
	"github.com/agromanage/agromanage/internal/types"
	"go.uber.org/zap"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsernameAndRole(ctx context.Context, username string, role types.Role) (*models.User, error)
}

type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
}

type OrderStore interface {
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	Get(ctx context.Context, id uint) (*models.Order, error)
	Create(ctx context.Context, userID uint, lines []store.OrderLine) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uint, status types.OrderStatus) error
}

type LoanStore interface {
	List(ctx context.Context) ([]models.Loan, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Loan, error)
	Get(ctx context.Context, id uint) (*models.Loan, error)
	Create(ctx context.Context, loan *models.Loan) error
	UpdateStatus(ctx context.Context, id uint, status types.LoanStatus) error
}

type AlertStore interface {
	List(ctx context.Context) ([]models.WeatherAlert, error)
	ListActive(ctx context.Context, at time.Time) ([]models.WeatherAlert, error)
	Get(ctx context.Context, id uint) (*models.WeatherAlert, error)
	Create(ctx context.Context, alert *models.WeatherAlert) error
}

type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert models.WeatherAlert)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler carries the dependencies shared by every route.
type Handler struct {
	Users    UserStore
	Products ProductStore
	Orders   OrderStore
	Loans    LoanStore
	Alerts   AlertStore
	Tokens   *auth.TokenIssuer
	Alerter  AlertPublisher
	DB       Pinger
	Hub      *realtime.Hub
	Logger   *zap.Logger

	// AllowedOrigins are accepted by the alert websocket upgrade.
	AllowedOrigins []string

	// Now defaults to time.Now.
	Now func() time.Time
}

func (h *Handler) clock() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
