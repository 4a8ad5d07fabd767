package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/api"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/cache"
	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
// A nil DBPool selects the in-memory stores; a nil Redis disables the item cache.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	DBPool       *pgxpool.Pool
	Redis        *redis.Client
	ItemCacheTTL time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	Logger zerolog.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine

	UserService    user.Service
	ItemService    item.Service
	RequestService itemrequest.Service
	BookingService booking.Service
}

type stores struct {
	users    user.Repository
	items    item.Repository
	requests itemrequest.Repository
	bookings booking.Repository
	tx       db.Transactor
}

func newStores(cfg Config) stores {
	if cfg.DBPool == nil {
		users := user.NewMemoryRepository()
		items := item.NewMemoryRepository()
		return stores{
			users:    users,
			items:    items,
			requests: itemrequest.NewMemoryRepository(),
			bookings: booking.NewMemoryRepository(items, users),
			tx:       db.NewLocalTransactor(),
		}
	}

	return stores{
		users:    user.NewPgxRepository(cfg.DBPool),
		items:    item.NewPgxRepository(cfg.DBPool),
		requests: itemrequest.NewPgxRepository(cfg.DBPool),
		bookings: booking.NewPgxRepository(cfg.DBPool),
		tx:       db.NewPgxTransactor(cfg.DBPool),
	}
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	s := newStores(cfg)

	items := s.items
	if cfg.Redis != nil {
		items = cache.NewItemCache(items, cfg.Redis, cfg.ItemCacheTTL, cfg.Logger)
	}

	// User Module
	userService := user.NewService(s.users, cfg.Logger)

	// Item Module
	itemService := item.NewService(items, userService, s.requests, s.bookings, cfg.Logger)

	// Item Request Module
	requestService := itemrequest.NewService(s.requests, userService, items, cfg.Logger)

	// Booking Module
	// Availability is checked against the store, never a cached copy.
	bookingService := booking.NewService(s.bookings, s.tx, userService, s.items, cfg.Logger)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         cfg.Logger,
		UserService:    userService,
		ItemService:    itemService,
		RequestService: requestService,
		BookingService: bookingService,
	})

	return &Container{
		Router:         router,
		UserService:    userService,
		ItemService:    itemService,
		RequestService: requestService,
		BookingService: bookingService,
	}
}
