// Package app wires delish together: it opens the data directory, builds
// the repositories, services and controllers, and owns the background
// workers that run next to the HTTP server.
//
//	a, err := app.New(ctx)
//	if err != nil { ... }
//	defer a.Close()
//	err = a.Serve(ctx)       // migrate, start workers, listen until ctx is done
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/delish/app/controllers"
	"github.com/shashiranjanraj/delish/app/repositories"
	"github.com/shashiranjanraj/delish/app/routes"
	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/config"
	"github.com/shashiranjanraj/delish/pkg/docstore"
	"github.com/shashiranjanraj/delish/pkg/event"
	"github.com/shashiranjanraj/delish/pkg/logger"
	"github.com/shashiranjanraj/delish/pkg/middleware"
	"github.com/shashiranjanraj/delish/pkg/schedule"
	"github.com/shashiranjanraj/delish/pkg/storage"
	"github.com/shashiranjanraj/delish/pkg/ws"
)

// Application holds every long-lived component of a running instance.
type Application struct {
	Store    *docstore.Store
	Disks    *storage.Manager
	Bus      *event.Bus
	Events   event.Publisher
	Hub      *ws.Hub
	Limiter  *middleware.RateLimiter
	Schedule *schedule.Scheduler

	Carts    *services.CartService
	Orders   *services.OrderService
	Menu     *services.MenuService
	Products *services.ProductService
	Users    *services.UserService
	Auth     *services.AuthService

	redis *redis.Client
}

// Option customizes New.
type Option func(*options)

type options struct {
	orderOpts []services.OrderOption
	redis     *redis.Client
}

// WithOrderOptions passes options through to the order service.
func WithOrderOptions(opts ...services.OrderOption) Option {
	return func(o *options) { o.orderOpts = append(o.orderOpts, opts...) }
}

// WithRedis uses rdb for the redis event driver instead of dialing
// REDIS_ADDR.
func WithRedis(rdb *redis.Client) Option {
	return func(o *options) { o.redis = rdb }
}

// New builds an Application from the configuration. Nothing is started.
func New(ctx context.Context, opts ...Option) (*Application, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store, err := docstore.Open(config.DataDir())
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	disks, err := storage.FromConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	a := &Application{
		Store:    store,
		Disks:    disks,
		Bus:      event.NewBus(),
		Hub:      ws.NewHub(),
		Limiter:  middleware.NewRateLimiter(config.RateLimitRPS(), config.RateLimitBurst()),
		Schedule: schedule.New(),
		redis:    o.redis,
	}
	if err := a.buildEvents(ctx); err != nil {
		return nil, err
	}

	carts := repositories.NewCartRepository(store)
	orders := repositories.NewOrderRepository(store)
	menu := repositories.NewMenuRepository(store, config.MenuCategories())
	users := repositories.NewUserRepository(store)

	a.Carts = services.NewCartService(carts, menu)
	a.Orders = services.NewOrderService(orders, carts, menu, a.Events, o.orderOpts...)
	a.Menu = services.NewMenuService(menu)
	a.Products = services.NewProductService(repositories.NewProductRepository(store))
	a.Users = services.NewUserService(users)
	a.Auth = services.NewAuthService(users)

	janitor := &schedule.Janitor{Store: store, MaxAge: config.JanitorMaxAge(), Limiter: a.Limiter}
	if err := a.Schedule.Add("janitor", config.JanitorSchedule(), janitor.Run); err != nil {
		a.Close()
		return nil, fmt.Errorf("app: %w", err)
	}

	logger.Info("application ready",
		"env", config.AppEnv(),
		"data_dir", store.Dir(),
		"events", config.EventsDriver(),
		"auth", config.AuthEnabled(),
	)
	return a, nil
}

// buildEvents picks the publisher for EVENTS_DRIVER. The in-process bus is
// always part of it so the live feed works with every driver but "none".
func (a *Application) buildEvents(ctx context.Context) error {
	switch config.EventsDriver() {
	case "none":
		a.Events = event.Nop()
	case "redis":
		if a.redis == nil {
			rdb, err := event.Connect(ctx)
			if err != nil {
				return fmt.Errorf("app: %w", err)
			}
			a.redis = rdb
		}
		a.Events = event.Multi(a.Bus, event.NewRedisPublisher(a.redis, config.EventsRedisKey()))
	default:
		a.Events = a.Bus
	}
	return nil
}

// Controllers builds the HTTP handlers over the services.
func (a *Application) Controllers() routes.Controllers {
	disk := a.Disks.Default()
	return routes.Controllers{
		Cart:    controllers.NewCartController(a.Carts),
		Order:   controllers.NewOrderController(a.Orders, disk),
		Menu:    controllers.NewMenuController(a.Menu, disk),
		Admin:   controllers.NewAdminController(a.Orders, a.Users, a.Hub, a.Bus),
		Auth:    controllers.NewAuthController(a.Auth),
		Product: controllers.NewProductController(a.Products),
		Debug:   controllers.NewDebugController(a.Store),
	}
}

// Start launches the websocket hub, its event feed and the scheduler. They
// stop when ctx is done.
func (a *Application) Start(ctx context.Context) {
	go a.Hub.Run(ctx)

	feed, unsubscribe := a.Bus.Subscribe(64)
	go func() {
		defer unsubscribe()
		a.Hub.Feed(ctx, feed)
	}()

	a.Schedule.Start(ctx)
}

// Close releases external connections.
func (a *Application) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
		a.redis = nil
	}
	return errors.Join(errs...)
}
