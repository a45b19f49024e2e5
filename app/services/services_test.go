package services_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/app/repositories"
	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/pkg/docstore"
	"github.com/shashiranjanraj/delish/pkg/event"
)

var categories = []string{"home", "value-pack", "yummy", "special", "promo"}

const homeMenu = `[
  {"id":"h1","name":"Burger","price":10000,"image":"/images/h1.png","description":"Beef"},
  {"id":"h2","name":"Fries","price":"4500","description":"Salted"}
]`

const promoMenu = `[{"id":"p1","name":"Combo","price":12500.5,"description":"Deal"}]`

type fixture struct {
	store  *docstore.Store
	carts  *repositories.CartRepository
	orders *repositories.OrderRepository
	menu   *repositories.MenuRepository
	bus    *event.Bus
	cart   *services.CartService
	order  *services.OrderService
}

func newFixture(t *testing.T, opts ...services.OrderOption) *fixture {
	t.Helper()
	st, err := docstore.Open(t.TempDir())
	require.NoError(t, err)
	writeDoc(t, st, "home.json", homeMenu)
	writeDoc(t, st, "promo.json", promoMenu)

	f := &fixture{
		store:  st,
		carts:  repositories.NewCartRepository(st),
		orders: repositories.NewOrderRepository(st),
		menu:   repositories.NewMenuRepository(st, categories),
		bus:    event.NewBus(),
	}
	opts = append([]services.OrderOption{services.WithClock(fixedClock)}, opts...)
	f.cart = services.NewCartService(f.carts, f.menu)
	f.order = services.NewOrderService(f.orders, f.carts, f.menu, f.bus, opts...)
	return f
}

func writeDoc(t *testing.T, st *docstore.Store, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), name), []byte(body), 0o644))
}

func docExists(st *docstore.Store, name string) bool {
	_, err := os.Stat(filepath.Join(st.Dir(), name))
	return err == nil
}

var fixedTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

func sequenceIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

// failingCarts saves successfully failAfter times, then fails.
type failingCarts struct {
	services.CartRepository
	failAfter int
	saves     int
}

func (f *failingCarts) Save(c models.CartStore) error {
	f.saves++
	if f.saves > f.failAfter {
		return repositories.ErrStorage.With("carts.Save", os.ErrPermission)
	}
	return f.CartRepository.Save(c)
}
