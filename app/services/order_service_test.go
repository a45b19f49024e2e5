package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/app/repositories"
	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/pkg/apperr"
	"github.com/shashiranjanraj/delish/pkg/event"
)

var details = models.DeliveryDetails{
	ClientName:     "Ama",
	ClientContact:  "0550000000",
	ClientEmail:    "ama@example.com",
	ClientAddress:  "12 Ring Rd",
	ClientBuilding: "B",
	ClientFloor:    "3",
}

const twoBurgers = `[{"itemId":"h1","name":"Burger","price":10000,"quantity":2}]`

func submit(items, total string) services.SubmitInput {
	return services.SubmitInput{UserID: "u1", Items: items, Total: total, DeliveryDetails: details}
}

// ── PlaceFromCart ────────────────────────────────────────────────────────────

func TestPlaceFromCart(t *testing.T) {
	f := newFixture(t, services.WithIDGenerator(sequenceIDs("AB12CD34")))
	ctx := context.Background()
	events, cancel := f.bus.Subscribe(4)
	defer cancel()

	_, err := f.cart.Add(ctx, "u1", "h1", 2)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "u1", "h2", 1)
	require.NoError(t, err)

	order, err := f.order.PlaceFromCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "AB12CD34", order.OrderID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 24500.0, order.Total)
	assert.Equal(t, fixedTime, order.Timestamp)
	assert.Len(t, order.Items, 2)

	ledger, err := f.orders.Load()
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, *order, ledger[0])

	cart, err := f.cart.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart)

	e := <-events
	assert.Equal(t, services.EventOrderPlaced, e.Name)
}

func TestPlaceFromCartEmptyWritesNothing(t *testing.T) {
	f := newFixture(t)
	_, err := f.order.PlaceFromCart(context.Background(), "u1")
	assert.ErrorIs(t, err, services.ErrEmptyCart)
	assert.False(t, docExists(f.store, repositories.OrdersDocument))
}

func TestPlaceFromCartRequiresUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.order.PlaceFromCart(context.Background(), " ")
	assert.ErrorIs(t, err, services.ErrMissingField)
	assert.Equal(t, "userId", apperr.FieldOf(err))
}

func TestPlaceFromCartClearFailureKeepsOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.cart.Add(ctx, "u1", "h1", 1)
	require.NoError(t, err)

	carts := &failingCarts{CartRepository: f.carts}
	svc := services.NewOrderService(f.orders, carts, f.menu, nil)

	order, err := svc.PlaceFromCart(ctx, "u1")
	assert.ErrorIs(t, err, services.ErrCartNotCleared)
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
	require.NotNil(t, order)

	ledger, err := f.orders.Load()
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, order.OrderID, ledger[0].OrderID)

	cart, err := f.cart.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, cart, 1, "cart is left as it was")
}

// ── SubmitDirect ─────────────────────────────────────────────────────────────

func TestSubmitDirectTotalTolerance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.order.SubmitDirect(ctx, submit(twoBurgers, "19000"))
	require.ErrorIs(t, err, services.ErrTotalMismatch)
	assert.Equal(t, "Total mismatch: server 20000.00, client 19000.00", apperr.MessageOf(err, ""))
	assert.False(t, docExists(f.store, repositories.OrdersDocument))

	order, err := f.order.SubmitDirect(ctx, submit(twoBurgers, "20000.005"))
	require.NoError(t, err)
	assert.Equal(t, 20000.0, order.Total)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, details, order.DeliveryDetails)
}

func TestSubmitDirectAcceptsStringEncodedItems(t *testing.T) {
	f := newFixture(t)
	items := `"[{\"itemId\":\"h2\",\"name\":\"Fries\",\"price\":4500,\"quantity\":3}]"`
	in := submit(items, "13500")
	in.PaymentImage = "/uploads/payments/p.png"

	order, err := f.order.SubmitDirect(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 13500.0, order.Total)
	assert.Equal(t, "/uploads/payments/p.png", order.PaymentImage)
}

func TestSubmitDirectRequiredFieldsInOrder(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		field string
		mut   func(*services.SubmitInput)
	}{
		{"userId", func(in *services.SubmitInput) { in.UserID = "" }},
		{"items", func(in *services.SubmitInput) { in.Items = "" }},
		{"total", func(in *services.SubmitInput) { in.Total = "" }},
		{"clientName", func(in *services.SubmitInput) { in.ClientName = "" }},
		{"clientFloor", func(in *services.SubmitInput) { in.ClientFloor = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			in := submit(twoBurgers, "20000")
			tc.mut(&in)
			_, err := f.order.SubmitDirect(context.Background(), in)
			require.ErrorIs(t, err, services.ErrMissingField)
			assert.Equal(t, tc.field, apperr.FieldOf(err))
		})
	}

	// With several fields missing the earliest is reported.
	in := submit("", "")
	in.ClientEmail = ""
	_, err := f.order.SubmitDirect(context.Background(), in)
	assert.Equal(t, "items", apperr.FieldOf(err))
}

func TestSubmitDirectRejectsItems(t *testing.T) {
	f := newFixture(t)
	cases := map[string]string{
		"not json":       `{nope`,
		"empty array":    `[]`,
		"object":         `{"itemId":"h1"}`,
		"unknown id":     `[{"itemId":"zz","name":"Burger","price":10000,"quantity":1}]`,
		"name mismatch":  `[{"itemId":"h1","name":"Cheese","price":10000,"quantity":1}]`,
		"price mismatch": `[{"itemId":"h1","name":"Burger","price":1,"quantity":1}]`,
		"zero quantity":  `[{"itemId":"h1","name":"Burger","price":10000,"quantity":0}]`,
		"half quantity":  `[{"itemId":"h1","name":"Burger","price":10000,"quantity":0.5}]`,
		"text quantity":  `[{"itemId":"h1","name":"Burger","price":10000,"quantity":"1"}]`,
		"text price":     `[{"itemId":"h1","name":"Burger","price":"10000","quantity":1}]`,
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.order.SubmitDirect(context.Background(), submit(items, "10000"))
			assert.ErrorIs(t, err, services.ErrItemsInvalid)
		})
	}
}

func TestSubmitDirectRejectsTotalFormat(t *testing.T) {
	f := newFixture(t)
	for _, total := range []string{"abc", "NaN", "Inf"} {
		_, err := f.order.SubmitDirect(context.Background(), submit(twoBurgers, total))
		assert.ErrorIs(t, err, services.ErrInvalidTotal, total)
	}
}

// ── Order ids ────────────────────────────────────────────────────────────────

func TestNewOrderIDFormat(t *testing.T) {
	id := services.NewOrderID()
	assert.Regexp(t, `^[0-9A-F]{8}$`, id)
}

func TestOrderIDsAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seen := map[string]bool{}
	for i := 0; i < 25; i++ {
		o, err := f.order.SubmitDirect(ctx, submit(twoBurgers, "20000"))
		require.NoError(t, err)
		assert.False(t, seen[o.OrderID], "duplicate id %s", o.OrderID)
		seen[o.OrderID] = true
	}
}

func TestOrderIDCollisionRedraws(t *testing.T) {
	f := newFixture(t, services.WithIDGenerator(sequenceIDs("AAAAAAAA", "AAAAAAAA", "BBBBBBBB")))
	ctx := context.Background()

	first, err := f.order.SubmitDirect(ctx, submit(twoBurgers, "20000"))
	require.NoError(t, err)
	second, err := f.order.SubmitDirect(ctx, submit(twoBurgers, "20000"))
	require.NoError(t, err)

	assert.Equal(t, "AAAAAAAA", first.OrderID)
	assert.Equal(t, "BBBBBBBB", second.OrderID)
}

// ── AttachDetails ────────────────────────────────────────────────────────────

func placeOne(t *testing.T, f *fixture, image string) *models.Order {
	t.Helper()
	in := submit(twoBurgers, "20000")
	in.PaymentImage = image
	o, err := f.order.SubmitDirect(context.Background(), in)
	require.NoError(t, err)
	return o
}

func TestAttachDetails(t *testing.T) {
	f := newFixture(t)
	o := placeOne(t, f, "/uploads/payments/first.png")

	next := details
	next.ClientAddress = "7 Oxford St"
	got, err := f.order.AttachDetails(context.Background(), o.OrderID,
		services.AttachInput{UserID: "someone-else", DeliveryDetails: next})
	require.NoError(t, err, "user mismatch is accepted")

	assert.Equal(t, "7 Oxford St", got.ClientAddress)
	assert.Equal(t, "/uploads/payments/first.png", got.PaymentImage)
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, fixedTime, *got.UpdatedAt)

	got, err = f.order.AttachDetails(context.Background(), o.OrderID,
		services.AttachInput{DeliveryDetails: next, PaymentImage: "/uploads/payments/second.png"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/payments/second.png", got.PaymentImage)
}

func TestAttachDetailsErrors(t *testing.T) {
	f := newFixture(t)
	o := placeOne(t, f, "")

	_, err := f.order.AttachDetails(context.Background(), "MISSING1", services.AttachInput{DeliveryDetails: details})
	require.ErrorIs(t, err, services.ErrOrderNotFound)
	assert.Equal(t, "Order MISSING1 not found", apperr.MessageOf(err, ""))

	partial := details
	partial.ClientContact = ""
	_, err = f.order.AttachDetails(context.Background(), o.OrderID, services.AttachInput{DeliveryDetails: partial})
	require.ErrorIs(t, err, services.ErrMissingField)
	assert.Equal(t, "clientContact", apperr.FieldOf(err))
}

// ── UpdateStatus ─────────────────────────────────────────────────────────────

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	o := placeOne(t, f, "")

	got, err := f.order.UpdateStatus(context.Background(), o.OrderID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	// Any transition is allowed, including back to pending.
	got, err = f.order.UpdateStatus(context.Background(), o.OrderID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	o := placeOne(t, f, "")
	before := f.store.Writes()

	_, err := f.order.UpdateStatus(context.Background(), o.OrderID, "shipped")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
	assert.Equal(t, before, f.store.Writes())

	found, err := f.order.Find(context.Background(), o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, found.Status)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.order.UpdateStatus(context.Background(), "NOPE0000", models.StatusDelivered)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// ── Queries ──────────────────────────────────────────────────────────────────

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := placeOne(t, f, "")
	placeOne(t, f, "")
	_, err := f.order.UpdateStatus(ctx, a.OrderID, models.StatusCompleted)
	require.NoError(t, err)

	d, err := f.order.Dashboard(ctx)
	require.NoError(t, err)
	assert.Len(t, d.Orders, 2)
	assert.Equal(t, models.OrderStats{TotalOrders: 2, PendingOrders: 1, CompletedOrders: 1, TotalRevenue: 40000}, d.Stats)
}

func TestListEmptyLedger(t *testing.T) {
	f := newFixture(t)
	orders, err := f.order.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, event.Event) error {
	return fmt.Errorf("broker down")
}

func TestPublishFailureDoesNotFailOrder(t *testing.T) {
	f := newFixture(t)
	svc := services.NewOrderService(f.orders, f.carts, f.menu, failingPublisher{})
	_, err := svc.SubmitDirect(context.Background(), submit(twoBurgers, "20000"))
	assert.NoError(t, err)
}

func TestSubmitDirectRejectsFractionalQuantity(t *testing.T) {
	f := newFixture(t)
	items := `[{"itemId":"h1","name":"Burger","price":10000,"quantity":2.9}]`

	_, err := f.order.SubmitDirect(context.Background(), submit(items, "20000"))
	assert.ErrorIs(t, err, services.ErrItemsInvalid)

	orders, err := f.orders.Load()
	require.NoError(t, err)
	assert.Empty(t, orders)
}
