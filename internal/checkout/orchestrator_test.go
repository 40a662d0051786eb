package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendormarket/checkout-service/internal/cart"
	"github.com/vendormarket/checkout-service/internal/clients"
	"github.com/vendormarket/checkout-service/internal/models"
	"github.com/vendormarket/checkout-service/internal/tax"
)

type memStore struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
}

func newMemStore() *memStore {
	return &memStore{carts: make(map[string]*models.Cart)}
}

func (s *memStore) Get(_ context.Context, customerID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[customerID], nil
}

func (s *memStore) Save(_ context.Context, c *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.CustomerID] = c
	return nil
}

func (s *memStore) Delete(_ context.Context, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, customerID)
	return nil
}

type fakeOrderStore struct {
	mu      sync.Mutex
	orders  []*models.Order
	failFor map[string]error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{failFor: make(map[string]error)}
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, customerID, vendorID string, items []models.LineItem, total decimal.Decimal, paymentReference string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[vendorID]; ok {
		return nil, err
	}
	order := &models.Order{
		ID:               "ord_" + vendorID,
		CustomerID:       customerID,
		VendorID:         vendorID,
		Items:            items,
		Total:            total,
		PaymentReference: paymentReference,
		Status:           models.OrderStatusCreated,
		CreatedAt:        time.Now().UTC(),
	}
	f.orders = append(f.orders, order)
	return order, nil
}

func (f *fakeOrderStore) created() []*models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Order(nil), f.orders...)
}

type fakePayments struct {
	auths map[string]*clients.Authorization
}

func (f *fakePayments) GetAuthorization(_ context.Context, reference string) (*clients.Authorization, error) {
	auth, ok := f.auths[reference]
	if !ok {
		return nil, models.ErrNotFound
	}
	return auth, nil
}

type recordingEvents struct {
	mu        sync.Mutex
	orders    []string
	completed int
}

func (r *recordingEvents) PublishOrderCreated(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order.ID)
	return nil
}

func (r *recordingEvents) PublishCheckoutCompleted(_ context.Context, _ string, _ []string, _ decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
	return nil
}

type fixture struct {
	store    *memStore
	catalog  *fakeCatalog
	orders   *fakeOrderStore
	payments *fakePayments
	events   *recordingEvents
	orch     *Orchestrator
}

// newFixture wires an orchestrator over a two-vendor cart worth $86.10:
// vendor A $50.00 at 5% (AB), vendor B $30.00 at 12% (BC).
func newFixture(t *testing.T) *fixture {
	t.Helper()

	svcA := activeService("svc_1", "vendor_a", "25.00")
	svcA.VendorJurisdiction = "AB"
	svcB := activeService("svc_2", "vendor_b", "10.00")
	svcB.VendorJurisdiction = "BC"

	f := &fixture{
		store: newMemStore(),
		catalog: &fakeCatalog{services: map[string]*clients.ServiceInfo{
			"svc_1": svcA,
			"svc_2": svcB,
		}},
		orders: newFakeOrderStore(),
		payments: &fakePayments{auths: map[string]*clients.Authorization{
			"auth_86": {Reference: "auth_86", Amount: d("86.10"), Status: "captured"},
		}},
		events: &recordingEvents{},
	}

	agg := cart.NewAggregator(tax.NewCalculator(tax.DefaultTable()))
	f.orch = NewOrchestrator(
		f.store,
		NewValidator(f.catalog, zap.NewNop()),
		agg,
		f.orders,
		f.payments,
		f.events,
		time.Second,
		zap.NewNop(),
	)

	c := &models.Cart{
		CustomerID: "cust_1",
		Items: []models.LineItem{
			{ServiceID: "svc_1", VendorID: "vendor_a", Quantity: 2, UnitPrice: d("25.00"), VendorJurisdiction: "AB"},
			{ServiceID: "svc_2", VendorID: "vendor_b", Quantity: 3, UnitPrice: d("10.00"), VendorJurisdiction: "BC"},
		},
	}
	require.NoError(t, f.store.Save(context.Background(), c))

	return f
}

func TestCheckoutAllGroupsSucceed(t *testing.T) {
	f := newFixture(t)

	result, err := f.orch.Checkout(context.Background(), "cust_1", "auth_86", "ON")
	require.NoError(t, err)

	assert.Equal(t, models.CheckoutAllSucceeded, result.Status)
	assert.True(t, result.TotalAmount.Equal(d("86.10")))
	assert.True(t, result.CartCleared)
	require.Len(t, result.Groups, 2)
	for _, g := range result.Groups {
		assert.Equal(t, models.GroupCreated, g.Status)
		assert.NotEmpty(t, g.OrderID)
	}

	// One order per vendor group, and the cart is gone.
	assert.Len(t, f.orders.created(), 2)
	c, _ := f.store.Get(context.Background(), "cust_1")
	assert.Nil(t, c)

	assert.Len(t, f.events.orders, 2)
	assert.Equal(t, 1, f.events.completed)
}

func TestCheckoutOrderAmountsMatchGroupTotals(t *testing.T) {
	f := newFixture(t)

	result, err := f.orch.Checkout(context.Background(), "cust_1", "auth_86", "ON")
	require.NoError(t, err)
	require.Equal(t, models.CheckoutAllSucceeded, result.Status)

	// An order exists with exactly its group's total, or not at all.
	wantTotals := map[string]string{"vendor_a": "52.50", "vendor_b": "33.60"}
	for _, order := range f.orders.created() {
		want := wantTotals[order.VendorID]
		require.NotEmpty(t, want, "unexpected vendor %s", order.VendorID)
		assert.True(t, order.Total.Equal(d(want)),
			"vendor %s order total %s want %s", order.VendorID, order.Total, want)
		assert.Equal(t, "auth_86", order.PaymentReference)
	}
}

func TestCheckoutRefusedWhenValidationFails(t *testing.T) {
	f := newFixture(t)
	// Vendor A's price moved after the cart captured it.
	f.catalog.services["svc_1"].Price = d("26.00")

	_, err := f.orch.Checkout(context.Background(), "cust_1", "auth_86", "ON")

	var vErr *models.ValidationFailedError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Issues, 1)
	assert.Equal(t, models.IssuePriceChanged, vErr.Issues[0].Kind)

	// Zero orders created; cart untouched.
	assert.Empty(t, f.orders.created())
	c, _ := f.store.Get(context.Background(), "cust_1")
	require.NotNil(t, c)
	assert.Len(t, c.Items, 2)
}

func TestCheckoutPaymentMismatchCreatesNothing(t *testing.T) {
	f := newFixture(t)
	f.payments.auths["auth_bad"] = &clients.Authorization{
		Reference: "auth_bad", Amount: d("80.00"), Status: "captured",
	}

	_, err := f.orch.Checkout(context.Background(), "cust_1", "auth_bad", "ON")

	var mErr *models.PaymentMismatchError
	require.ErrorAs(t, err, &mErr)
	assert.True(t, mErr.Authorized.Equal(d("80.00")))
	assert.True(t, mErr.Required.Equal(d("86.10")))

	assert.Empty(t, f.orders.created())
	c, _ := f.store.Get(context.Background(), "cust_1")
	assert.NotNil(t, c)
}

func TestCheckoutPartialFailureRetainsFailedGroups(t *testing.T) {
	f := newFixture(t)
	f.orders.failFor["vendor_b"] = errors.New("order store unavailable")

	result, err := f.orch.Checkout(context.Background(), "cust_1", "auth_86", "ON")
	require.NoError(t, err)

	assert.Equal(t, models.CheckoutPartialFailure, result.Status)
	assert.False(t, result.CartCleared)

	byVendor := make(map[string]models.GroupResult)
	for _, g := range result.Groups {
		byVendor[g.VendorID] = g
	}
	assert.Equal(t, models.GroupCreated, byVendor["vendor_a"].Status)
	assert.Equal(t, models.GroupFailed, byVendor["vendor_b"].Status)
	assert.Contains(t, byVendor["vendor_b"].Reason, "order store unavailable")

	// Vendor A's order stands; only vendor B's items remain in the cart.
	created := f.orders.created()
	require.Len(t, created, 1)
	assert.Equal(t, "vendor_a", created[0].VendorID)

	c, _ := f.store.Get(context.Background(), "cust_1")
	require.NotNil(t, c)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "vendor_b", c.Items[0].VendorID)

	// No checkout.completed event for a partial outcome.
	assert.Equal(t, 0, f.events.completed)
}

func TestCheckoutTimeoutFailsOnlyThatGroup(t *testing.T) {
	f := newFixture(t)
	f.orders.failFor["vendor_a"] = context.DeadlineExceeded

	result, err := f.orch.Checkout(context.Background(), "cust_1", "auth_86", "ON")
	require.NoError(t, err)

	assert.Equal(t, models.CheckoutPartialFailure, result.Status)
	byVendor := make(map[string]models.GroupResult)
	for _, g := range result.Groups {
		byVendor[g.VendorID] = g
	}
	assert.Equal(t, models.GroupFailed, byVendor["vendor_a"].Status)
	assert.Equal(t, models.GroupCreated, byVendor["vendor_b"].Status)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Delete(context.Background(), "cust_1"))

	_, err := f.orch.Checkout(context.Background(), "cust_1", "auth_86", "ON")
	assert.ErrorIs(t, err, models.ErrCartEmpty)
}

func TestCheckoutRequiresPaymentReference(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Checkout(context.Background(), "cust_1", "", "ON")
	var vErr *models.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCheckoutUnknownPaymentReference(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Checkout(context.Background(), "cust_1", "auth_missing", "ON")
	assert.ErrorIs(t, errors.Cause(err), models.ErrNotFound)
}

func TestValidateCartOperation(t *testing.T) {
	f := newFixture(t)

	result, err := f.orch.ValidateCart(context.Background(), "cust_1")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	f.catalog.services["svc_2"].VendorStatus = models.VendorSuspended
	result, err = f.orch.ValidateCart(context.Background(), "cust_1")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, models.IssueVendorSuspended, result.Issues[0].Kind)
}
