package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudud-ai/knowledge-engine/internal/knowledge"
	"github.com/rudud-ai/knowledge-engine/internal/observability"
	"github.com/rudud-ai/knowledge-engine/internal/storage"
)

type stubProductSource struct {
	products map[uuid.UUID][]storage.Product
	err      error
}

func (s *stubProductSource) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]storage.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products[tenantID], nil
}

type stubFAQSource struct{ faqs []storage.FAQ }

func (s *stubFAQSource) ListAll(ctx context.Context) ([]storage.FAQ, error) { return s.faqs, nil }

type stubPolicySource struct{ policies []storage.Policy }

func (s *stubPolicySource) ListAll(ctx context.Context) ([]storage.Policy, error) {
	return s.policies, nil
}

type stubOrderSource struct {
	orders []storage.Order
	err    error
}

func (s *stubOrderSource) ListRecentByCustomer(ctx context.Context, tenantID uuid.UUID, customerID string, limit int) ([]storage.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.orders) > limit {
		return s.orders[:limit], nil
	}
	return s.orders, nil
}

func catalogProduct(tenantID uuid.UUID, name, description string, price float64) storage.Product {
	return storage.Product{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       3,
	}
}

func newTestPipeline(t *testing.T, products map[uuid.UUID][]storage.Product, orders OrderSource) (*Pipeline, *knowledge.Store) {
	t.Helper()
	store := knowledge.NewStore(
		&stubProductSource{products: products},
		&stubFAQSource{faqs: []storage.FAQ{
			{ID: 1, Question: "الشحن بياخد وقت قد ايه؟", Answer: "التوصيل من 3 لـ 5 ايام عمل"},
			{ID: 2, Question: "ازاي ادفع؟", Answer: "الدفع عند الاستلام او فيزا"},
		}},
		&stubPolicySource{policies: []storage.Policy{
			{ID: 1, Title: "سياسة الاسترجاع", Body: "الاسترجاع والاستبدال خلال 14 يوم"},
			{ID: 2, Title: "سياسة الشحن", Body: "الشحن لكل المحافظات"},
		}},
		observability.NopLogger(),
		knowledge.StoreConfig{LoadRetries: 1, LoadBackoff: time.Millisecond},
	)
	require.NoError(t, store.LoadStatics(context.Background()))

	p := NewPipeline(store, orders, observability.NopLogger(), DefaultConfig())
	return p, store
}

func TestPipeline_GeneralInventoryFastPath(t *testing.T) {
	tenant := uuid.New()
	products := map[uuid.UUID][]storage.Product{tenant: {
		catalogProduct(tenant, "كوتشي نايك اير", "رياضي", 1200),
		catalogProduct(tenant, "صندل جلد", "صيفي", 450),
		catalogProduct(tenant, "شبشب قطيفه", "منزلي", 150),
	}}
	p, _ := newTestPipeline(t, products, nil)

	results := p.Retrieve(context.Background(), "عندك ايه؟", IntentProductInquiry, "", tenant)

	require.Len(t, results, 3, "browsing query should surface the whole catalog")
	for _, r := range results {
		assert.Equal(t, fastPathScore, r.Score)
		assert.Equal(t, knowledge.KindProduct, r.Entry.Kind)
	}
}

func TestPipeline_ProductSearchScoredTopK(t *testing.T) {
	tenant := uuid.New()
	products := map[uuid.UUID][]storage.Product{tenant: {
		catalogProduct(tenant, "كوتشي نايك اير", "رياضي خفيف", 1200),
		catalogProduct(tenant, "كوتشي اديداس", "جري", 1100),
		catalogProduct(tenant, "كوتشي بوما كلاسيك", "كاجوال", 950),
		catalogProduct(tenant, "كوتشي سكيتشرز", "مريح", 1000),
		catalogProduct(tenant, "صندل جلد", "صيفي", 450),
	}}
	p, _ := newTestPipeline(t, products, nil)

	results := p.Retrieve(context.Background(), "عايز كوتشي نايك", IntentProductInquiry, "", tenant)

	require.NotEmpty(t, results)
	assert.LessOrEqual(t, len(results), 3, "scored product search is capped at top K")
	assert.Equal(t, "كوتشي نايك اير", results[0].Entry.Product.Name)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score, "results must be sorted by score")
	}
}

func TestPipeline_TenantIsolation(t *testing.T) {
	tenantA := uuid.New()
	tenantB := uuid.New()
	products := map[uuid.UUID][]storage.Product{
		tenantA: {catalogProduct(tenantA, "كوتشي نايك", "رياضي", 1200)},
		tenantB: {catalogProduct(tenantB, "كوتشي نايك حريمي", "رياضي", 1300)},
	}
	p, store := newTestPipeline(t, products, nil)
	ctx := context.Background()

	require.NoError(t, store.EnsureTenant(ctx, tenantA))
	require.NoError(t, store.EnsureTenant(ctx, tenantB))

	results := p.Retrieve(ctx, "عايز كوتشي نايك", IntentProductInquiry, "", tenantA)

	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, tenantA, r.Entry.Product.TenantID, "no cross-tenant results")
	}
}

func TestPipeline_StoreNotReadyDegradesToEmpty(t *testing.T) {
	tenant := uuid.New()
	store := knowledge.NewStore(
		&stubProductSource{err: errors.New("db down")},
		nil, nil,
		observability.NopLogger(),
		knowledge.StoreConfig{LoadRetries: 1, LoadBackoff: time.Millisecond},
	)
	p := NewPipeline(store, nil, observability.NopLogger(), DefaultConfig())

	results := p.Retrieve(context.Background(), "عايز كوتشي", IntentProductInquiry, "", tenant)
	assert.Empty(t, results, "load failure must degrade to empty, not error")
}

func TestPipeline_MaxResultsBound(t *testing.T) {
	tenant := uuid.New()
	var catalog []storage.Product
	for i := 0; i < 10; i++ {
		catalog = append(catalog, catalogProduct(tenant, fmt.Sprintf("كوتشي موديل %d", i), "رياضي", 900))
	}
	p, _ := newTestPipeline(t, map[uuid.UUID][]storage.Product{tenant: catalog}, nil)

	results := p.Retrieve(context.Background(), "عندك ايه", IntentProductInquiry, "", tenant)
	assert.LessOrEqual(t, len(results), 5)
}

func TestPipeline_ShippingIntent(t *testing.T) {
	tenant := uuid.New()
	p, _ := newTestPipeline(t, map[uuid.UUID][]storage.Product{}, nil)

	results := p.Retrieve(context.Background(), "الشحن بياخد قد ايه؟", IntentShippingInquiry, "", tenant)

	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Contains(t, []knowledge.Kind{knowledge.KindFAQ, knowledge.KindPolicy}, r.Entry.Kind)
	}
}

func TestPipeline_ComplaintIntentPoliciesOnly(t *testing.T) {
	tenant := uuid.New()
	p, _ := newTestPipeline(t, map[uuid.UUID][]storage.Product{}, nil)

	results := p.Retrieve(context.Background(), "عايز ارجع الاوردر", IntentComplaint, "", tenant)

	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, knowledge.KindPolicy, r.Entry.Kind)
	}
}

func TestPipeline_OrderStatusIntent(t *testing.T) {
	tenant := uuid.New()
	orders := &stubOrderSource{orders: []storage.Order{
		{ID: uuid.New(), TenantID: tenant, CustomerID: "c-1", Status: storage.OrderStatusShipped, Total: 1200, ProductNames: []string{"كوتشي نايك"}, CreatedAt: time.Now()},
		{ID: uuid.New(), TenantID: tenant, CustomerID: "c-1", Status: storage.OrderStatusDelivered, Total: 450, ProductNames: []string{"صندل"}, CreatedAt: time.Now().Add(-time.Hour)},
	}}
	p, _ := newTestPipeline(t, map[uuid.UUID][]storage.Product{}, orders)

	results := p.Retrieve(context.Background(), "فين الاوردر بتاعي؟", IntentOrderStatus, "c-1", tenant)

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, knowledge.KindOrder, r.Entry.Kind)
		assert.Equal(t, orderResultScore, r.Score)
	}
}

func TestPipeline_OrderStatusWithoutCustomer(t *testing.T) {
	tenant := uuid.New()
	p, _ := newTestPipeline(t, map[uuid.UUID][]storage.Product{}, &stubOrderSource{})

	results := p.Retrieve(context.Background(), "فين الاوردر؟", IntentOrderStatus, "", tenant)
	assert.Empty(t, results)
}

func TestPipeline_OrderLookupFailureDegrades(t *testing.T) {
	tenant := uuid.New()
	orders := &stubOrderSource{err: errors.New("db timeout")}
	p, _ := newTestPipeline(t, map[uuid.UUID][]storage.Product{}, orders)

	results := p.Retrieve(context.Background(), "فين الاوردر؟", IntentOrderStatus, "c-1", tenant)
	assert.Empty(t, results)
}

func TestPipeline_GeneralIntentSearchesEverything(t *testing.T) {
	tenant := uuid.New()
	products := map[uuid.UUID][]storage.Product{tenant: {
		catalogProduct(tenant, "كوتشي نايك", "رياضي", 1200),
	}}
	p, store := newTestPipeline(t, products, nil)
	ctx := context.Background()
	require.NoError(t, store.EnsureTenant(ctx, tenant))

	results := p.Retrieve(ctx, "الاسترجاع ازاي؟", IntentGeneral, "", tenant)

	require.NotEmpty(t, results)
	assert.Equal(t, knowledge.KindPolicy, results[0].Entry.Kind)
}

func TestParseIntent(t *testing.T) {
	assert.Equal(t, IntentProductInquiry, ParseIntent("product_inquiry"))
	assert.Equal(t, IntentOrderStatus, ParseIntent("order_status"))
	assert.Equal(t, IntentGeneral, ParseIntent(""))
	assert.Equal(t, IntentGeneral, ParseIntent("something_else"))
}

func TestIntent_WantsProducts(t *testing.T) {
	assert.True(t, IntentProductInquiry.WantsProducts())
	assert.True(t, IntentPriceInquiry.WantsProducts())
	assert.False(t, IntentShippingInquiry.WantsProducts())
	assert.False(t, IntentGeneral.WantsProducts())
}
