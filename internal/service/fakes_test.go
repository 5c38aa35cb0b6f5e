package service

import (
	"context"
	"fmt"
	"time"

	"aliexpress/importer/internal/catalog"
	"aliexpress/importer/internal/domain"
	"aliexpress/importer/internal/domain/task"

	"github.com/redis/go-redis/v9"
)

// memStore is an in-memory CatalogStore for pipeline tests. Create failures
// can be injected per category external id.
type memStore struct {
	products           map[string]*catalog.Product
	categories         map[string]*catalog.Category
	attributes         map[string]*catalog.ProductAttribute
	pictures           map[string]*catalog.Picture
	seq                int
	failCategoryCreate map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		products:           make(map[string]*catalog.Product),
		categories:         make(map[string]*catalog.Category),
		attributes:         make(map[string]*catalog.ProductAttribute),
		pictures:           make(map[string]*catalog.Picture),
		failCategoryCreate: make(map[string]bool),
	}
}

func (s *memStore) nextID() string {
	s.seq++
	return fmt.Sprintf("id-%d", s.seq)
}

func (s *memStore) CreateProduct(ctx context.Context, p *catalog.Product) error {
	if p.ID == "" {
		p.ID = s.nextID()
	}
	clone := *p
	s.products[p.ID] = &clone
	return nil
}

func (s *memStore) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, catalog.ErrNotFound)
	}
	return p, nil
}

func (s *memStore) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	clone := *p
	s.products[p.ID] = &clone
	return nil
}

func (s *memStore) SaveUserFields(ctx context.Context, productID string, fields []catalog.UserField) error {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	for _, f := range fields {
		replaced := false
		for i := range p.UserFields {
			if p.UserFields[i].Key == f.Key {
				p.UserFields[i].Value = f.Value
				replaced = true
				break
			}
		}
		if !replaced {
			p.UserFields = append(p.UserFields, f)
		}
	}
	return nil
}

func (s *memStore) AttachCategory(ctx context.Context, productID string, pc catalog.ProductCategory) error {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	for _, existing := range p.Categories {
		if existing.CategoryID == pc.CategoryID {
			return nil
		}
	}
	p.Categories = append(p.Categories, pc)
	return nil
}

func (s *memStore) AttachPicture(ctx context.Context, productID string, pp catalog.ProductPicture) error {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	p.Pictures = append(p.Pictures, pp)
	return nil
}

func (s *memStore) AddAttributeMapping(ctx context.Context, productID string, m *catalog.AttributeMapping) error {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = s.nextID()
	}
	for i := range m.Values {
		if m.Values[i].ID == "" {
			m.Values[i].ID = s.nextID()
		}
	}
	p.Mappings = append(p.Mappings, *m)
	return nil
}

func (s *memStore) AddAttributeCombination(ctx context.Context, productID string, c *catalog.AttributeCombination) error {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = s.nextID()
	}
	p.Combinations = append(p.Combinations, *c)
	return nil
}

func (s *memStore) CreateCategory(ctx context.Context, c *catalog.Category) error {
	if s.failCategoryCreate[c.ExternalID] {
		return fmt.Errorf("injected create failure for %s", c.ExternalID)
	}
	if c.ID == "" {
		c.ID = s.nextID()
	}
	clone := *c
	s.categories[c.ID] = &clone
	return nil
}

func (s *memStore) GetCategory(ctx context.Context, id string) (*catalog.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, catalog.ErrNotFound)
	}
	return c, nil
}

func (s *memStore) GetCategoryByExternalID(ctx context.Context, externalID string) (*catalog.Category, error) {
	for _, c := range s.categories {
		if c.ExternalID == externalID {
			return c, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateProductAttribute(ctx context.Context, a *catalog.ProductAttribute) error {
	if a.ID == "" {
		a.ID = s.nextID()
	}
	clone := *a
	s.attributes[a.Name] = &clone
	return nil
}

func (s *memStore) GetProductAttributeByName(ctx context.Context, name string) (*catalog.ProductAttribute, error) {
	a, ok := s.attributes[name]
	if !ok {
		return nil, nil
	}
	return a, nil
}

func (s *memStore) CreatePicture(ctx context.Context, p *catalog.Picture) error {
	if p.ID == "" {
		p.ID = s.nextID()
	}
	clone := *p
	s.pictures[p.ID] = &clone
	return nil
}

func (s *memStore) GetPictureByAlt(ctx context.Context, alt string) (*catalog.Picture, error) {
	for _, p := range s.pictures {
		if p.AltAttribute == alt {
			return p, nil
		}
	}
	return nil, nil
}

// fakeFetcher serves image bytes from a map; unknown URLs fail.
type fakeFetcher struct {
	images map[string][]byte
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	data, ok := f.images[url]
	if !ok {
		return nil, fmt.Errorf("no image at %s", url)
	}
	return data, nil
}

// fakeClient serves pre-built scraped products and category listings.
type fakeClient struct {
	products map[int64]*domain.Product
	listIDs  []int64
	getCalls []int64
	listErr  error
}

func (c *fakeClient) ListCategoryProductIDs(ctx context.Context, categoryID, categoryName string) ([]int64, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.listIDs, nil
}

func (c *fakeClient) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	c.getCalls = append(c.getCalls, productID)
	p, ok := c.products[productID]
	if !ok {
		return nil, fmt.Errorf("scrape failed for product %d", productID)
	}
	return p, nil
}

// fakeState is an in-memory provenance map.
type fakeState struct {
	imported map[int64]string
}

func newFakeState() *fakeState {
	return &fakeState{imported: make(map[int64]string)}
}

func (s *fakeState) GetImportedProduct(ctx context.Context, sourceID int64) (string, error) {
	return s.imported[sourceID], nil
}

func (s *fakeState) SetImportedProduct(ctx context.Context, sourceID int64, productID string) error {
	s.imported[sourceID] = productID
	return nil
}

// fakeQueue records added tasks and acks.
type fakeQueue struct {
	added []task.Task
	acked []string
}

func (q *fakeQueue) AddTask(ctx context.Context, t task.Task) (string, error) {
	q.added = append(q.added, t)
	return fmt.Sprintf("msg-%d", len(q.added)), nil
}

func (q *fakeQueue) GetTask(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error) {
	return nil, nil
}

func (q *fakeQueue) AckTask(ctx context.Context, stream, group, msgID string) error {
	q.acked = append(q.acked, msgID)
	return nil
}

func (q *fakeQueue) CreateGroup(ctx context.Context, stream, group string) error { return nil }

func (q *fakeQueue) AutoClaim(ctx context.Context, group, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error) {
	return nil, nil
}

func (q *fakeQueue) EnsureStreamsExist(ctx context.Context) error { return nil }

type testEnv struct {
	svc     *Service
	store   *memStore
	client  *fakeClient
	fetcher *fakeFetcher
	state   *fakeState
	queue   *fakeQueue
}

func newTestEnv() *testEnv {
	env := &testEnv{
		store:   newMemStore(),
		client:  &fakeClient{products: make(map[int64]*domain.Product)},
		fetcher: &fakeFetcher{images: make(map[string][]byte)},
		state:   newFakeState(),
		queue:   &fakeQueue{},
	}
	env.svc = NewService(
		env.store,
		env.client,
		env.fetcher,
		env.queue,
		env.state,
		catalog.DefaultKnownIDs(),
		"test_group",
		120,
	)
	return env
}
