package application

import (
	"context"
	"fmt"
	"strings"

	"customizer-shopify-layer/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

type fakeStoreRepo struct {
	stores map[string]*domain.Store // keyed by shop domain
	nextID int
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: map[string]*domain.Store{}}
}

func (r *fakeStoreRepo) UpsertStore(_ context.Context, store *domain.Store) (*domain.Store, error) {
	existing, ok := r.stores[store.ShopDomain]
	saved := *store
	if ok {
		saved.ID = existing.ID
	} else {
		r.nextID++
		saved.ID = fmt.Sprintf("store-%d", r.nextID)
	}
	r.stores[store.ShopDomain] = &saved
	return &saved, nil
}

func (r *fakeStoreRepo) GetStoreByDomain(_ context.Context, shopDomain string) (*domain.Store, error) {
	return r.stores[shopDomain], nil
}

func (r *fakeStoreRepo) GetStoreByID(_ context.Context, id string) (*domain.Store, error) {
	for _, s := range r.stores {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeStoreRepo) DeleteStoresByDomain(_ context.Context, shopDomain string) (int64, error) {
	if _, ok := r.stores[shopDomain]; !ok {
		return 0, nil
	}
	delete(r.stores, shopDomain)
	return 1, nil
}

type fakeProductRepo struct {
	products map[string]*domain.Product // keyed by storeID|shopProductID
	nextID   int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*domain.Product{}}
}

func (r *fakeProductRepo) UpsertProduct(_ context.Context, product *domain.Product) (*domain.Product, error) {
	key := product.StoreID + "|" + product.ShopProductID
	existing, ok := r.products[key]
	saved := *product
	saved.Enabled = true
	if ok {
		saved.ID = existing.ID
	} else {
		r.nextID++
		saved.ID = fmt.Sprintf("product-%d", r.nextID)
	}
	r.products[key] = &saved
	return &saved, nil
}

func (r *fakeProductRepo) GetProduct(_ context.Context, storeID string, id string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.StoreID == storeID && p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) ListProductsByStore(_ context.Context, storeID string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.products {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) DeleteProductsByStore(_ context.Context, storeID string) error {
	for key, p := range r.products {
		if p.StoreID == storeID {
			delete(r.products, key)
		}
	}
	return nil
}

type fakeDesignRepo struct {
	designs map[string]*domain.Design
}

func newFakeDesignRepo() *fakeDesignRepo {
	return &fakeDesignRepo{designs: map[string]*domain.Design{}}
}

func (r *fakeDesignRepo) CreateDesign(_ context.Context, design *domain.Design) error {
	saved := *design
	r.designs[design.ID] = &saved
	return nil
}

func (r *fakeDesignRepo) GetDesign(_ context.Context, id string) (*domain.Design, error) {
	return r.designs[id], nil
}

func (r *fakeDesignRepo) DeleteDesignsByStore(_ context.Context, storeID string) error {
	for id, d := range r.designs {
		if d.StoreID == storeID {
			delete(r.designs, id)
		}
	}
	return nil
}

type fakeSessionStore struct {
	sessions map[string]*domain.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*domain.Session{}}
}

func (s *fakeSessionStore) SaveSession(_ context.Context, session *domain.Session) error {
	saved := *session
	s.sessions[session.State] = &saved
	return nil
}

func (s *fakeSessionStore) ConsumeSession(_ context.Context, state string) (*domain.Session, error) {
	session, ok := s.sessions[state]
	if !ok {
		return nil, nil
	}
	delete(s.sessions, state)
	return session, nil
}

type fakeAdminClient struct {
	accessToken     string
	storefrontToken string
	exchangeErr     error
	storefrontErr   error
	products        []goshopify.Product

	exchangedCodes  []string
	createdWebhooks []string
}

func (c *fakeAdminClient) AuthorizeURL(shop string, scopes []string, redirectURI string, state string) string {
	return fmt.Sprintf("https://%s/admin/oauth/authorize?client_id=key&scope=%s&redirect_uri=%s&state=%s",
		shop, strings.Join(scopes, ","), redirectURI, state)
}

func (c *fakeAdminClient) ExchangeToken(_ context.Context, shop string, code string) (string, error) {
	if c.exchangeErr != nil {
		return "", c.exchangeErr
	}
	c.exchangedCodes = append(c.exchangedCodes, code)
	return c.accessToken, nil
}

func (c *fakeAdminClient) EnsureStorefrontToken(_ context.Context, shop string, accessToken string) (string, error) {
	if c.storefrontErr != nil {
		return "", c.storefrontErr
	}
	return c.storefrontToken, nil
}

func (c *fakeAdminClient) GetProducts(_ context.Context, shop string, accessToken string) ([]goshopify.Product, error) {
	return c.products, nil
}

func (c *fakeAdminClient) CreateWebhook(_ context.Context, shop string, accessToken string, topic string, address string) error {
	c.createdWebhooks = append(c.createdWebhooks, topic+" "+address)
	return nil
}

type fakeStorefrontClient struct {
	checkoutURL string
	err         error

	lastShop       string
	lastToken      string
	lastVariantID  string
	lastQuantity   int
	lastAttributes []domain.CheckoutAttribute
	calls          int
}

func (c *fakeStorefrontClient) CreateCheckout(
	_ context.Context,
	shop string,
	storefrontToken string,
	variantID string,
	quantity int,
	attributes []domain.CheckoutAttribute,
) (string, error) {
	c.calls++
	c.lastShop = shop
	c.lastToken = storefrontToken
	c.lastVariantID = variantID
	c.lastQuantity = quantity
	c.lastAttributes = attributes
	if c.err != nil {
		return "", c.err
	}
	return c.checkoutURL, nil
}

type fakeUploader struct {
	url      string
	err      error
	lastData []byte
	lastName string
	folder   string
}

func (u *fakeUploader) Upload(_ context.Context, data []byte, fileName string, folder string) (string, error) {
	u.lastData = data
	u.lastName = fileName
	u.folder = folder
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}
