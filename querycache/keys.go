package querycache

import "github.com/goliatone/go-storefront/cache"

// Query key kinds. Keys sharing a leading kind are related for prefix invalidation.
const (
	kindStores     = "stores"
	kindStore      = "store"
	kindProducts   = "products"
	kindProduct    = "product"
	kindCategories = "categories"
	kindMetrics    = "metrics"

	segmentCategory = "category"
	segmentPublic   = "public"
)

// Keys builds the query keys used by the layer. Callers that subscribe to
// cache events use it to address the same entries.
type Keys struct {
	serializer cache.KeySerializer
}

// NewKeys returns a Keys using serializer, or the default serializer when nil.
func NewKeys(serializer cache.KeySerializer) Keys {
	if serializer == nil {
		serializer = cache.NewDefaultKeySerializer()
	}
	return Keys{serializer: serializer}
}

func (k Keys) UserStores(userID string) string {
	return k.serializer.SerializeKey(kindStores, userID)
}

// AllUserStores is the prefix of every user store list.
func (k Keys) AllUserStores() string {
	return k.serializer.SerializeKey(kindStores)
}

func (k Keys) Store(storeID string) string {
	return k.serializer.SerializeKey(kindStore, storeID)
}

func (k Keys) PublicStore(slug string) string {
	return k.serializer.SerializeKey(kindStore, segmentPublic, slug)
}

// AllPublicStores is the prefix of every cached storefront projection.
func (k Keys) AllPublicStores() string {
	return k.serializer.SerializeKey(kindStore, segmentPublic)
}

func (k Keys) StoreProducts(storeID string) string {
	return k.serializer.SerializeKey(kindProducts, storeID)
}

func (k Keys) CategoryProducts(categoryID string) string {
	return k.serializer.SerializeKey(kindProducts, segmentCategory, categoryID)
}

// AllCategoryProducts is the prefix of every per-category product list.
func (k Keys) AllCategoryProducts() string {
	return k.serializer.SerializeKey(kindProducts, segmentCategory)
}

func (k Keys) Product(productID string) string {
	return k.serializer.SerializeKey(kindProduct, productID)
}

func (k Keys) StoreCategories(storeID string) string {
	return k.serializer.SerializeKey(kindCategories, storeID)
}

func (k Keys) StoreMetrics(storeID string, days int) string {
	return k.serializer.SerializeKey(kindMetrics, storeID, days)
}
