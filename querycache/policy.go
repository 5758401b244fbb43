package querycache

// Policy decides how a successful mutation is reconciled into the cache.
type Policy int

const (
	// PolicyDirectPatch writes the mutation result into the cached collection.
	PolicyDirectPatch Policy = iota + 1
	// PolicyInvalidate marks the affected collection stale so the next read refetches.
	PolicyInvalidate
	// PolicyNone leaves the cache untouched; callers own their local view.
	PolicyNone
)

func (p Policy) String() string {
	switch p {
	case PolicyDirectPatch:
		return "direct_patch"
	case PolicyInvalidate:
		return "invalidate"
	case PolicyNone:
		return "none"
	default:
		return "unset"
	}
}

// Policies configures reconciliation per mutation. Zero fields fall back to
// DefaultPolicies.
type Policies struct {
	CreateProduct  Policy
	UpdateProduct  Policy
	DeleteProduct  Policy
	CreateCategory Policy
	UpdateCategory Policy
	DeleteCategory Policy
}

// DefaultPolicies patches creates and updates and leaves deletes to the caller.
func DefaultPolicies() Policies {
	return Policies{
		CreateProduct:  PolicyDirectPatch,
		UpdateProduct:  PolicyDirectPatch,
		DeleteProduct:  PolicyNone,
		CreateCategory: PolicyDirectPatch,
		UpdateCategory: PolicyDirectPatch,
		DeleteCategory: PolicyNone,
	}
}

func (p Policies) withDefaults() Policies {
	d := DefaultPolicies()
	pick := func(v, def Policy) Policy {
		if v < PolicyDirectPatch || v > PolicyNone {
			return def
		}
		return v
	}
	return Policies{
		CreateProduct:  pick(p.CreateProduct, d.CreateProduct),
		UpdateProduct:  pick(p.UpdateProduct, d.UpdateProduct),
		DeleteProduct:  pick(p.DeleteProduct, d.DeleteProduct),
		CreateCategory: pick(p.CreateCategory, d.CreateCategory),
		UpdateCategory: pick(p.UpdateCategory, d.UpdateCategory),
		DeleteCategory: pick(p.DeleteCategory, d.DeleteCategory),
	}
}
