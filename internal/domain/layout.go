package domain

import "strings"

// DefaultKeyPrefix namespaces every key the service writes.
const DefaultKeyPrefix = "catalog:"

// IndexLayout names the Redis keys backing the product index.
type IndexLayout struct {
	KeyPrefix string
}

// NewIndexLayout creates a layout; an empty prefix selects DefaultKeyPrefix.
func NewIndexLayout(prefix string) IndexLayout {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return IndexLayout{KeyPrefix: prefix}
}

// IndexName is the FT index over product hashes.
func (l IndexLayout) IndexName() string { return l.KeyPrefix + "products" }

// DocPrefix is the key prefix shared by all product hashes.
func (l IndexLayout) DocPrefix() string { return l.KeyPrefix + "product:" }

// DocKey returns the hash key of a product.
func (l IndexLayout) DocKey(productID string) string { return l.DocPrefix() + productID }

// ProductID extracts the product id from a hash key.
func (l IndexLayout) ProductID(key string) string {
	return strings.TrimPrefix(key, l.DocPrefix())
}

// EmbeddingCachePrefix is the key prefix of cached query/document embeddings.
func (l IndexLayout) EmbeddingCachePrefix() string { return l.KeyPrefix + "emb:" }
