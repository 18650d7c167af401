package redis

const (
	// KeyPrefixEntity is the prefix for entity record keys
	KeyPrefixEntity = "shelf:entity:"
	// KeyPrefixChildren is the prefix for ordered child id lists
	KeyPrefixChildren = "shelf:children:"
	// KeyAllEntities is the key for the set of all entity IDs
	KeyAllEntities = "shelf:entities:all"
	// KeyBookmarkOrder lists bookmark IDs, oldest first
	KeyBookmarkOrder = "shelf:bookmarks:order"
	// KeyFavorites lists favorite IDs in favoriting order
	KeyFavorites = "shelf:favorites"
)

// EntityKey returns the Redis key for an entity record
func EntityKey(id string) string {
	return KeyPrefixEntity + id
}

// ChildrenKey returns the Redis key for a parent's child list
func ChildrenKey(parentID string) string {
	return KeyPrefixChildren + parentID
}

// AllEntitiesKey returns the key for the set of all entity IDs
func AllEntitiesKey() string {
	return KeyAllEntities
}
