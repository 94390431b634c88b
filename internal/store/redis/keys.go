package redis

const (
	// KeyPrefixLink is the prefix for link documents
	KeyPrefixLink = "reward:link:"
	// KeyPrefixClaim is the prefix for claim documents
	KeyPrefixClaim = "reward:claim:"
	// KeyAllLinks is the key for the set of all link IDs
	KeyAllLinks = "reward:links:all"

	keyPrefixOwnerLinks  = "reward:links:owner:"
	keyPrefixOwnerClaims = "reward:claims:owner:"
	keyPrefixLinkFeed    = "reward:feed:links:"
	keyPrefixClaimFeed   = "reward:feed:claims:"
)

// LinkKey returns the Redis key for a link document
func LinkKey(id string) string {
	return KeyPrefixLink + id
}

// ClaimKey returns the Redis key for a claim document
func ClaimKey(id string) string {
	return KeyPrefixClaim + id
}

// AllLinksKey returns the key for the set of all link IDs
func AllLinksKey() string {
	return KeyAllLinks
}

// OwnerLinksKey returns the sorted set of an owner's link IDs, scored by creation time
func OwnerLinksKey(owner string) string {
	return keyPrefixOwnerLinks + owner
}

// OwnerClaimsKey returns the sorted set of an owner's claim IDs, scored by claim time
func OwnerClaimsKey(owner string) string {
	return keyPrefixOwnerClaims + owner
}

// LinkFeedChannel is the pub/sub channel announcing changes to an owner's links
func LinkFeedChannel(owner string) string {
	return keyPrefixLinkFeed + owner
}

// ClaimFeedChannel is the pub/sub channel announcing changes to an owner's claims
func ClaimFeedChannel(owner string) string {
	return keyPrefixClaimFeed + owner
}
