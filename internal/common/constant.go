package common

// AccessTokenMetadataKey is the local metadata key under which the platform
// access token is persisted between runs.
const AccessTokenMetadataKey = "access_token"

// ResourceTypeAlbum tags upload intents that materialize an album with photos.
// Currently the only resource type the queue carries.
const ResourceTypeAlbum = "album"
