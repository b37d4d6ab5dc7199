package storage

// Durable keys the session layer mirrors.
// The access token deliberately has no key here: it must never
// reach a durable medium.
const (
	KeyUser    = "user"
	KeyPersist = "persist"
	KeyCookies = "cookies"
)

// Storage is a small durable key-value mirror.
// Implementations must tolerate concurrent use.
type Storage interface {
	// Get returns the stored value and whether the key exists
	Get(key string) (string, bool)

	// Set stores the value under key
	Set(key string, value string) error

	// Delete removes the key. Deleting a missing key is not an error
	Delete(key string) error
}
