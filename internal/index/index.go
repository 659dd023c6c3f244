package index

// DeckIndex defines the interface for deck indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type DeckIndex interface {
	UpsertDeck(d DeckRow, body string) error
	DeleteDeck(id string) error
	GetChecksum(id string) (string, error)
	GetDeck(id string) (*DeckRow, error)
	ListDecks(limit, offset int, sort string) ([]DeckRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllIDs() (map[string]struct{}, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies DeckIndex at compile time.
var _ DeckIndex = (*DB)(nil)
