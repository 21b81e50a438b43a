package orm

// Model is implemented by any entity that can be stored using ModelBucket.
//
// Models serialize themselves, so that the byte representation stored in
// the database is fully controlled by the owning extension.
type Model interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

// Indexer calculates the secondary index keys for a given model. Key is the
// primary key the model is stored under.
type Indexer func(key []byte, m Model) ([][]byte, error)
