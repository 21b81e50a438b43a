package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/swap"
	"github.com/iov-one/swap/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket is a prefixed section of the database holding models of
// a single type.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db swap.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db swap.ReadOnlyKVStore, key []byte) error

	// Create saves given model in the database. It fails with
	// ErrDuplicate if an entity with the same key exists.
	Create(db swap.KVStore, key []byte, m Model) error

	// Put saves given model in the database, replacing any previous
	// entity stored under the same key.
	Put(db swap.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db swap.KVStore, key []byte) error

	// ByIndex returns the primary keys of all entities indexed under
	// given value by the named index.
	ByIndex(db swap.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error)

	// Register registers this bucket and all its indexes in the query
	// router. Bucket is available under "/<name>" path and every index
	// under "/<name>/<index name>".
	Register(name string, r swap.QueryRouter)
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function.
func WithIndex(name string, indexer Indexer) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic(fmt.Sprintf("index %q already registered", name))
		}
		mb.indexes[name] = newNativeIndex(mb.name+"_"+name, indexer)
	}
}

// NewModelBucket returns a ModelBucket instance. Name is used to prefix
// all keys. Constructor must return a new, empty instance of the stored
// model, used when loading entities for queries and index updates.
func NewModelBucket(name string, constructor func() Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name: %q", name))
	}
	mb := &modelBucket{
		name:    name,
		prefix:  append([]byte(name), ':'),
		build:   constructor,
		indexes: make(map[string]*nativeIndex),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	build   func() Model
	indexes map[string]*nativeIndex
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (mb *modelBucket) dbKey(key []byte) []byte {
	res := make([]byte, len(mb.prefix)+len(key))
	copy(res, mb.prefix)
	copy(res[len(mb.prefix):], key)
	return res
}

func (mb *modelBucket) One(db swap.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %T", dest)
	}
	return nil
}

func (mb *modelBucket) Has(db swap.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Create(db swap.KVStore, key []byte, m Model) error {
	switch err := mb.Has(db, key); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "%s %X already exists", mb.name, key)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return mb.save(db, key, nil, m)
}

func (mb *modelBucket) Put(db swap.KVStore, key []byte, m Model) error {
	prev, err := mb.load(db, key)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	return mb.save(db, key, prev, m)
}

func (mb *modelBucket) save(db swap.KVStore, key []byte, prev, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize model")
	}
	for name, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, m); err != nil {
			return errors.Wrapf(err, "cannot update %q index", name)
		}
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db swap.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	for name, idx := range mb.indexes {
		if err := idx.Update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "cannot update %q index", name)
		}
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

// load returns a model stored under given key, or ErrNotFound.
func (mb *modelBucket) load(db swap.ReadOnlyKVStore, key []byte) (Model, error) {
	m := mb.build()
	if err := mb.One(db, key, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (mb *modelBucket) ByIndex(db swap.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "no index %q in %s bucket", indexName, mb.name)
	}
	return idx.Keys(db, value)
}

func (mb *modelBucket) Register(name string, r swap.QueryRouter) {
	if name == "" {
		name = mb.name
	}
	root := "/" + name
	r.Register(root, mb)
	for n, idx := range mb.indexes {
		r.Register(root+"/"+n, indexQuery{idx: idx, bucket: mb})
	}
}

// Query handles queries from the QueryRouter. Key query returns a single
// entity, prefix query returns all entities which primary key starts with
// given data.
func (mb *modelBucket) Query(db swap.ReadOnlyKVStore, mod string, data []byte) ([]swap.Model, error) {
	switch mod {
	case swap.KeyQueryMod:
		key := mb.dbKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []swap.Model{swap.Pair(key, value)}, nil
	case swap.PrefixQueryMod:
		return queryPrefix(db, mb.dbKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// indexQuery resolves an index value into stored entities.
type indexQuery struct {
	idx    *nativeIndex
	bucket *modelBucket
}

func (q indexQuery) Query(db swap.ReadOnlyKVStore, mod string, data []byte) ([]swap.Model, error) {
	if mod != swap.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	keys, err := q.idx.Keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]swap.Model, 0, len(keys))
	for _, k := range keys {
		key := q.bucket.dbKey(k)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, errors.Wrapf(errors.ErrState, "index points to missing %X", k)
		}
		res = append(res, swap.Pair(key, value))
	}
	return res, nil
}
