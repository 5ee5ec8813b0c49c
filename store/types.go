//nolint
package store

import "github.com/iov-one/tokenescrow"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = tokenescrow.ReadOnlyKVStore
type SetDeleter = tokenescrow.SetDeleter
type KVStore = tokenescrow.KVStore
type Batch = tokenescrow.Batch
type Iterator = tokenescrow.Iterator
type CacheableKVStore = tokenescrow.CacheableKVStore
type KVCacheWrap = tokenescrow.KVCacheWrap
type CommitKVStore = tokenescrow.CommitKVStore
type CommitID = tokenescrow.CommitID
type Model = tokenescrow.Model

var Pair = tokenescrow.Pair
