// This module keeps named lists in memory for the Redis port. Keys are distributed uniformly across shards and each
// shard has its own mutex, so goroutines working on keys in different shards don't block each other.
// The lists themselves are not thread-safe; a shard's mutex guards every list in it.

package storage

import (
	"errors"
	"flag"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/nobletooth/dlist/pkg/list"
	"github.com/nobletooth/dlist/pkg/utils"
)

var shardCount = flag.Int("shard_count", 16, "Number of shards the named lists are spread over.")

// End selects which end of a list an operation works on.
type End uint8

const (
	Front End = iota + 1
	Back
)

func (e End) String() string {
	switch e {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return fmt.Sprintf("End(%d)", uint8(e))
	}
}

// listShard holds the lists whose keys hash into it.
type listShard struct {
	mux   sync.Mutex
	lists map[string]*list.List[[]byte]
}

// Lists is a sharded set of named lists. Empty lists are removed, so a key exists iff its list has elements.
type Lists struct {
	shards []*listShard
}

// NewLists creates the lists store using the --shard_count flag.
func NewLists() (*Lists, error) {
	if *shardCount <= 0 {
		return nil, fmt.Errorf("expected a positive --shard_count, got %d", *shardCount)
	}
	return newLists(*shardCount), nil
}

func newLists(shardCount int) *Lists {
	if shardCount <= 0 {
		utils.RaiseInvariant("storage", "non_positive_shard_count",
			"Invalid shard count has been given to lists store.", "shardCount", shardCount)
		shardCount = 1
	}
	lists := &Lists{shards: make([]*listShard, shardCount)}
	for i := range shardCount {
		lists.shards[i] = &listShard{lists: make(map[string]*list.List[[]byte])}
	}
	return lists
}

// getShard determines which shard the given key belongs to.
func (s *Lists) getShard(key []byte) *listShard {
	return s.shards[xxhash.Sum64(key)%uint64(len(s.shards))]
}

// Push pushes `values` one by one to the given end of the list at `key`, creating the list if needed.
// Pushing a, b, c to the front leaves c at the head, like Redis LPUSH. Returns the list length after the push.
func (s *Lists) Push(key []byte, end End, values ...[]byte) int {
	if end != Front && end != Back {
		utils.RaiseInvariant("storage", "unknown_list_end", "Got an unknown list end to push to.", "end", end)
		return s.Len(key)
	}

	shard := s.getShard(key)
	shard.mux.Lock()
	defer shard.mux.Unlock()

	l, found := shard.lists[string(key)]
	if !found {
		if len(values) == 0 {
			return 0
		}
		l = list.New[[]byte]()
		shard.lists[string(key)] = l
	}
	for _, v := range values {
		if end == Front {
			l.PushFront(v)
		} else {
			l.PushBack(v)
		}
	}
	return l.Len()
}

// Pop removes a value from the given end of the list at `key`. It returns false if there's no such list.
func (s *Lists) Pop(key []byte, end End) ([]byte, bool) {
	if end != Front && end != Back {
		utils.RaiseInvariant("storage", "unknown_list_end", "Got an unknown list end to pop from.", "end", end)
		return nil, false
	}

	shard := s.getShard(key)
	shard.mux.Lock()
	defer shard.mux.Unlock()

	l, found := shard.lists[string(key)]
	if !found {
		return nil, false
	}
	var value []byte
	var popped bool
	if end == Front {
		value, popped = l.PopFront()
	} else {
		value, popped = l.PopBack()
	}
	if !popped { // Stored lists always have elements.
		utils.RaiseInvariant("storage", "empty_stored_list", "Found an empty list in the store.", "key", string(key))
		delete(shard.lists, string(key))
		return nil, false
	}
	if l.Len() == 0 {
		delete(shard.lists, string(key))
	}
	return value, true
}

// Len returns the length of the list at `key`, or 0 if there's no such list.
func (s *Lists) Len(key []byte) int {
	shard := s.getShard(key)
	shard.mux.Lock()
	defer shard.mux.Unlock()
	if l, found := shard.lists[string(key)]; found {
		return l.Len()
	}
	return 0
}

// Exists reports whether there's a list at `key`.
func (s *Lists) Exists(key []byte) bool {
	return s.Len(key) > 0
}

// Delete removes the list at `key` and reports whether it existed.
func (s *Lists) Delete(key []byte) bool {
	shard := s.getShard(key)
	shard.mux.Lock()
	defer shard.mux.Unlock()
	if _, found := shard.lists[string(key)]; !found {
		return false
	}
	delete(shard.lists, string(key))
	return true
}

// KeyCount returns the number of lists across all shards.
func (s *Lists) KeyCount() int {
	count := 0
	for _, shard := range s.shards {
		shard.mux.Lock()
		count += len(shard.lists)
		shard.mux.Unlock()
	}
	return count
}

// Validate checks the links of every stored list.
func (s *Lists) Validate() error {
	var errs []error
	for _, shard := range s.shards {
		shard.mux.Lock()
		for key, l := range shard.lists {
			if err := l.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("list '%s': %w", key, err))
			}
		}
		shard.mux.Unlock()
	}
	return errors.Join(errs...)
}

// Close drops all lists.
func (s *Lists) Close() error {
	for _, shard := range s.shards {
		shard.mux.Lock()
		clear(shard.lists)
		shard.mux.Unlock()
	}
	return nil
}
