// Package cache keeps recently read source units in memory so that the
// per-category walks of one analysis read each file once.
package cache

import (
	"fmt"
	"time"

	"github.com/droidaudit/droidaudit/internal/types"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize bounds the number of cached units.
const DefaultSize = 4096

// Units is a bounded, concurrency-safe unit cache. A nil *Units is valid and
// caches nothing.
type Units struct {
	c *lru.Cache[string, types.SourceUnit]
}

// New returns a cache holding up to size units, or nil when size <= 0.
func New(size int) (*Units, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[string, types.SourceUnit](size)
	if err != nil {
		return nil, err
	}
	return &Units{c: c}, nil
}

// Key identifies a file revision. A change of size or modification time
// invalidates the entry.
func Key(rel string, size int64, mod time.Time) string {
	return fmt.Sprintf("%s|%d|%d", rel, size, mod.UnixNano())
}

func (u *Units) Get(key string) (types.SourceUnit, bool) {
	if u == nil {
		return types.SourceUnit{}, false
	}
	return u.c.Get(key)
}

func (u *Units) Add(key string, unit types.SourceUnit) {
	if u == nil {
		return
	}
	u.c.Add(key, unit)
}

func (u *Units) Len() int {
	if u == nil {
		return 0
	}
	return u.c.Len()
}
