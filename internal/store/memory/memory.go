// Package memory is an in-process implementation of the store interfaces. It backs
// the test suites and STORE_DRIVER=memory for local development.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"phoneshop/internal/models"
	"phoneshop/internal/store"
)

// DB holds every collection behind a single lock.
type DB struct {
	mu       sync.RWMutex
	products []models.Product
	orders   []models.Order
	carts    map[primitive.ObjectID]models.Cart
	users    []models.User
	now      func() time.Time
}

func New() *DB {
	return &DB{
		carts: make(map[primitive.ObjectID]models.Cart),
		now:   time.Now,
	}
}

// Stores returns the store bundle backed by db.
func (db *DB) Stores() store.Stores {
	return store.Stores{
		Products: &ProductStore{db: db},
		Orders:   &OrderStore{db: db},
		Carts:    &CartStore{db: db},
		Users:    &UserStore{db: db},
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// window applies skip and limit to n sorted elements and returns the bounds.
func window(n int, page store.Page) (int, int) {
	start := int(page.Skip)
	if start > n {
		start = n
	}
	if start < 0 {
		start = 0
	}
	end := n
	if page.Limit > 0 && start+int(page.Limit) < n {
		end = start + int(page.Limit)
	}
	return start, end
}

// sortDocs sorts in place with less comparing two elements ascending. Ties keep
// insertion order.
func sortDocs[T any](docs []T, desc bool, less func(a, b T) bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		if desc {
			return less(docs[j], docs[i])
		}
		return less(docs[i], docs[j])
	})
}
