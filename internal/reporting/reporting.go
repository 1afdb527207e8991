// Package reporting computes the admin dashboard and the paged admin listings.
// Every figure is computed on demand from the stores.
package reporting

import (
	"time"

	"go.uber.org/zap"

	"phoneshop/internal/store"
)

const (
	RecentOrderCount  = 10
	RevenueWindow     = 6
	TopProductCount   = 5
	DefaultAdminLimit = 10
	MaxAdminLimit     = 100
	customerFanOut    = 8
)

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	stores store.Stores
	logger *zap.Logger
	now    func() time.Time
}

func NewService(stores store.Stores, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{stores: stores, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PageQuery holds the paging and sorting parameters shared by admin listings.
// SortOrder "desc" sorts descending, anything else ascending.
type PageQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type pageInfo struct {
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Total       int64 `json:"total"`
}

func newPageInfo(total int64, page, limit int) pageInfo {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return pageInfo{TotalPages: pages, CurrentPage: page, Total: total}
}
