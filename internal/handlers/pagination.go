package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"phoneshop/internal/apperr"
	"phoneshop/internal/reporting"
)

// queryParser collects malformed query parameters so they are reported together.
type queryParser struct {
	c       *gin.Context
	details []string
}

func (p *queryParser) positiveInt(name string) int {
	raw := strings.TrimSpace(p.c.Query(name))
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		p.details = append(p.details, name+" must be a positive integer")
		return 0
	}
	return v
}

func (p *queryParser) optionalFloat(name string) *float64 {
	raw := strings.TrimSpace(p.c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.details = append(p.details, name+" must be a number")
		return nil
	}
	return &v
}

func (p *queryParser) pageQuery() reporting.PageQuery {
	return reporting.PageQuery{
		Page:      p.positiveInt("page"),
		Limit:     p.positiveInt("limit"),
		SortBy:    strings.TrimSpace(p.c.Query("sortBy")),
		SortOrder: strings.TrimSpace(p.c.Query("sortOrder")),
	}
}

func (p *queryParser) err() error {
	if len(p.details) == 0 {
		return nil
	}
	return apperr.Validation("validation failed", p.details...)
}
