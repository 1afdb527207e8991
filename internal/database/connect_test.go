package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"phoneshop/internal/store"
)

func TestFindOptionsProjectsRequestedFields(t *testing.T) {
	opts := findOptions(store.Page{Limit: 5, SortBy: "createdAt", Desc: true, Fields: []string{"items"}})

	assert.Equal(t, bson.D{{Key: "items", Value: 1}}, opts.Projection)
	assert.Equal(t, int64(5), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, opts.Sort)
}

func TestFindOptionsWithoutFieldsReturnsWholeDocuments(t *testing.T) {
	opts := findOptions(store.Page{})

	assert.Nil(t, opts.Projection)
	assert.Nil(t, opts.Limit)
	assert.Nil(t, opts.Sort)
}
