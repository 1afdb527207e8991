package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryCase     Category = "case"
	CategoryEarphone Category = "earphone"
	CategoryCharger  Category = "charger"
	CategoryGlass    Category = "glass"
)

// Categories lists every category a product may belong to.
var Categories = []Category{CategoryCase, CategoryEarphone, CategoryCharger, CategoryGlass}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

const DefaultStock = 100

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    Category           `bson:"category" json:"category"`
	Images      StringList         `bson:"images" json:"images"`
	Stock       int                `bson:"stock" json:"stock"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FirstImage returns the image shown for the product in order snapshots.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductSummary is the subset of a product joined into order and cart views.
type ProductSummary struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Price  float64            `json:"price"`
	Images StringList         `json:"images"`
}

func (p Product) Summary() *ProductSummary {
	return &ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price, Images: p.Images}
}
