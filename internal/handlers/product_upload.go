package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"phoneshop/internal/apperr"
	"phoneshop/internal/catalog"
	"phoneshop/internal/models"
	"phoneshop/internal/upload"
)

type productRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	Stock       *int     `json:"stock"`
	ImageURL    string   `json:"imageUrl"`
}

func (r productRequest) input() catalog.ProductInput {
	return catalog.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    models.Category(strings.TrimSpace(r.Category)),
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
	}
}

// parseProductRequest reads a product body sent either as JSON or as a
// multipart form carrying image files in the images field. Files are only
// written once the rest of the input is valid.
func parseProductRequest(c *gin.Context, uploads *upload.Storage) (catalog.ProductInput, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return catalog.ProductInput{}, apperr.Validation("invalid body", err.Error())
		}
		return req.input(), nil
	}

	req, files, err := parseMultipartProductRequest(c)
	if err != nil {
		return catalog.ProductInput{}, err
	}
	in := req.input()
	if err := catalog.Validate(in); err != nil {
		return catalog.ProductInput{}, err
	}
	if len(files) > 0 {
		paths, err := uploads.Save(files)
		if err != nil {
			return catalog.ProductInput{}, err
		}
		in.Uploaded = paths
	}
	return in, nil
}

func parseMultipartProductRequest(c *gin.Context) (productRequest, []*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return productRequest{}, nil, apperr.Validation("invalid multipart body", err.Error())
	}

	var req productRequest
	var details []string

	if value, ok := c.GetPostForm("name"); ok {
		req.Name = strings.TrimSpace(value)
	}
	if value, ok := c.GetPostForm("description"); ok {
		description := strings.TrimSpace(value)
		req.Description = &description
	}
	if value, ok := c.GetPostForm("category"); ok {
		req.Category = value
	}
	if value, ok := c.GetPostForm("imageUrl"); ok {
		req.ImageURL = strings.TrimSpace(value)
	}
	if value, ok := c.GetPostForm("price"); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			details = append(details, "price must be a number")
		} else {
			req.Price = &parsed
		}
	}
	if value, ok := c.GetPostForm("stock"); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			details = append(details, "stock must be an integer")
		} else {
			req.Stock = &parsed
		}
	}
	if len(details) > 0 {
		return productRequest{}, nil, apperr.Validation("validation failed", details...)
	}

	files := form.File[upload.FieldName]
	if err := upload.Validate(files); err != nil {
		return productRequest{}, nil, err
	}
	return req, files, nil
}
