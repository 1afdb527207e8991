package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"phoneshop/internal/apperr"
	"phoneshop/internal/middleware"
)

func handlePanic(c *gin.Context, logger *zap.Logger, route string) {
	if r := recover(); r != nil {
		logger.Error("panic recovered", zap.String("route", route), zap.Any("panic", r), zap.String("rid", middleware.RequestIDFrom(c)))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, logger *zap.Logger, status int, route string, message string) {
	logger.Info("returning error", zap.String("route", route), zap.Int("status", status), zap.String("error", message))
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondError maps an error kind to its status code. Store failures are
// logged with their cause and answered with a generic message.
func respondError(c *gin.Context, logger *zap.Logger, route string, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperr.KindStore {
		logger.Error("request failed",
			zap.String("route", route),
			zap.String("rid", middleware.RequestIDFrom(c)),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := appErr.Kind.HTTPStatus()
	logger.Info("returning error", zap.String("route", route), zap.Int("status", status), zap.String("error", appErr.Message))
	body := gin.H{"error": appErr.Message}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(status, body)
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "email":
				details = append(details, fmt.Sprintf("%s must be a valid email", field))
			case "min":
				details = append(details, fmt.Sprintf("%s must be at least %s", field, fieldError.Param()))
			case "max":
				details = append(details, fmt.Sprintf("%s must be at most %s", field, fieldError.Param()))
			case "oneof":
				details = append(details, fmt.Sprintf("%s must be one of %s", field, fieldError.Param()))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": []string{err.Error()}})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func parseObjectID(value, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(value))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("validation failed", field+" is invalid")
	}
	return id, nil
}

// requireIdentity returns the caller set by the auth middleware.
func requireIdentity(c *gin.Context, logger *zap.Logger, route string) (primitive.ObjectID, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		respondWithError(c, logger, http.StatusUnauthorized, route, "Unauthorized")
		return primitive.NilObjectID, false
	}
	return identity.ID, true
}
