package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
	infraRepo "github.com/nivaancare/clinic-api/internal/infrastructure/repository"
	"github.com/nivaancare/clinic-api/internal/presentation/http/dto/response"
)

// ExtractCenterFromHost extracts the center slug from a subdomain
// e.g., "koramangala.nivaancare.com" -> "koramangala"
func ExtractCenterFromHost(host string) (string, error) {
	// Remove port if present
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return "", errors.New("invalid subdomain")
	}
	return parts[0], nil
}

// CenterMiddleware resolves the active center from the subdomain, falling
// back to the X-Center-ID header for clients that talk to the bare host.
func CenterMiddleware(centerRepo repository.CenterRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		centerSlug, err := ExtractCenterFromHost(c.Request.Host)
		if err != nil {
			if headerID := c.GetHeader("X-Center-ID"); headerID != "" {
				centerID, parseErr := uuid.Parse(headerID)
				if parseErr != nil {
					response.BadRequest(c, "Invalid X-Center-ID header")
					c.Abort()
					return
				}
				center, lookupErr := centerRepo.GetByID(c.Request.Context(), centerID)
				if lookupErr != nil || center == nil {
					response.NotFound(c, "Center not found")
					c.Abort()
					return
				}
				attachCenter(c, centerRepo, center.ID, center)
				return
			}

			// Allow requests without a center (login, center selection)
			c.Set("center_id", uuid.Nil)
			c.Next()
			return
		}

		center, err := centerRepo.GetBySlug(c.Request.Context(), centerSlug)
		if err != nil || center == nil {
			response.NotFound(c, "Center not found")
			c.Abort()
			return
		}

		attachCenter(c, centerRepo, center.ID, center)
	}
}

func attachCenter(c *gin.Context, centerRepo repository.CenterRepository, centerID uuid.UUID, center interface{}) {
	// Validate user has access to this center (if authenticated)
	userIDVal, exists := c.Get("user_id")
	if exists {
		userID, ok := userIDVal.(uuid.UUID)
		if ok && userID != uuid.Nil {
			isMember, _ := centerRepo.IsMember(c.Request.Context(), centerID, userID)
			if !isMember {
				response.Forbidden(c, "Access denied to this center")
				c.Abort()
				return
			}
		}
	}

	// Set center in Gin context (for middleware/handlers)
	c.Set("center_id", centerID)
	c.Set("center", center)

	// Also set center ID in request context (for services/repositories)
	ctx := infraRepo.WithCenter(c.Request.Context(), centerID)
	c.Request = c.Request.WithContext(ctx)

	c.Next()
}

// RequireCenter ensures a valid center context exists
func RequireCenter() gin.HandlerFunc {
	return func(c *gin.Context) {
		centerID, exists := c.Get("center_id")
		if !exists {
			response.BadRequest(c, "Center context required")
			c.Abort()
			return
		}

		id, ok := centerID.(uuid.UUID)
		if !ok || id == uuid.Nil {
			response.BadRequest(c, "Invalid center context")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetCenterID retrieves the center ID from gin context
func GetCenterID(c *gin.Context) uuid.UUID {
	centerID, exists := c.Get("center_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := centerID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
