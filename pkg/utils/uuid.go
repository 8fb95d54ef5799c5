package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	// Convert to lowercase
	s = strings.ToLower(s)

	// Replace spaces with hyphens
	s = strings.ReplaceAll(s, " ", "-")

	// Remove non-alphanumeric characters except hyphens
	reg := regexp.MustCompile("[^a-z0-9-]")
	s = reg.ReplaceAllString(s, "")

	// Remove multiple consecutive hyphens
	reg = regexp.MustCompile("-+")
	s = reg.ReplaceAllString(s, "-")

	// Trim hyphens from start and end
	s = strings.Trim(s, "-")

	return s
}

// GenerateInvoiceNumber generates a unique invoice number with the given
// prefix, e.g. NVC-20260901-3F2A1B9C
func GenerateInvoiceNumber(prefix string, at time.Time) string {
	return fmt.Sprintf("%s%s-%s", prefix, at.Format("20060102"), strings.ToUpper(uuid.New().String()[:8]))
}

// GenerateReceiptNumber generates a unique receipt number with the given prefix
func GenerateReceiptNumber(prefix string, at time.Time) string {
	return fmt.Sprintf("%s%s-%s", prefix, at.Format("20060102"), strings.ToUpper(uuid.New().String()[:8]))
}

// GenerateMRN generates a medical record number for a new patient
func GenerateMRN() string {
	return "MRN-" + strings.ToUpper(uuid.New().String()[:8])
}

// GenerateSlitOrderNumber generates a SLIT order number
func GenerateSlitOrderNumber() string {
	return "SLIT-" + strings.ToUpper(uuid.New().String()[:8])
}
