package reliability

import (
	"strings"

	"incident-analysis/internal/models"
)

// AllTypes is the type filter value that disables type filtering
const AllTypes = "All Types"

// ParseTypes splits a whitespace-delimited type field into its codes.
// Codes are not validated against models.KnownTypes.
func ParseTypes(field string) models.TypeSet {
	return models.NewTypeSet(strings.Fields(field)...)
}
