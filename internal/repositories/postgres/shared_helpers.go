package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// applyOrdering appends a safe ORDER BY clause. SortBy values are validated
// upstream against a whitelist, so only the direction needs normalizing here.
func applyOrdering(query *gorm.DB, sortBy, sortOrder, defaultColumn string) *gorm.DB {
	column := defaultColumn
	if sortBy != "" {
		column = sortBy
	}

	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}

	return query.Order(fmt.Sprintf("%s %s", column, direction))
}

// applyPagination appends LIMIT/OFFSET with a default page size
func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return query.Limit(limit).Offset(offset)
}
