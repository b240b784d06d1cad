// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts s with strconv.Atoi, returning def when s is empty or
// not an integer.
//
//	n := utils.AtoiDefault("42", 0) // 42
//	n = utils.AtoiDefault("", 10)   // 10
//	n = utils.AtoiDefault("x", 5)   // 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampPage parses 1-based ?page= and ?limit= values. Missing or invalid
// values fall back to page 1 and defLimit; limit is capped at maxLimit.
func ClampPage(pageStr, limitStr string, defLimit, maxLimit int) (page, limit int) {
	page = AtoiDefault(pageStr, 1)
	if page < 1 {
		page = 1
	}
	limit = AtoiDefault(limitStr, defLimit)
	if limit < 1 {
		limit = defLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// PageCount returns how many pages of size limit hold total items.
func PageCount(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
