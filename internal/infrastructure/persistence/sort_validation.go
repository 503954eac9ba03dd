package persistence

import (
	"strings"

	"gorm.io/gorm"
)

// ValidateSortOrder maps user input to ASC or DESC. Anything other than
// "asc" sorts descending.
func ValidateSortOrder(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns field when it is whitelisted, fallback otherwise.
// Column names are interpolated into ORDER BY so nothing else gets through.
func ValidateSortField(field string, allowed map[string]bool, fallback string) string {
	if f := strings.TrimSpace(field); allowed[f] {
		return f
	}
	return fallback
}

// ProductSortFields are the columns the admin product list may sort on
var ProductSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"category":     true,
	"retail_price": true,
	"views_count":  true,
}

// OrderSortFields are the columns the admin order list may sort on
var OrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"customer_name": true,
	"status":        true,
	"total_price":   true,
}

// likeOperator returns the case-insensitive match operator for the dialect.
// SQLite LIKE is already case-insensitive for ASCII.
func likeOperator(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "ILIKE"
	}
	return "LIKE"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, with
// wildcards in s escaped. Use with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
