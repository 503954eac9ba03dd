// Package models holds the GORM persistence models and their mapping to
// domain types. Domain packages never import this package.
package models

// All returns every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&ProductModel{},
		&OrderModel{},
		&UserLogModel{},
		&AdminModel{},
	}
}
