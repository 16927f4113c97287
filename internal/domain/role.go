package domain

import "strings"

const (
	RoleBuyer          = "buyer"
	RoleSeller         = "seller"
	RoleProductManager = "product_manager"
	RoleSalesManager   = "sales_manager"
)

func NormalizeRole(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buyer":
		return RoleBuyer
	case "seller", "verified_seller":
		return RoleSeller
	case "product_manager", "productmanager":
		return RoleProductManager
	case "sales_manager", "salesmanager":
		return RoleSalesManager
	default:
		return ""
	}
}
