package enums

// UserRole scopes what an authenticated caller may do.
type UserRole string

const (
	UserRoleCustomer  UserRole = "customer"
	UserRoleShopOwner UserRole = "shop_owner"
	UserRoleAdmin     UserRole = "admin"
)

var userRoles = set[UserRole]{UserRoleCustomer, UserRoleShopOwner, UserRoleAdmin}

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool { return userRoles.has(r) }
