package domain

// Role закрытый набор ролей; проверяется на сервере при каждой защищённой операции
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleSupplier Role = "supplier"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin || r == RoleSupplier
}

// Actor проверенная личность вызывающего, передаётся явно в каждый запрос
type Actor struct {
	UserID string `json:"id"`
	Role   Role   `json:"role"`
	Email  string `json:"email"`
}

func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
