package domain

import "time"

// Role is the fixed set of account roles. The numeric values are the
// persisted role_id column.
type Role int

const (
	RoleAdmin  Role = 1
	RoleSeller Role = 2
	RoleBuyer  Role = 3
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSeller || r == RoleBuyer
}

// CanSell reports whether a user with this role may appear as the seller of a sale.
func (r Role) CanSell() bool { return r == RoleAdmin || r == RoleSeller }

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSeller:
		return "seller"
	case RoleBuyer:
		return "buyer"
	}
	return "unknown"
}

type User struct {
	ID        int64     `db:"user_id" json:"userId"`
	Username  string    `db:"username" json:"username"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	Email     string    `db:"user_email" json:"userEmail"`
	Role      Role      `db:"role_id" json:"roleId"`
	Hash      string    `db:"password_hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
