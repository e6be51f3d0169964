package entities

import (
	"bms-select/pkg/types"
)

type User struct {
	ID       uint64 `json:"id" db:"id"`
	Username string `json:"username" db:"username"`

	Password string `json:"-" db:"password"`

	MustChangePassword bool `json:"must_change_password" db:"must_change_password"`

	types.BaseEntity
}
