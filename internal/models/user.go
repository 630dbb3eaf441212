package models

import "time"

type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleManager    UserRole = "MANAGER"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

type User struct {
	ID         int        `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Department string     `json:"department,omitempty"`
	JobTitle   string     `json:"jobTitle,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Role       UserRole   `json:"role"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	SyncStatus SyncStatus `json:"syncStatus"`
}

// UserPatch is a partial update. Nil fields keep their prior value.
type UserPatch struct {
	Username   *string   `json:"username,omitempty"`
	Email      *string   `json:"email,omitempty"`
	FirstName  *string   `json:"firstName,omitempty"`
	LastName   *string   `json:"lastName,omitempty"`
	Department *string   `json:"department,omitempty"`
	JobTitle   *string   `json:"jobTitle,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Role       *UserRole `json:"role,omitempty"`
	Active     *bool     `json:"active,omitempty"`
}

func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.JobTitle != nil {
		u.JobTitle = *p.JobTitle
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Active != nil {
		u.Active = *p.Active
	}
}
