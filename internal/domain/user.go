package domain

import "time"

// User represents an organization member account.
// Accounts are created by an admin or provisioned on first external-auth
// login. Users are never hard-deleted, only deactivated.
type User struct {
	ID               uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username         string     `gorm:"column:username;size:64;uniqueIndex" json:"username"`
	Name             string     `gorm:"column:name;size:128" json:"name"`
	Phone            string     `gorm:"column:phone;size:32;uniqueIndex" json:"phone"`
	IsAdmin          bool       `gorm:"column:is_admin;default:false" json:"is_admin"`
	CanCreateGroup   bool       `gorm:"column:can_create_group;default:true" json:"can_create_group"`
	CanCreateChannel bool       `gorm:"column:can_create_channel;default:false" json:"can_create_channel"`
	CanCall          bool       `gorm:"column:can_call;default:true" json:"can_call"`
	SMSCredit        int        `gorm:"column:sms_credit;default:0" json:"sms_credit"`
	Active           bool       `gorm:"column:active;default:true" json:"active"`
	DeactivatedAt    *time.Time `gorm:"column:deactivated_at" json:"-"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (User) TableName() string { return "users" }

// UserResponse is the public shape of a user
type UserResponse struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"is_admin"`
}

// ToResponse converts a User to its public shape
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		IsAdmin:  u.IsAdmin,
	}
}
