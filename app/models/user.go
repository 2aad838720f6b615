package models

import "gorm.io/gorm"

// Validate checks if the user meets all validation requirements
func (u *User) Validate() error {
	return validate.Struct(u)
}

// BeforeSave refuses to persist an invalid user.
func (u *User) BeforeSave(tx *gorm.DB) error {
	return u.Validate()
}

// DisplayName falls back to the email when no name is set.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
