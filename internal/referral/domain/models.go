package domain

import "time"

// User is a member of the referral network. ReferredBy is a weak
// back-reference to the referring user's id.
type User struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	FirstName    string     `json:"first_name" gorm:"not null"`
	LastName     string     `json:"last_name" gorm:"not null"`
	Username     string     `json:"username"`
	ReferredBy   *int64     `json:"referred_by,omitempty" gorm:"index"`
	EnrolledDate *time.Time `json:"enrolled_date,omitempty" gorm:"type:date"`
}

func (User) TableName() string { return "users" }

type Category struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

func (Category) TableName() string { return "categories" }

// UserCategory links a user to a category. Membership in the
// Distributor or Customer category drives commission eligibility.
type UserCategory struct {
	UserID     int64 `json:"user_id" gorm:"primaryKey"`
	CategoryID int64 `json:"category_id" gorm:"primaryKey"`
}

func (UserCategory) TableName() string { return "user_category" }
