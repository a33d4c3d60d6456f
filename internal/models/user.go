package models

import (
	"fmt"
	"regexp"
	"time"
)

// usernamePattern - буквы, цифры и символы @ . + - _
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)

var cardNumberPattern = regexp.MustCompile(`^[0-9]+$`)

// User представляет учетную запись покупателя
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	PasswordHash     string    `gorm:"column:password;size:128;not null" json:"-"`
	FirstName        string    `gorm:"size:150;not null" json:"first_name"`
	LastName         string    `gorm:"size:150;not null" json:"last_name"`
	IsActive         bool      `gorm:"not null" json:"is_active"`
	NotificationType bool      `gorm:"not null" json:"notification_type"`
	ProfilePicture   *string   `gorm:"size:100" json:"profile_picture"`
	DateJoined       time.Time `gorm:"autoCreateTime;not null" json:"date_joined"`
}

// UserCard - платежная карта пользователя
type UserCard struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	UserID         uint   `gorm:"not null;index" json:"user_id"`
	CardNumber     string `gorm:"size:16;not null" json:"card_number"`
	ExpirationDate Date   `gorm:"type:date;not null" json:"expiration_date"`
}

// UserAddress - адрес доставки пользователя
type UserAddress struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	MobileNumber string `gorm:"size:15;not null" json:"mobile_number"`
	HouseNumber  string `gorm:"size:100;not null" json:"house_number"`
	Street       string `gorm:"size:100;not null" json:"street"`
	City         string `gorm:"size:100;not null" json:"city"`
	State        string `gorm:"size:100;not null" json:"state"`
	Country      string `gorm:"size:100;not null" json:"country"`
	Pincode      string `gorm:"size:6;not null" json:"pincode"`
}

// CreateUserRequest представляет запрос на регистрацию пользователя
type CreateUserRequest struct {
	Username         string  `json:"username"`
	Password         string  `json:"password"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	NotificationType *bool   `json:"notification_type"`
	ProfilePicture   *string `json:"profile_picture"`
}

// UpdateUserRequest представляет частичное обновление профиля
type UpdateUserRequest struct {
	Username         *string `json:"username"`
	Password         *string `json:"password"`
	FirstName        *string `json:"first_name"`
	LastName         *string `json:"last_name"`
	IsActive         *bool   `json:"is_active"`
	NotificationType *bool   `json:"notification_type"`
	ProfilePicture   *string `json:"profile_picture"`
}

func (User) TableName() string        { return "users" }
func (UserCard) TableName() string    { return "user_cards" }
func (UserAddress) TableName() string { return "user_addresses" }

func (u User) String() string { return u.Username }

func (c UserCard) String() string {
	return fmt.Sprintf("user #%d - %s", c.UserID, maskCard(c.CardNumber))
}

func (a UserAddress) String() string {
	return fmt.Sprintf("user #%d - %s, %s, %s", a.UserID, a.HouseNumber, a.Street, a.City)
}

// maskCard оставляет видимыми только последние четыре цифры
func maskCard(number string) string {
	if len(number) <= 4 {
		return number
	}
	masked := make([]byte, len(number))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[len(number)-4:], number[len(number)-4:])
	return string(masked)
}

// ValidatePassword проверяет пароль до хеширования (bcrypt ограничен 72 байтами)
func ValidatePassword(password string) error {
	v := newValidator("user")
	switch {
	case len(password) < 8:
		v.fail("password", "must be at least 8 characters")
	case len(password) > 72:
		v.fail("password", "must be at most 72 bytes")
	}
	return v.done()
}

func (u *User) Validate() error {
	v := newValidator("user")
	v.text("username", u.Username, 150)
	if u.Username != "" && !usernamePattern.MatchString(u.Username) {
		v.fail("username", "may contain only letters, numbers and @/./+/-/_ characters")
	}
	v.required("password", u.PasswordHash)
	v.maxLen("first_name", u.FirstName, 150)
	v.maxLen("last_name", u.LastName, 150)
	if u.ProfilePicture != nil {
		v.maxLen("profile_picture", *u.ProfilePicture, 100)
	}
	return v.done()
}

func (c *UserCard) Validate() error {
	v := newValidator("user_card")
	v.reference("user_id", c.UserID)
	v.text("card_number", c.CardNumber, 16)
	if c.CardNumber != "" && !cardNumberPattern.MatchString(c.CardNumber) {
		v.fail("card_number", "must contain only digits")
	}
	if c.ExpirationDate.IsZero() {
		v.fail("expiration_date", "is required")
	}
	return v.done()
}

func (a *UserAddress) Validate() error {
	v := newValidator("user_address")
	v.reference("user_id", a.UserID)
	v.text("name", a.Name, 100)
	v.text("mobile_number", a.MobileNumber, 15)
	v.text("house_number", a.HouseNumber, 100)
	v.text("street", a.Street, 100)
	v.text("city", a.City, 100)
	v.text("state", a.State, 100)
	v.text("country", a.Country, 100)
	v.text("pincode", a.Pincode, 6)
	return v.done()
}
