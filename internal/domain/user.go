package domain

import (
	"context"
	"errors"
	"strings"
)

var ErrUserNotFound = errors.New("user not found")

type Address struct {
	City    string    `json:"city"`
	Zipcode string    `json:"zipcode"`
	Geo     []float64 `json:"geo"`
}

// User 线上字段沿用 `_id`（后端是文档库风格的 id）
type User struct {
	ID      string    `json:"_id,omitempty"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   string    `json:"phone"`
	Company string    `json:"company"`
	Address []Address `json:"address"`
}

// PrimaryAddress 界面只读写第一条地址
func (u User) PrimaryAddress() Address {
	if len(u.Address) == 0 {
		return Address{}
	}
	return u.Address[0]
}

// Initial 头像首字母
func (u User) Initial() string {
	name := strings.TrimSpace(u.Name)
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error) // 不存在返回 nil, nil
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error // 不存在返回 ErrUserNotFound
	Delete(ctx context.Context, id string) error
}
