package user

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"user-console/internal/domain"
)

type UserModel struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)"`
	Name      string         `gorm:"size:128;not null"`
	Email     string         `gorm:"size:255;not null;index"`
	Phone     string         `gorm:"size:10"`
	Company   string         `gorm:"size:128"`
	Addresses []AddressModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string { return "users" }

type AddressModel struct {
	ID       uint      `gorm:"primaryKey"`
	UserID   string    `gorm:"type:varchar(36);index;not null"`
	Position int       `gorm:"not null;default:0"` // 保持原始顺序，0 为主地址
	City     string    `gorm:"size:128"`
	Zipcode  string    `gorm:"size:6"`
	Geo      []float64 `gorm:"serializer:json"`
}

func (AddressModel) TableName() string { return "user_addresses" }

func FromDomain(u *domain.User) *UserModel {
	m := &UserModel{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Company: u.Company,
	}
	for i, a := range u.Address {
		m.Addresses = append(m.Addresses, AddressModel{
			UserID:   u.ID,
			Position: i,
			City:     a.City,
			Zipcode:  a.Zipcode,
			Geo:      a.Geo,
		})
	}
	return m
}

func (m *UserModel) ToDomain() domain.User {
	addrs := append([]AddressModel(nil), m.Addresses...)
	sort.SliceStable(addrs, func(i, j int) bool { return addrs[i].Position < addrs[j].Position })

	u := domain.User{
		ID:      m.ID,
		Name:    m.Name,
		Email:   m.Email,
		Phone:   m.Phone,
		Company: m.Company,
		Address: make([]domain.Address, 0, len(addrs)),
	}
	for _, a := range addrs {
		geo := a.Geo
		if geo == nil {
			geo = []float64{}
		}
		u.Address = append(u.Address, domain.Address{City: a.City, Zipcode: a.Zipcode, Geo: geo})
	}
	return u
}
