package user

import (
	"strings"
	"unicode"

	"user-console/internal/domain"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

const (
	PhoneMaxLen   = 10
	ZipcodeMaxLen = 6
)

// Form 弹窗表单；字段 tag 同时用于 gin 表单绑定与校验
type Form struct {
	Mode  Mode   `form:"-"`
	ID    string `form:"-"`
	Token string `form:"token"`

	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required,email,domainsuffix"`
	Phone   string `form:"phone" validate:"required,digits,max=10"`
	Company string `form:"company" validate:"required"`
	City    string `form:"city" validate:"required"`
	Zipcode string `form:"zipcode" validate:"required,digits,max=6"`

	Errors FieldErrors `form:"-"`
	Error  string      `form:"-"` // 保存失败提示
}

type FieldErrors map[string]string

func NewCreateForm() *Form { return &Form{Mode: ModeCreate} }

func NewEditForm(u domain.User) *Form {
	addr := u.PrimaryAddress()
	return &Form{
		Mode:    ModeEdit,
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Company: u.Company,
		City:    addr.City,
		Zipcode: addr.Zipcode,
	}
}

func (f *Form) Title() string {
	if f.Mode == ModeEdit {
		return "Update User"
	}
	return "Create User"
}

// Action 表单提交地址；HTML 表单只有 POST，编辑走 /users/:id
func (f *Form) Action() string {
	if f.Mode == ModeEdit {
		return "/users/" + f.ID
	}
	return "/users"
}

func (f *Form) Invalid() bool { return len(f.Errors) > 0 }

// Sanitize 与输入框约束一致：电话/邮编只保留数字并截断
func (f *Form) Sanitize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Company = strings.TrimSpace(f.Company)
	f.City = strings.TrimSpace(f.City)
	f.Phone = DigitsOnly(f.Phone, PhoneMaxLen)
	f.Zipcode = DigitsOnly(f.Zipcode, ZipcodeMaxLen)
}

func DigitsOnly(s string, maxLen int) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Payload 提交体：不带 id，地址只写第一条，geo 固定为空
func (f *Form) Payload() domain.User {
	return domain.User{
		Name:    f.Name,
		Email:   f.Email,
		Phone:   f.Phone,
		Company: f.Company,
		Address: []domain.Address{{City: f.City, Zipcode: f.Zipcode, Geo: []float64{}}},
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
