package user

import (
	"errors"
	"net/http"

	"user-console/internal/domain"
)

const (
	MsgLoadUsersFailed = "Failed to load users"
	MsgLoadUserFailed  = "Failed to load user"
	MsgUserNotFound    = "User not found"
	MsgSaveInProgress  = "A save is already in progress"
	MsgFormExpired     = "This form has expired, please submit again"
)

// ListView 首页：列表 + 可选的弹窗 / 删除确认
type ListView struct {
	Users   []domain.User
	Error   string
	Flash   string
	Modal   *Form
	Confirm *domain.User
	// ModalOnly 提交失败重绘弹窗时不再拉列表
	ModalOnly bool
}

// ModalView 只渲染弹窗
func ModalView(f *Form) ListView { return ListView{Modal: f, ModalOnly: true} }

func NewListView(users []domain.User, err error) ListView {
	if err != nil {
		return ListView{Error: MsgLoadUsersFailed}
	}
	return ListView{Users: users}
}

// Find 编辑时从已加载的列表里取选中用户
func (v ListView) Find(id string) (domain.User, bool) {
	for _, u := range v.Users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

type DetailState string

const (
	DetailLoading  DetailState = "loading"
	DetailNotFound DetailState = "not_found"
	DetailError    DetailState = "error"
	DetailReady    DetailState = "ready"
)

type DetailView struct {
	State   DetailState
	User    domain.User
	Address domain.Address
}

// ResolveDetail pending 表示渲染截止时请求仍未返回
func ResolveDetail(u *domain.User, err error, pending bool) DetailView {
	switch {
	case pending:
		return DetailView{State: DetailLoading}
	case errors.Is(err, domain.ErrUserNotFound):
		return DetailView{State: DetailNotFound}
	case err != nil:
		return DetailView{State: DetailError}
	case u == nil || u.ID == "":
		return DetailView{State: DetailNotFound}
	}
	return DetailView{State: DetailReady, User: *u, Address: u.PrimaryAddress()}
}

func (v DetailView) Status() int {
	switch v.State {
	case DetailNotFound:
		return http.StatusNotFound
	case DetailError:
		return http.StatusBadGateway
	case DetailLoading:
		return http.StatusAccepted
	}
	return http.StatusOK
}

func (v DetailView) Message() string {
	switch v.State {
	case DetailNotFound:
		return MsgUserNotFound
	case DetailError:
		return MsgLoadUserFailed
	case DetailLoading:
		return "Loading user details..."
	}
	return ""
}
