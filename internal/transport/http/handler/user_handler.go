package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-console/internal/domain"
	httpez "user-console/internal/transport/http/ez"
	"user-console/pkg/utils"
)

// UserHandler 后端 REST：/allUsers /userDetails/:id /addUser /userUpdate/:id /deleteUser/:id
type UserHandler struct {
	repo domain.UserRepository
	log  *zap.Logger
}

func NewUserHandler(repo domain.UserRepository, l *zap.Logger) *UserHandler {
	return &UserHandler{repo: repo, log: l}
}

func (h *UserHandler) Priority() int { return 10 }

type addressIn struct {
	City    string    `json:"city"`
	Zipcode string    `json:"zipcode" binding:"omitempty,number,max=6"`
	Geo     []float64 `json:"geo"`
}

type userIn struct {
	Name    string      `json:"name"    binding:"required"`
	Email   string      `json:"email"   binding:"required,email"`
	Phone   string      `json:"phone"   binding:"omitempty,number,max=10"`
	Company string      `json:"company"`
	Address []addressIn `json:"address" binding:"omitempty,dive"`
}

// userPatch 未出现的字段保持原值；address 为空表示不修改
type userPatch struct {
	Name    *string     `json:"name"    binding:"omitempty,min=1"`
	Email   *string     `json:"email"   binding:"omitempty,email"`
	Phone   *string     `json:"phone"   binding:"omitempty,number,max=10"`
	Company *string     `json:"company"`
	Address []addressIn `json:"address" binding:"omitempty,dive"`
}

type deleteOut struct {
	ID string `json:"_id"`
}

func toAddresses(in []addressIn) []domain.Address {
	out := make([]domain.Address, 0, len(in))
	for _, a := range in {
		geo := a.Geo
		if geo == nil {
			geo = []float64{}
		}
		out = append(out, domain.Address{
			City:    strings.TrimSpace(a.City),
			Zipcode: strings.TrimSpace(a.Zipcode),
			Geo:     geo,
		})
	}
	return out
}

func (in *userIn) toDomain() domain.User {
	return domain.User{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Company: strings.TrimSpace(in.Company),
		Address: toAddresses(in.Address),
	}
}

func (p *userPatch) applyTo(u *domain.User) {
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		u.Email = strings.TrimSpace(*p.Email)
	}
	if p.Phone != nil {
		u.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Company != nil {
		u.Company = strings.TrimSpace(*p.Company)
	}
	if len(p.Address) > 0 {
		u.Address = toAddresses(p.Address)
	}
}

// checkIdentity 裁剪后再校验，纯空白的 name/email 不入库
func checkIdentity(u *domain.User) error {
	if u.Name == "" {
		return httpez.BadRequest("name is required")
	}
	if u.Email == "" {
		return httpez.BadRequest("email is required")
	}
	return nil
}

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	ez := httpez.New(g, h.log)

	// GET /allUsers
	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/allUsers",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			us, err := h.repo.List(c.Request.Context())
			if err != nil {
				return nil, httpez.Internal("list users failed", err)
			}
			if us == nil {
				us = []domain.User{}
			}
			return us, nil
		},
	})

	// GET /userDetails/:id
	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/userDetails/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.find(c, c.Param("id"))
		},
	})

	// POST /addUser  id 由服务端生成
	httpez.RegisterAction(ez, httpez.Action[userIn, domain.User]{
		Method: http.MethodPost,
		Path:   "/addUser",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *userIn) (domain.User, error) {
			u := in.toDomain()
			if err := checkIdentity(&u); err != nil {
				return domain.User{}, err
			}
			u.ID = utils.NewID()
			if err := h.repo.Create(c.Request.Context(), &u); err != nil {
				return domain.User{}, httpez.Internal("create user failed", err)
			}
			return u, nil
		},
	})

	// PATCH /userUpdate/:id
	httpez.RegisterAction(ez, httpez.Action[userPatch, *domain.User]{
		Method: http.MethodPatch,
		Path:   "/userUpdate/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *userPatch) (*domain.User, error) {
			u, err := h.find(c, c.Param("id"))
			if err != nil {
				return nil, err
			}
			in.applyTo(u)
			if err := checkIdentity(u); err != nil {
				return nil, err
			}
			if err := h.repo.Update(c.Request.Context(), u); err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return nil, httpez.NotFound("user not found")
				}
				return nil, httpez.Internal("update user failed", err)
			}
			return u, nil
		},
	})

	// DELETE /deleteUser/:id
	httpez.RegisterAction(ez, httpez.Action[struct{}, deleteOut]{
		Method: http.MethodDelete,
		Path:   "/deleteUser/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deleteOut, error) {
			id := strings.TrimSpace(c.Param("id"))
			if id == "" {
				return deleteOut{}, httpez.BadRequest("missing id")
			}
			if err := h.repo.Delete(c.Request.Context(), id); err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return deleteOut{}, httpez.NotFound("user not found")
				}
				return deleteOut{}, httpez.Internal("delete user failed", err)
			}
			return deleteOut{ID: id}, nil
		},
	})
}

func (h *UserHandler) find(c *gin.Context, id string) (*domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, httpez.BadRequest("missing id")
	}
	u, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		return nil, httpez.Internal("load user failed", err)
	}
	if u == nil {
		return nil, httpez.NotFound("user not found")
	}
	return u, nil
}
