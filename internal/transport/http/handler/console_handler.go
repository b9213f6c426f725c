package handler

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-console/internal/apiclient"
	"user-console/internal/domain"
	"user-console/internal/feature/user"
	mdw "user-console/internal/transport/http/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// detailRefreshSec 详情页 loading 状态自动刷新间隔
const detailRefreshSec = 2

// ParseTemplates 控制台页面模板，交给 gin.SetHTMLTemplate
func ParseTemplates() (*template.Template, error) {
	return template.New("console").ParseFS(templateFS, "templates/*.html")
}

// UsersAPI 控制台依赖的后端操作（*apiclient.Client 实现）
type UsersAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, in domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type ConsoleOptions struct {
	EmailSuffixes []string
	RenderTimeout time.Duration // <=0 不设截止
}

// ConsoleHandler 列表 / 详情 / 弹窗三个视图
type ConsoleHandler struct {
	api           UsersAPI
	validator     *user.Validator
	guard         *user.SubmitGuard
	renderTimeout time.Duration
	log           *zap.Logger
}

func NewConsoleHandler(api UsersAPI, l *zap.Logger, opt ConsoleOptions) *ConsoleHandler {
	return &ConsoleHandler{
		api:           api,
		validator:     user.NewValidator(opt.EmailSuffixes),
		guard:         user.NewSubmitGuard(),
		renderTimeout: opt.RenderTimeout,
		log:           l,
	}
}

func (h *ConsoleHandler) Priority() int { return 10 }

func (h *ConsoleHandler) MountConsole(g *gin.RouterGroup) {
	g.GET("/", h.list)
	g.GET("/users/new", h.newForm)
	g.POST("/users", h.create)
	g.GET("/users/:id", h.detail)
	g.GET("/users/:id/edit", h.editForm)
	g.POST("/users/:id", h.update)
	g.GET("/users/:id/delete", h.confirmDelete)
	g.POST("/users/:id/delete", h.delete)
}

// page 模板根数据
type page struct {
	Title   string
	Refresh int
	Body    any
}

func (h *ConsoleHandler) ctx(c *gin.Context) context.Context {
	return apiclient.WithRequestID(c.Request.Context(), mdw.GetRequestID(c))
}

func (h *ConsoleHandler) loadList(c *gin.Context) user.ListView {
	us, err := h.api.ListUsers(h.ctx(c))
	if err != nil {
		h.log.Warn("list users failed", zap.String("rid", mdw.GetRequestID(c)), zap.Error(err))
	}
	v := user.NewListView(us, err)
	v.Flash = flashFromRequest(c)
	return v
}

func (h *ConsoleHandler) renderList(c *gin.Context, status int, v user.ListView) {
	c.HTML(status, "list", page{Title: "Users", Body: v})
}

// GET /
func (h *ConsoleHandler) list(c *gin.Context) {
	h.renderList(c, http.StatusOK, h.loadList(c))
}

// GET /users/new  每次都是新表单
func (h *ConsoleHandler) newForm(c *gin.Context) {
	v := h.loadList(c)
	f := user.NewCreateForm()
	f.Token = user.NewToken()
	v.Modal = f
	h.renderList(c, http.StatusOK, v)
}

// GET /users/:id/edit  从列表里取选中用户预填
func (h *ConsoleHandler) editForm(c *gin.Context) {
	v := h.loadList(c)
	if v.Error != "" {
		h.renderList(c, http.StatusBadGateway, v)
		return
	}
	u, ok := v.Find(c.Param("id"))
	if !ok {
		redirectWithFlash(c, "/", user.MsgUserNotFound)
		return
	}
	f := user.NewEditForm(u)
	f.Token = user.NewToken()
	v.Modal = f
	h.renderList(c, http.StatusOK, v)
}

// POST /users
func (h *ConsoleHandler) create(c *gin.Context) {
	f := user.NewCreateForm()
	h.submit(c, f)
}

// POST /users/:id
func (h *ConsoleHandler) update(c *gin.Context) {
	f := &user.Form{Mode: user.ModeEdit, ID: c.Param("id")}
	h.submit(c, f)
}

func (h *ConsoleHandler) submit(c *gin.Context, f *user.Form) {
	if err := c.ShouldBind(f); err != nil {
		f.Error = "invalid form payload"
		h.renderList(c, http.StatusBadRequest, user.ModalView(f))
		return
	}
	// 每个弹窗都带 token；缺失时换发新 token 让用户重新提交
	if strings.TrimSpace(f.Token) == "" {
		f.Token = user.NewToken()
		f.Error = user.MsgFormExpired
		h.renderList(c, http.StatusBadRequest, user.ModalView(f))
		return
	}
	release, ok := h.guard.Begin(f.Token)
	if !ok {
		f.Error = user.MsgSaveInProgress
		h.renderList(c, http.StatusConflict, user.ModalView(f))
		return
	}
	defer release()

	if errs := h.validator.Validate(f); errs != nil {
		h.renderList(c, http.StatusUnprocessableEntity, user.ModalView(f))
		return
	}

	var err error
	if f.Mode == user.ModeEdit {
		_, err = h.api.UpdateUser(h.ctx(c), f.ID, f.Payload())
	} else {
		_, err = h.api.CreateUser(h.ctx(c), f.Payload())
	}
	if err != nil {
		h.log.Error("save user failed",
			zap.String("rid", mdw.GetRequestID(c)),
			zap.String("mode", string(f.Mode)),
			zap.String("id", f.ID),
			zap.Error(err),
		)
		f.Error = "Failed to save user: " + saveMessage(err)
		h.renderList(c, http.StatusBadGateway, user.ModalView(f))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func saveMessage(err error) string {
	var apiErr apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, apiclient.ErrNotFound) {
		return "user no longer exists"
	}
	return "backend unavailable"
}

// GET /users/:id  超过渲染截止仍未返回时显示 loading 并自动刷新
func (h *ConsoleHandler) detail(c *gin.Context) {
	ctx := h.ctx(c)
	if h.renderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.renderTimeout)
		defer cancel()
	}
	u, err := h.api.GetUser(ctx, c.Param("id"))
	pending := err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)

	v := user.ResolveDetail(u, err, pending)
	if v.State == user.DetailError {
		h.log.Warn("load user failed", zap.String("rid", mdw.GetRequestID(c)), zap.String("id", c.Param("id")), zap.Error(err))
	}
	p := page{Title: "User Details", Body: v}
	if v.State == user.DetailLoading {
		p.Refresh = detailRefreshSec
	}
	c.HTML(v.Status(), "detail", p)
}

// GET /users/:id/delete  确认页
func (h *ConsoleHandler) confirmDelete(c *gin.Context) {
	v := h.loadList(c)
	if v.Error != "" {
		h.renderList(c, http.StatusBadGateway, v)
		return
	}
	u, ok := v.Find(c.Param("id"))
	if !ok {
		redirectWithFlash(c, "/", user.MsgUserNotFound)
		return
	}
	v.Confirm = &u
	h.renderList(c, http.StatusOK, v)
}

// POST /users/:id/delete  confirm=yes 才发 DELETE；无论成败都回列表
func (h *ConsoleHandler) delete(c *gin.Context) {
	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	id := c.Param("id")
	if err := h.api.DeleteUser(h.ctx(c), id); err != nil {
		h.log.Error("delete user failed", zap.String("rid", mdw.GetRequestID(c)), zap.String("id", id), zap.Error(err))
		redirectWithFlash(c, "/", "Failed to delete user")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func flashFromRequest(c *gin.Context) string {
	return strings.TrimSpace(c.Query("flash"))
}

func redirectWithFlash(c *gin.Context, target, message string) {
	if strings.TrimSpace(message) == "" {
		c.Redirect(http.StatusSeeOther, target)
		return
	}
	c.Redirect(http.StatusSeeOther, target+"?flash="+url.QueryEscape(message))
}
