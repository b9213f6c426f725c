package ez

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "user-console/internal/transport/http/middleware"
	resp "user-console/internal/transport/http/response"
)

type Binder int

const (
	BindNone Binder = iota
	BindJSON
	BindQuery
)

// Action 一个 REST 动作：绑定 -> 处理 -> 按 Status 输出裸 JSON
type Action[In any, Out any] struct {
	Method  string
	Path    string
	Binder  Binder
	Status  int // 成功状态码，默认 200
	Handler func(c *gin.Context, in *In) (Out, error)
}

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

func RegisterAction[In any, Out any](e EZ, a Action[In, Out]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	e.g.Handle(a.Method, a.Path, func(c *gin.Context) {
		var in In
		if err := bind(c, a.Binder, &in); err != nil {
			e.fail(c, err)
			return
		}
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		c.JSON(status, out)
	})
}

func bind(c *gin.Context, b Binder, in any) error {
	var err error
	switch b {
	case BindJSON:
		err = c.ShouldBindJSON(in)
	case BindQuery:
		err = c.ShouldBindQuery(in)
	default:
		return nil
	}
	if err == nil {
		return nil
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return TooLarge("request body too large")
	}
	return BadRequest(err.Error())
}

func (e EZ) fail(c *gin.Context, err error) {
	he := asHTTPError(err)
	if he.Code >= resp.CodeServerError {
		_ = c.Error(err)
		e.log.Error("action failed",
			zap.String("path", c.FullPath()),
			zap.String("rid", mdw.GetRequestID(c)),
			zap.Error(err),
		)
	}
	resp.Abort(c, he.Code, he.Msg)
}
