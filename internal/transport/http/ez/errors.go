package ez

import (
	"errors"
	"fmt"

	resp "user-console/internal/transport/http/response"
)

// HTTPError handler 返回的业务错误；Err 仅用于日志
type HTTPError struct {
	Code int
	Msg  string
	Err  error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *HTTPError) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &HTTPError{Code: resp.CodeBadRequest, Msg: msg} }

func NotFound(msg string) error { return &HTTPError{Code: resp.CodeNotFound, Msg: msg} }

func TooLarge(msg string) error { return &HTTPError{Code: resp.CodeTooLarge, Msg: msg} }

func Internal(msg string, err error) error {
	return &HTTPError{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// asHTTPError 未包装的错误一律按 500
func asHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return &HTTPError{Code: resp.CodeServerError, Msg: "internal error", Err: err}
}
