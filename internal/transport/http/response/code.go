package response

// 错误码直接沿用 HTTP 语义
const (
	CodeOK             = 0
	CodeBadRequest     = 400
	CodeNotFound       = 404
	CodeTooLarge       = 413
	CodeTooManyRequest = 429
	CodeServerError    = 500
	CodeUnavailable    = 503
	CodeTimeout        = 504
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:             "OK",
	CodeBadRequest:     "Bad Request",
	CodeNotFound:       "Not Found",
	CodeTooLarge:       "Request Entity Too Large",
	CodeTooManyRequest: "Too Many Requests",
	CodeServerError:    "Internal Server Error",
	CodeUnavailable:    "Service Unavailable",
	CodeTimeout:        "Gateway Timeout",
}

// HTTPStatus 错误码到 HTTP 状态；未知码按 500
func HTTPStatus(code int) int {
	if code == CodeOK {
		return 200
	}
	if _, ok := CodeMsgMap[code]; ok {
		return code
	}
	return 500
}
