package errs

var (
	SystemError       = ErrorCode{Code: 512001, Msg: "系统错误"}
	OrderNotFound     = ErrorCode{Code: 512002, Msg: "订单不存在"}
	InvalidTransition = ErrorCode{Code: 512003, Msg: "订单状态流转非法"}
	Unauthorized      = ErrorCode{Code: 512004, Msg: "无权操作"}
	InvalidInput      = ErrorCode{Code: 512005, Msg: "参数非法"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
