package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusConflict - 409: 资源冲突.
	StatusConflict = 409
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusBadGateway - 502: 上游服务错误.
	StatusBadGateway = 502
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
	// ErrTenantMismatch - 403: 资源不属于当前租户.
	ErrTenantMismatch
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 409: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户密码错误.
	ErrUserPasswordIncorrect
)

// 屏幕相关错误码 (102xxx).
const (
	// ErrScreenNotFound - 404: 屏幕不存在.
	ErrScreenNotFound int = iota + 102000
	// ErrScreenAlreadyExist - 409: 设备标识已被占用.
	ErrScreenAlreadyExist
	// ErrScreenOffline - 400: 屏幕离线.
	ErrScreenOffline
	// ErrConnectionTokenInvalid - 401: 设备连接令牌无效.
	ErrConnectionTokenInvalid
)

// 内容相关错误码 (103xxx).
const (
	// ErrMediaNotFound - 404: 媒体不存在.
	ErrMediaNotFound int = iota + 103000
	// ErrFolderNotFound - 404: 文件夹不存在.
	ErrFolderNotFound
	// ErrPlaylistNotFound - 404: 播放列表不存在.
	ErrPlaylistNotFound
	// ErrScheduleNotFound - 404: 排期不存在.
	ErrScheduleNotFound
)

// AI相关错误码 (104xxx).
const (
	// ErrAILimitExceeded - 429: 租户AI限额已用完.
	ErrAILimitExceeded int = iota + 104000
	// ErrAIUpstream - 502: AI上游服务错误.
	ErrAIUpstream
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
