package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTokenInvalid:    "无效的认证令牌",
	ErrTooManyRequests: "请求频率过高",
	ErrTenantMismatch:  "无权访问该资源",

	// 用户相关错误码
	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "邮箱或密码错误",

	// 屏幕相关错误码
	ErrScreenNotFound:         "屏幕不存在",
	ErrScreenAlreadyExist:     "设备标识已被占用",
	ErrScreenOffline:          "屏幕当前离线",
	ErrConnectionTokenInvalid: "设备连接令牌无效",

	// 内容相关错误码
	ErrMediaNotFound:    "媒体不存在",
	ErrFolderNotFound:   "文件夹不存在",
	ErrPlaylistNotFound: "播放列表不存在",
	ErrScheduleNotFound: "排期不存在",

	// AI相关错误码
	ErrAILimitExceeded: "本月 AI 限额已用完",
	ErrAIUpstream:      "AI 服务暂时不可用",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,
	ErrTenantMismatch:  StatusForbidden,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusConflict,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// 屏幕相关错误码
	ErrScreenNotFound:         StatusNotFound,
	ErrScreenAlreadyExist:     StatusConflict,
	ErrScreenOffline:          StatusBadRequest,
	ErrConnectionTokenInvalid: StatusUnauthorized,

	// 内容相关错误码
	ErrMediaNotFound:    StatusNotFound,
	ErrFolderNotFound:   StatusNotFound,
	ErrPlaylistNotFound: StatusNotFound,
	ErrScheduleNotFound: StatusNotFound,

	// AI相关错误码
	ErrAILimitExceeded: StatusTooManyRequests,
	ErrAIUpstream:      StatusBadGateway,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
