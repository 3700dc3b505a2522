package errors

import stderrors "errors"

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// WithMessage 返回同错误码、不同提示信息的副本，用于携带字段级校验信息。
func (d Definition) WithMessage(message string) Definition {
	d.Message = message
	return d
}

// Is 按错误码比较，使 errors.Is 对 WithMessage 产生的副本同样生效。
func (d Definition) Is(target error) bool {
	var t Definition
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == d.Code
}

// 通用错误。
var (
	InvalidRequest  = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	Unauthorized    = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidUserID   = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, please try again later"}
	InternalError   = Definition{Code: "INTERNAL_ERROR", Message: "Internal server error"}
)

// 用户模块错误。
var (
	UserNotFound       = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
	UserProfileInvalid = Definition{Code: "USER_PROFILE_INVALID", Message: "Invalid user profile"}
	UserAlreadyExists  = Definition{Code: "USER_ALREADY_EXISTS", Message: "Username or email already in use"}
)

// 打卡记录模块错误。
var (
	WellnessEntryInvalid = Definition{Code: "INVALID_WELLNESS_ENTRY", Message: "Invalid wellness entry"}
	DateRangeInvalid     = Definition{Code: "INVALID_DATE_RANGE", Message: "Invalid date range"}
	DuplicateSubmission  = Definition{Code: "DUPLICATE_SUBMISSION", Message: "This submission was already received"}
	PersistenceFailed    = Definition{Code: "PERSISTENCE_FAILED", Message: "Failed to save data, please try again"}
	QueryFailed          = Definition{Code: "QUERY_FAILED", Message: "Failed to load data, please try again"}
)

// 对话模块错误。
var (
	ChatMessageRequired = Definition{Code: "CHAT_MESSAGE_REQUIRED", Message: "Message is required"}
	ChatMessageTooLong  = Definition{Code: "CHAT_MESSAGE_TOO_LONG", Message: "Message is too long"}
)

// SkipMessageError 表示消息无需处理（重复投递等），消费者直接 ack。
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return "skip message: " + e.Reason
}
