package errors

import "errors"

// Custom application errors
var (
	ErrInterviewNotFound = errors.New("找不到該面試資料")       // Interview not found (or not owned by requester)
	ErrInvalidDateTime   = errors.New("無效的日期或時間格式")      // Invalid date/time format from user input
	ErrInvalidField      = errors.New("無效的欄位")           // Unknown or empty field in a command
	ErrInvalidRecipient  = errors.New("無效的收件人識別碼")       // Recipient identifier failed format validation
	ErrDatabaseOperation = errors.New("資料庫操作失敗")         // Generic database error
	ErrLineAPI           = errors.New("LINE API 呼叫失敗")   // Generic LINE API error
	ErrUnauthorized      = errors.New("驗證金鑰錯誤")          // Trigger key mismatch
	ErrNotConfigured     = errors.New("服務尚未設定完成")        // Required external endpoints unconfigured
	ErrPastDateTime      = errors.New("面試時間不能是過去的時間")    // Interview scheduled in the past
	ErrInternalServer    = errors.New("內部伺服器錯誤")         // Generic internal error
)
