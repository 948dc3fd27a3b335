package errprocess

import (
	"errors"
	"fmt"

	"chat_relay_service/pkg/logger"
)

// Kind 錯誤分類
type Kind string

const (
	// KindValidation 請求欄位缺失或格式錯誤
	KindValidation Kind = "validation"
	// KindAuthorization 非房間成員操作房間資源
	KindAuthorization Kind = "authorization"
	// KindPersistence 資料庫寫入失敗
	KindPersistence Kind = "persistence"
)

// Error 帶分類的錯誤，caller 依 Kind 決定回覆或沉默
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap return the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation create ValidationError
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// Authorization create AuthorizationError
func Authorization(msg string) error {
	return &Error{Kind: KindAuthorization, Msg: msg}
}

// Persistence create PersistenceError, wrap db cause
func Persistence(msg string, cause error) error {
	return &Error{Kind: KindPersistence, Msg: msg, Cause: cause}
}

// IsKind check error kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}
