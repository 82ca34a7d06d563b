package apperrors

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	NotFoundKind       Kind = "NOT_FOUND"
	ForbiddenKind      Kind = "FORBIDDEN"
	ValidationKind     Kind = "VALIDATION"
	BudgetExceededKind Kind = "BUDGET_EXCEEDED"
	ConflictKind       Kind = "CONFLICT"
	// UnavailableKind транзакция прервана по таймауту, запрос можно повторить
	UnavailableKind Kind = "UNAVAILABLE"
)

// Error доменная ошибка; координатор отдает ее вызывающему без изменений
type Error struct {
	Kind         Kind
	Message      string
	RequestID    string
	BudgetExcess *decimal.Decimal
}

func (e *Error) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s (заявка %s)", e.Message, e.RequestID)
	}
	return e.Message
}

func (e *Error) Retryable() bool {
	return e.Kind == UnavailableKind
}

// ForRequest копия ошибки с указанием заявки, для массовых операций
func (e *Error) ForRequest(requestID string) *Error {
	c := *e
	c.RequestID = requestID
	return &c
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: NotFoundKind, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: ForbiddenKind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: ValidationKind, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: ConflictKind, Message: fmt.Sprintf(format, args...)}
}

func Unavailable(format string, args ...any) *Error {
	return &Error{Kind: UnavailableKind, Message: fmt.Sprintf(format, args...)}
}

func BudgetExceeded(excess decimal.Decimal) *Error {
	return &Error{
		Kind:         BudgetExceededKind,
		Message:      fmt.Sprintf("превышен бюджет проекта на %s", excess.StringFixed(2)),
		BudgetExcess: &excess,
	}
}

// As извлекает доменную ошибку из цепочки обертки
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

var kindStatus = map[Kind]int{
	NotFoundKind:       http.StatusNotFound,
	ForbiddenKind:      http.StatusForbidden,
	ValidationKind:     http.StatusBadRequest,
	BudgetExceededKind: http.StatusUnprocessableEntity,
	ConflictKind:       http.StatusConflict,
	UnavailableKind:    http.StatusServiceUnavailable,
}

// HTTPStatus ошибки без типа считаются внутренними
func HTTPStatus(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if status, exist := kindStatus[appErr.Kind]; exist {
		return status
	}
	return http.StatusInternalServerError
}
