package apimodels

import (
	"github.com/shopspring/decimal"
	"trip-approval-backend/lib/apperrors"
)

type Response struct {
	Status       string           `json:"status"`                  //результат обработки fail/success
	Message      string           `json:"message,omitempty"`       //сообщение ошибки
	Data         interface{}      `json:"data,omitempty"`          //данные ответа
	BudgetExcess *decimal.Decimal `json:"budget_excess,omitempty"` //превышение бюджета, для BUDGET_EXCEEDED
	RequestID    string           `json:"request_id,omitempty"`    //заявка, на которой прервана массовая операция
	ErrorKind    apperrors.Kind   `json:"error_kind,omitempty"`    //тип ошибки
}

type ScrollerResponse struct {
	Response
	RowCount int64 `json:"row_count,omitempty"` //для списков, общее кол-во записей, учитывая фильтр (если он есть)
}

func NewError(message string) Response {
	return Response{
		Status:  "fail",
		Message: message,
	}
}

// NewAppError ответ по доменной ошибке с доп. полями
func NewAppError(err *apperrors.Error) Response {
	return Response{
		Status:       "fail",
		Message:      err.Error(),
		BudgetExcess: err.BudgetExcess,
		RequestID:    err.RequestID,
		ErrorKind:    err.Kind,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

type Pagination struct {
	Limit int `json:"limit"` // Записей на странице
	Page  int `json:"page"`  // Страница (1,2,3..)
}

func (r Pagination) Validate() error {
	return nil
}

func (r Pagination) GetPage() (page, limit int) {
	page = 1
	limit = 10
	if r.Page > 0 {
		page = r.Page
	}
	if r.Limit > 0 {
		limit = r.Limit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func NewScrollerResponse(data interface{}, rowCount int64) ScrollerResponse {
	return ScrollerResponse{
		Response: Response{
			Status: "success",
			Data:   data,
		},
		RowCount: rowCount,
	}
}
