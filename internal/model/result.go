package model

import "errors"

const unexpectedErrorText = "An unexpected error occurred"

// Result конверт ответа для изменяющих операций.
// При ошибке вызывающий код может рассчитывать только на Success и Error.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	ID      string `json:"id,omitempty"`
}

// OK успешный результат; id опционален
func OK(id ...string) Result {
	res := Result{Success: true}
	if len(id) > 0 {
		res.ID = id[0]
	}
	return res
}

// ResultOf переводит ошибку операции в конверт с однострочным сообщением для пользователя
func ResultOf(err error) Result {
	if err == nil {
		return OK()
	}
	return Result{Success: false, Error: ErrorText(err)}
}

// ErrorText возвращает человекочитаемую причину ошибки
func ErrorText(err error) string {
	var (
		vErr   *ValidationError
		nfErr  *NotFoundError
		refErr *ReferenceError
	)
	switch {
	case errors.As(err, &vErr):
		return vErr.Error()
	case errors.As(err, &nfErr):
		return nfErr.Error()
	case errors.As(err, &refErr):
		return refErr.Error()
	case errors.Is(err, ErrNotFound):
		return "Record not found"
	case errors.Is(err, ErrReference):
		return "Referenced record does not exist"
	case errors.Is(err, ErrDuplicateKey):
		return "Record already exists"
	case errors.Is(err, ErrStoreUnavailable):
		return "Storage is unavailable, please try again later"
	default:
		return unexpectedErrorText
	}
}
