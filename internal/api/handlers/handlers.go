package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Машинные коды ошибок в теле ответа
const (
	CodeValidation            = "validation_error"
	CodeNoQualifiedBeautician = "no_qualified_beautician"
	CodeNoAvailability        = "no_availability"
	CodeSlotConflict          = "slot_conflict"
	CodeUpstreamUnavailable   = "upstream_unavailable"
	CodeNotFound              = "not_found"
	CodeForbidden             = "forbidden"
	CodeUnauthorized          = "unauthorized"
	CodeRateLimited           = "rate_limited"
	CodeInternal              = "internal_error"
)

const (
	maxBodyBytes = 1 << 20

	msgInternalError = "внутренняя ошибка сервера"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondJSON пишет JSON-ответ. data = nil - пустое тело.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondCodedError пишет ошибку с машинным кодом
func RespondCodedError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// RespondError пишет ошибку, код выводится из HTTP-статуса
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondCodedError(w, status, codeForStatus(status), message)
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondCodedError(w, http.StatusBadRequest, CodeValidation, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondCodedError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondCodedError(w, http.StatusForbidden, CodeForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondCodedError(w, http.StatusNotFound, CodeNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondCodedError(w, http.StatusConflict, CodeSlotConflict, message)
}

// RespondUnprocessable 422 с уточняющим кодом (no_availability, no_qualified_beautician)
func RespondUnprocessable(w http.ResponseWriter, code, message string) {
	RespondCodedError(w, http.StatusUnprocessableEntity, code, message)
}

func RespondServiceUnavailable(w http.ResponseWriter, message string) {
	RespondCodedError(w, http.StatusServiceUnavailable, CodeUpstreamUnavailable, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondCodedError(w, http.StatusInternalServerError, CodeInternal, msgInternalError)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeSlotConflict
	case http.StatusTooManyRequests:
		return CodeRateLimited
	case http.StatusServiceUnavailable:
		return CodeUpstreamUnavailable
	default:
		return CodeInternal
	}
}

// DecodeJSON декодирует тело запроса, неизвестные поля - ошибка
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return err
	}
	return nil
}

// ParseIDList разбирает "1,2,3" в список положительных ID
func ParseIDList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty id list")
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseOptionalID разбирает необязательный положительный ID
func ParseOptionalID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid id %q", raw)
	}
	return &id, nil
}

// ParseDate разбирает календарную дату YYYY-MM-DD.
// Сравнение с "сегодня" идет по компонентам даты, поэтому зона не важна.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(domain.DateFormat, strings.TrimSpace(raw))
}
