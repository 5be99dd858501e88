package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrValidation используется для ошибок валидации входных данных
	// (часы занятий вне допустимого диапазона, неизвестный экзамен, кривая дата).
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (повторная вставка уникальной записи).
	ErrConflict = errors.New("resource state conflict")
)
