// Package apperr содержит доменные ошибки приложения.
//
// Ошибки объявлены как сентинелы: сервисы оборачивают их через fmt.Errorf
// с %w, а HTTP-обработчики сопоставляют через errors.Is и переводят
// в коды ответов.
package apperr

import "errors"

var (
	// ErrValidation — входные данные не прошли проверку.
	ErrValidation = errors.New("validation failed")

	// ErrUserExists — пользователь с таким именем уже зарегистрирован.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials — неверное имя пользователя или пароль.
	// Обработчики не различают эти два случая в ответе.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNotFound — пользователь не найден в хранилище.
	ErrUserNotFound = errors.New("user not found")

	// ErrCourseNotFound — курс отсутствует в каталоге или не содержит вопросов.
	ErrCourseNotFound = errors.New("course not found")

	// ErrUnknownPlan — запрошенный срок подписки не входит в таблицу тарифов.
	ErrUnknownPlan = errors.New("unknown subscription plan")

	// ErrGateway — платёжный провайдер недоступен или вернул ошибку.
	ErrGateway = errors.New("payment gateway error")

	// ErrVerification — транзакция не подтверждена: оплата не завершена
	// или метаданные не совпадают с запросом.
	ErrVerification = errors.New("payment verification failed")
)
