// Package models содержит доменную модель пользователя системы,
// включающую учётные данные, состояние подписки и текущую сессию.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Поля подписки и сессии nullable: nil означает "никогда не подписывался"
// и "нет активной сессии" соответственно. На пользователя приходится
// не более одной живой сессии: повторный вход перезаписывает токен.
type User struct {
	UID                string     // Уникальный идентификатор пользователя
	Username           string     // Имя пользователя (уникальное)
	PasswordHash       string     // Хэш пароля пользователя
	SubscriptionEnd    *time.Time // Момент окончания оплаченной подписки
	SubscriptionMonths *int       // Размер последнего оплаченного плана в месяцах
	SessionToken       *string    // Токен текущей сессии
	SessionIssuedAt    *time.Time // Момент выдачи токена
}

// IsSubscribed сообщает, активна ли подписка пользователя на момент now.
// Граница строгая: подписка, истекающая ровно в now, уже неактивна.
func (u *User) IsSubscribed(now time.Time) bool {
	return u.SubscriptionEnd != nil && u.SubscriptionEnd.After(now)
}
