// Package entitlement вычисляет, сколько вопросов викторины положено
// пользователю в ответ на запрос.
//
// Правила:
//   - без активной подписки выдаётся фиксированный минимум FreeQuestions,
//     независимо от запрошенного количества;
//   - с активной подпиской запрошенное количество выдаётся только если оно
//     входит в AllowedCounts; любое другое значение откатывается к минимуму.
//
// Откат к минимуму для подписчика, запросившего значение вне набора, —
// намеренное поведение: проверка членства, а не ограничение диапазона.
package entitlement

import "time"

// FreeQuestions — количество вопросов без активной подписки.
const FreeQuestions = 15

// AllowedCounts — допустимые размеры запроса для подписчика.
var AllowedCounts = map[int]struct{}{
	25:  {},
	50:  {},
	100: {},
}

// Resolve возвращает количество вопросов, положенное пользователю.
//
// subscriptionEnd — момент окончания подписки (nil, если подписки не было),
// requested — запрошенное количество, now — текущий момент. Подписка,
// истекающая ровно в now, считается неактивной. Функция чистая: без
// побочных эффектов и обращений к хранилищу.
func Resolve(subscriptionEnd *time.Time, requested int, now time.Time) int {
	subscribed := subscriptionEnd != nil && subscriptionEnd.After(now)
	if !subscribed {
		return FreeQuestions
	}
	if _, ok := AllowedCounts[requested]; ok {
		return requested
	}
	return FreeQuestions
}
