// Package billing содержит тарифную таблицу подписки и правила расчёта
// срока действия оплаченного периода.
package billing

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/quiz-platform/internal/apperr"
)

// DaysPerBillingMonth — длина расчётного месяца подписки.
// Период считается фиксированными 30-дневными месяцами, не календарными;
// замена на календарную арифметику не должна трогать вызывающий код.
const DaysPerBillingMonth = 30

// PlanPrices — таблица тарифов: размер плана в месяцах → цена в минорных
// единицах валюты. Таблица закрытая: размер плана вне таблицы отклоняется,
// а не приводится к ближайшему тарифу.
var PlanPrices = map[int]int{
	1: 150000,
	3: 400000,
}

// PriceFor возвращает цену плана в минорных единицах.
// Для размера плана вне тарифной таблицы возвращает apperr.ErrUnknownPlan.
func PriceFor(months int) (int, error) {
	price, ok := PlanPrices[months]
	if !ok {
		return 0, fmt.Errorf("%w: %d months", apperr.ErrUnknownPlan, months)
	}
	return price, nil
}

// Expiry вычисляет момент окончания подписки: now плюс months расчётных
// месяцев. Предыдущий срок не участвует в расчёте: продление перезаписывает
// окно подписки, а не наращивает его.
func Expiry(now time.Time, months int) time.Time {
	return now.Add(time.Duration(months) * DaysPerBillingMonth * 24 * time.Hour)
}
