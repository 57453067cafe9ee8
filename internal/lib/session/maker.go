// Package session реализует выпуск непрозрачных сессионных токенов.
//
// Токен состоит из случайной части (uuid) и метки времени выпуска,
// поэтому на практике два выпуска никогда не совпадают. Токен
// непредсказуем для третьей стороны и не несёт в себе данных:
// валидность определяется только записью на пользователе.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Maker описывает интерфейс выпуска сессионных токенов.
type Maker interface {
	// Issue возвращает новый токен и момент его выпуска.
	Issue() (token string, issuedAt time.Time)
}

// MakerImpl реализует Maker поверх генератора uuid.
type MakerImpl struct{}

// NewMaker создаёт новый экземпляр MakerImpl.
func NewMaker() *MakerImpl {
	return &MakerImpl{}
}

// Issue генерирует токен вида "<uuid>.<unix-nano>".
func (m *MakerImpl) Issue() (string, time.Time) {
	now := time.Now().UTC()
	token := fmt.Sprintf("%s.%d", uuid.NewString(), now.UnixNano())
	return token, now
}
