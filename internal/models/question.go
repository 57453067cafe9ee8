package models

// Question представляет один вопрос викторины из статического каталога.
// Каталог только для чтения: записи группируются по имени курса
// и никогда не изменяются после загрузки.
type Question struct {
	Question string   `json:"question"`          // Текст вопроса
	Options  []string `json:"options"`           // Варианты ответа, от 3 до 5
	Correct  string   `json:"correct,omitempty"` // Текст правильного варианта
}
