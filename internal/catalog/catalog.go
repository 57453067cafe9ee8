// Package catalog реализует статический каталог вопросов викторины.
//
// Каталог загружается один раз при старте процесса из JSON-файла вида
// {"курс": [{question, options, correct}, ...]} и после загрузки не
// изменяется. Доступ к данным идёт через read-only интерфейс Catalog,
// чтобы в тестах каталог можно было подменить без файла.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/magabrotheeeer/quiz-platform/internal/models"
)

// Catalog описывает read-only доступ к банку вопросов.
type Catalog interface {
	// Questions возвращает вопросы курса в исходном порядке.
	// Второе значение false, если курса в каталоге нет.
	Questions(course string) ([]models.Question, bool)
	// Courses возвращает отсортированный список имён курсов.
	Courses() []string
}

// FileCatalog — каталог, загруженный из JSON-файла.
type FileCatalog struct {
	courses map[string][]models.Question
}

// Load читает и проверяет файл каталога.
//
// Записи с пустым текстом вопроса, числом вариантов вне 3..5 или полем
// correct, не совпадающим ни с одним вариантом, отклоняются целиком:
// лучше не подняться, чем раздавать битые вопросы.
func Load(path string) (*FileCatalog, error) {
	const op = "catalog.Load"

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var courses map[string][]models.Question
	if err := json.Unmarshal(raw, &courses); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for course, questions := range courses {
		for i, q := range questions {
			if q.Question == "" {
				return nil, fmt.Errorf("%s: course %q question %d: empty prompt", op, course, i)
			}
			if len(q.Options) < 3 || len(q.Options) > 5 {
				return nil, fmt.Errorf("%s: course %q question %d: %d options, want 3..5",
					op, course, i, len(q.Options))
			}
			if !slices.Contains(q.Options, q.Correct) {
				return nil, fmt.Errorf("%s: course %q question %d: correct answer not among options",
					op, course, i)
			}
		}
	}

	return &FileCatalog{courses: courses}, nil
}

// NewFromMap создаёт каталог из готовой карты. Используется в тестах.
func NewFromMap(courses map[string][]models.Question) *FileCatalog {
	return &FileCatalog{courses: courses}
}

// Questions возвращает вопросы курса в исходном порядке.
func (c *FileCatalog) Questions(course string) ([]models.Question, bool) {
	questions, ok := c.courses[course]
	return questions, ok
}

// Courses возвращает отсортированный список имён курсов.
func (c *FileCatalog) Courses() []string {
	names := make([]string, 0, len(c.courses))
	for name := range c.courses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
