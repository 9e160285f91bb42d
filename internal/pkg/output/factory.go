package output

import "strings"

// FormatJSON и FormatText - поддерживаемые форматы вывода.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// NewWriter создаёт Writer по указанному формату (без учёта регистра).
// При неизвестном формате возвращает TextWriter.
func NewWriter(format string) Writer {
	if strings.EqualFold(format, FormatJSON) {
		return NewJSONWriter()
	}
	return NewTextWriter()
}

// IsJSON сообщает, запрошен ли машиночитаемый вывод.
func IsJSON(format string) bool {
	return strings.EqualFold(format, FormatJSON)
}
