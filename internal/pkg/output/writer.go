package output

import "io"

// Writer определяет интерфейс для форматирования результатов команд.
// Реализации: JSONWriter, TextWriter.
type Writer interface {
	// Write форматирует result и записывает в w.
	Write(w io.Writer, result *Result) error
}

// TextRenderer реализуется данными команд, у которых есть собственный
// человекочитаемый вид. Остальные данные TextWriter выводит как JSON.
type TextRenderer interface {
	WriteText(w io.Writer) error
}
