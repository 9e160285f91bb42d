// Package config загружает конфигурацию apk-files.
//
// Источники в порядке приоритета:
//  1. переменные окружения BR_*;
//  2. YAML-файл, указанный в BR_CONFIG_FILE (секции fileio, logging, metrics, tracing);
//  3. значения по умолчанию (env-default).
package config

// InputParams содержит имя команды и её параметры.
// Заполняется только из переменных окружения.
type InputParams struct {
	// Command - имя выполняемой команды (copy, move, find, ...).
	Command string `env:"BR_COMMAND"`

	// ConfigFile - путь к YAML-файлу конфигурации.
	ConfigFile string `env:"BR_CONFIG_FILE"`

	// OutputFormat - формат результата команды (text, json).
	OutputFormat string `env:"BR_OUTPUT_FORMAT" env-default:"text"`

	// Source - исходный путь (copy, move, delete, stat, sign, verify, rmdir, mkdir).
	Source string `env:"BR_SOURCE"`

	// Dest - путь назначения (copy, move).
	Dest string `env:"BR_DEST"`

	// Pattern - маска поиска для find (*, ?, [...]).
	Pattern string `env:"BR_PATTERN"`

	// Extension - расширение для find; взаимоисключающе с Pattern.
	Extension string `env:"BR_EXTENSION"`

	// Replace - заменять существующий файл назначения.
	Replace bool `env:"BR_REPLACE" env-default:"false"`

	// EvenIfReadOnly - снимать атрибут "только чтение" с файла назначения.
	EvenIfReadOnly bool `env:"BR_EVEN_IF_READ_ONLY" env-default:"false"`

	// PreserveAttributes - переносить атрибут "только чтение" при копировании.
	PreserveAttributes bool `env:"BR_PRESERVE_ATTRIBUTES" env-default:"false"`

	// NoRetry - не повторять неудачное перемещение.
	NoRetry bool `env:"BR_NO_RETRY" env-default:"false"`

	// RequireExists - отсутствие файла или директории считается ошибкой.
	RequireExists bool `env:"BR_REQUIRE_EXISTS" env-default:"false"`

	// Tree - рекурсивно для mkdir/rmdir.
	Tree bool `env:"BR_TREE" env-default:"false"`

	// Recursive - рекурсивный поиск для find.
	Recursive bool `env:"BR_RECURSIVE" env-default:"false"`

	// FindFiles, FindDirs - что включать в результат find.
	FindFiles bool `env:"BR_FIND_FILES" env-default:"true"`
	FindDirs  bool `env:"BR_FIND_DIRS" env-default:"false"`

	// Progress - копировать блоками с отображением прогресса.
	Progress bool `env:"BR_PROGRESS" env-default:"false"`
}

// AppConfig - содержимое YAML-файла конфигурации.
type AppConfig struct {
	FileIO  FileIOConfig  `yaml:"fileio"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// Config - итоговая конфигурация приложения.
type Config struct {
	InputParams

	// AppConfig - разобранный YAML-файл или nil, если BR_CONFIG_FILE не задан.
	AppConfig *AppConfig

	FileIOConfig  *FileIOConfig
	LoggingConfig *LoggingConfig
	MetricsConfig *MetricsConfig
	TracingConfig *TracingConfig
}
