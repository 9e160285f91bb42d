// Package constants содержит константы, используемые в проекте apk-files.
// Константы сгруппированы по функциональному назначению.
package constants

// Константы сообщений приложения
const (
	// MsgAppExit - сообщение о завершении работы программы
	MsgAppExit = "Завершение работы программы"
	// MsgErrProcessing - сообщение об обработке ошибки
	MsgErrProcessing = "Обработка ошибки"
)

// AppName - имя приложения в логах, трейсах и метриках.
const AppName = "apk-files"

// APIVersion - версия формата машиночитаемого вывода.
const APIVersion = "v1"

// Константы действий (команд)
const (
	// ActCopy - копирование файла
	ActCopy = "copy"
	// ActMove - перемещение файла
	ActMove = "move"
	// ActDelete - удаление файла
	ActDelete = "delete"
	// ActFind - поиск файлов по маске
	ActFind = "find"
	// ActMkdir - создание директории
	ActMkdir = "mkdir"
	// ActRmdir - удаление директории
	ActRmdir = "rmdir"
	// ActStat - сведения о файле
	ActStat = "stat"
	// ActSign - подпись файлов
	ActSign = "sign"
	// ActVerify - проверка подписей
	ActVerify = "verify"
	// ActVersion - версия приложения
	ActVersion = "version"
	// ActHelp - список команд
	ActHelp = "help"
)

// Коды завершения процесса.
const (
	// ExitOK - успешное завершение
	ExitOK = 0
	// ExitUnknownCommand - команда не найдена в реестре
	ExitUnknownCommand = 2
	// ExitConfig - ошибка загрузки конфигурации
	ExitConfig = 5
	// ExitCommandFailed - команда завершилась с ошибкой
	ExitCommandFailed = 8
	// ExitFatal - фатальная ошибка открытия файла (ReadNoFail / WriteNoFail)
	ExitFatal = ExitCommandFailed
)

// Переменные окружения режимов выполнения.
const (
	// EnvDryRun - вывод плана операций без выполнения
	EnvDryRun = "BR_DRY_RUN"
	// EnvOutputFormat - формат вывода результата (text, json)
	EnvOutputFormat = "BR_OUTPUT_FORMAT"
	// EnvConfigFile - путь к YAML-файлу конфигурации
	EnvConfigFile = "BR_CONFIG_FILE"
)

// DefaultSignatureManifest - имя манифеста подписей относительно корня.
const DefaultSignatureManifest = ".apk-signatures.yaml"
