package filer

// Option представляет функциональную опцию для настройки конфигурации файловой системы.
type Option func(*Config)

// WithDiskFS настраивает файловую систему для работы с диском.
// Если basePath пустой, используется текущая рабочая директория.
func WithDiskFS(basePath string) Option {
	return func(c *Config) {
		c.Type = DiskFS
		c.BasePath = basePath
	}
}

// WithMemoryFS настраивает файловую систему в памяти с корнем root.
func WithMemoryFS(root string) Option {
	return func(c *Config) {
		c.Type = MemoryFS
		c.BasePath = root
	}
}

// NewConfig создает новую конфигурацию с применением опций.
func NewConfig(options ...Option) Config {
	config := DefaultConfig()
	for _, option := range options {
		option(&config)
	}
	return config
}
