package command

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"sync"
)

// Ошибки регистрации команд.
var (
	ErrNilHandler       = errors.New("command: nil handler")
	ErrInvalidName      = errors.New("command: имя команды должно быть в kebab-case")
	ErrDuplicateHandler = errors.New("command: команда уже зарегистрирована")
)

// Имя: буква, затем группы [a-z0-9] через одиночный дефис.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Registry сопоставляет значение BR_COMMAND обработчику.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register добавляет обработчик. Повторное имя считается ошибкой.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return ErrNilHandler
	}
	name := h.Name()
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.handlers[name]; taken {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, name)
	}
	r.handlers[name] = h
	return nil
}

// Get ищет обработчик по имени.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Names возвращает имена команд по алфавиту.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.handlers))
}

// Handlers возвращает обработчики в порядке Names.
func (r *Registry) Handlers() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Handler, 0, len(r.handlers))
	for _, name := range slices.Sorted(maps.Keys(r.handlers)) {
		out = append(out, r.handlers[name])
	}
	return out
}

// defaultRegistry заполняется RegisterCmd() пакетов-обработчиков:
//
//	func RegisterCmd() error {
//	    return command.Register(&Handler{})
//	}
var defaultRegistry = NewRegistry()

// Register добавляет обработчик в общий реестр приложения.
func Register(h Handler) error { return defaultRegistry.Register(h) }

// Get ищет обработчик в общем реестре.
func Get(name string) (Handler, bool) { return defaultRegistry.Get(name) }

// Names возвращает имена команд общего реестра.
func Names() []string { return defaultRegistry.Names() }

// Handlers возвращает обработчики общего реестра.
func Handlers() []Handler { return defaultRegistry.Handlers() }
