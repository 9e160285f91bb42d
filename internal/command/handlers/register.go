// Package handlers provides explicit registration of all command handlers.
// Handlers are registered from main() instead of init(), which keeps the
// dependency graph explicit and free of import side effects.
package handlers

import (
	"github.com/Kargones/apk-files/internal/command/handlers/copyhandler"
	"github.com/Kargones/apk-files/internal/command/handlers/deletehandler"
	"github.com/Kargones/apk-files/internal/command/handlers/dirhandler"
	"github.com/Kargones/apk-files/internal/command/handlers/findhandler"
	"github.com/Kargones/apk-files/internal/command/handlers/help"
	"github.com/Kargones/apk-files/internal/command/handlers/movehandler"
	"github.com/Kargones/apk-files/internal/command/handlers/signhandler"
	"github.com/Kargones/apk-files/internal/command/handlers/stathandler"
	"github.com/Kargones/apk-files/internal/command/handlers/version"
)

// registrars lists RegisterCmd of every handler package.
var registrars = []func() error{
	copyhandler.RegisterCmd,
	movehandler.RegisterCmd,
	deletehandler.RegisterCmd,
	findhandler.RegisterCmd,
	dirhandler.RegisterCmd,
	stathandler.RegisterCmd,
	signhandler.RegisterCmd,
	version.RegisterCmd,
	help.RegisterCmd,
}

// RegisterAll explicitly registers all command handlers in the global registry.
// Call this once from main() before using any commands.
// Returns an error if any handler registration fails.
func RegisterAll() error {
	for _, register := range registrars {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
