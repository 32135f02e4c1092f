package handlers

import (
	"github.com/rogerio-castellano/expiry-tracker/internal/auth"
	"github.com/rogerio-castellano/expiry-tracker/internal/inventory"
	"github.com/rogerio-castellano/expiry-tracker/internal/logger"
	"github.com/rogerio-castellano/expiry-tracker/internal/views"
)

var (
	inventoryService *inventory.Service
	viewEngine       *views.Engine
	userService      *auth.Users
	tokens           *auth.Tokens
	appLogger        = logger.Nop()
)

func SetInventoryService(s *inventory.Service) {
	inventoryService = s
}

func SetViewEngine(e *views.Engine) {
	viewEngine = e
}

func SetUserService(u *auth.Users) {
	userService = u
}

func SetTokens(t *auth.Tokens) {
	tokens = t
}

func SetLogger(l *logger.Logger) {
	if l == nil {
		l = logger.Nop()
	}
	appLogger = l
}
