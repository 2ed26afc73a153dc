package host

import (
	"context"

	"go.uber.org/zap"
)

type handlerFunc func(ctx context.Context, s *Session) Result

// command is one entry of the dispatch table. help is the menu line; an
// empty help keeps the command out of the menu.
type command struct {
	name    string
	aliases []string
	help    string
	handler handlerFunc
}

func (h *Host) registerCommands() {
	h.commands = nil
	h.lookup = make(map[string]*command)

	h.register("create_account", "[C]reate an account", h.createAccount, "c")
	h.register("login", "Login to your [a]ccount", h.logIntoAccount, "a")
	h.register("list_cages", "[L]ist your cages", h.listCages, "l")
	h.register("register_cage", "[R]egister a cage", h.registerCage, "r")
	h.register("update_availability", "[U]pdate cage availability", h.updateAvailability, "u")
	h.register("view_bookings", "[V]iew your bookings", h.viewBookings, "v")
	h.register("change_mode", "Change [M]ode (guest or host)", changeMode, "m")
	h.register("exit", "e[X]it app", h.exitApp, "x", "bye", "exit", "exit()")
	h.register("help", "[?] Help (this info)", h.help, "?")
	h.register("noop", "", noop, "")
}

func (h *Host) register(name, help string, handler handlerFunc, aliases ...string) {
	cmd := &command{name: name, aliases: aliases, help: help, handler: handler}
	h.commands = append(h.commands, cmd)
	for _, alias := range aliases {
		h.lookup[alias] = cmd
	}
}

// dispatch runs the handler registered for action. Unknown actions print a
// message and leave the session untouched.
func (h *Host) dispatch(ctx context.Context, s *Session, action string) (result Result) {
	// Recover from panics so one bad handler does not end the session
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Recovered from panic in command handler",
				zap.String("action", action),
				zap.Any("panic", r),
			)
			h.errorMsg("An error occurred while processing your request. Please try again.")
			result = Continue
		}
	}()

	cmd, ok := h.lookup[action]
	if !ok {
		h.println("Sorry we didn't understand that command.")
		return Continue
	}

	h.logger.Debug("Dispatching command", zap.String("command", cmd.name))
	return cmd.handler(ctx, s)
}

// showCommands prints the command menu
func (h *Host) showCommands() {
	h.println("What action would you like to take:")
	for _, cmd := range h.commands {
		if cmd.help != "" {
			h.println(cmd.help)
		}
	}
	h.println()
}

func (h *Host) help(ctx context.Context, s *Session) Result {
	h.showCommands()
	return Continue
}

func changeMode(ctx context.Context, s *Session) Result {
	return ChangeMode
}

func noop(ctx context.Context, s *Session) Result {
	return Continue
}
