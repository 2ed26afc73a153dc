package host

import (
	"bufio"
	"io"

	"go.uber.org/zap"

	"snakebnb/internal/models"
	"snakebnb/internal/storage"
)

// Host runs the interactive host-mode session
type Host struct {
	db       storage.Storage
	in       *bufio.Reader
	out      io.Writer
	logger   *zap.Logger
	color    bool
	commands []*command
	lookup   map[string]*command
}

// Session holds the state of one host-mode session. Handlers receive it
// explicitly; nothing about the logged-in account is process-global.
type Session struct {
	Account *models.Account
}

// LoggedIn reports whether the session has an active account
func (s *Session) LoggedIn() bool {
	return s != nil && s.Account != nil
}

// Result tells the command loop what to do after a handler returns
type Result int

const (
	Continue Result = iota
	ChangeMode
	Exit
)

func (r Result) String() string {
	switch r {
	case Continue:
		return "continue"
	case ChangeMode:
		return "change_mode"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}
