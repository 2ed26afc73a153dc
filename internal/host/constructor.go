package host

import (
	"bufio"
	"io"

	"go.uber.org/zap"

	"snakebnb/internal/storage"
)

// NewHost creates a host-mode session reading commands from in and writing to out
func NewHost(db storage.Storage, in io.Reader, out io.Writer, logger *zap.Logger, useColor bool) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &Host{
		db:     db,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
		color:  useColor,
	}
	h.registerCommands()
	return h
}
