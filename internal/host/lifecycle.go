package host

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
)

// Run shows the host menu and processes commands until the user changes
// mode or exits. Closed input counts as an exit.
func (h *Host) Run(ctx context.Context, s *Session) (Result, error) {
	h.println(" ****************** Welcome host **************** ")
	h.println()

	h.showCommands()

	for {
		if err := ctx.Err(); err != nil {
			return Exit, err
		}

		action, err := h.getAction(s)
		if err != nil {
			if errors.Is(err, io.EOF) {
				h.logger.Info("Input closed, leaving host mode")
				return Exit, nil
			}
			return Exit, err
		}

		result := h.dispatch(ctx, s, action)

		// exit ends the session before the separator line
		if action != "" && result != Exit {
			h.println()
		}

		switch result {
		case ChangeMode, Exit:
			h.logger.Debug("Leaving host mode", zap.Stringer("result", result))
			return result, nil
		}
	}
}

func (h *Host) exitApp(ctx context.Context, s *Session) Result {
	h.println()
	h.println("bye")
	return Exit
}
