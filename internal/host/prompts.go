package host

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
)

// errInputClosed aborts a handler when input ends mid-conversation
var errInputClosed = errors.New("input closed")

// getAction renders the prompt and reads a normalized command
func (h *Host) getAction(s *Session) (string, error) {
	text := "> "
	if s.LoggedIn() {
		text = s.Account.Name + "> "
	}

	line, err := h.readLine(h.paint(color.FgYellow, text))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}

// input prints prompt and returns the next line without its line ending
func (h *Host) input(prompt string) (string, error) {
	line, err := h.readLine(prompt)
	if errors.Is(err, io.EOF) {
		return "", errInputClosed
	}
	return line, err
}

// inputYesNo treats any answer starting with y or Y as yes
func (h *Host) inputYesNo(prompt string) (bool, error) {
	answer, err := h.input(prompt)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y"), nil
}

func (h *Host) readLine(prompt string) (string, error) {
	fmt.Fprint(h.out, prompt)

	line, err := h.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (h *Host) println(a ...any) {
	fmt.Fprintln(h.out, a...)
}

func (h *Host) printf(format string, a ...any) {
	fmt.Fprintf(h.out, format, a...)
}

func (h *Host) successMsg(text string) {
	h.println(h.paint(color.FgLightGreen, text))
}

func (h *Host) errorMsg(text string) {
	h.println(h.paint(color.FgLightRed, text))
}

func (h *Host) paint(c color.Color, text string) string {
	if !h.color {
		return text
	}
	return c.Render(text)
}
