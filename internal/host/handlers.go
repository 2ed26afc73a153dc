package host

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"

	"snakebnb/internal/models"
	"snakebnb/internal/storage"
)

const dateLayout = "2006-01-02"

// createAccount registers a new account and makes it the active one
func (h *Host) createAccount(ctx context.Context, s *Session) Result {
	h.println(" ****************** REGISTER **************** ")

	name, err := h.input("What is your name?: ")
	if err != nil {
		return h.inputFailed(err)
	}
	email, err := h.input("What is your email?: ")
	if err != nil {
		return h.inputFailed(err)
	}
	email = normalizeEmail(email)

	_, err = h.db.FindAccountByEmail(ctx, email)
	switch {
	case err == nil:
		h.errorMsg(fmt.Sprintf("ERROR: Account with %s already exists", email))
		return Continue
	case !errors.Is(err, storage.ErrNotFound):
		h.storageFailed("find account", err, zap.String("email", email))
		return Continue
	}

	account, err := h.db.CreateAccount(ctx, name, email)
	if err != nil {
		h.storageFailed("create account", err, zap.String("email", email))
		return Continue
	}

	s.Account = account
	h.logger.Info("Account created", zap.String("account_id", account.ID))
	h.successMsg(fmt.Sprintf("Created a new account with id %s", account.ID))
	return Continue
}

// logIntoAccount switches the active account. A failed lookup keeps
// whatever account was active before.
func (h *Host) logIntoAccount(ctx context.Context, s *Session) Result {
	h.println(" ****************** LOGIN **************** ")

	email, err := h.input("What is your email?: ")
	if err != nil {
		return h.inputFailed(err)
	}
	email = normalizeEmail(email)

	account, err := h.db.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.errorMsg(fmt.Sprintf("Could not find account with email %s.", email))
		} else {
			h.storageFailed("find account", err, zap.String("email", email))
		}
		return Continue
	}

	s.Account = account
	h.successMsg("Logged in successfully!")
	return Continue
}

// registerCage collects the cage details and stores a new cage for the active account
func (h *Host) registerCage(ctx context.Context, s *Session) Result {
	h.println(" ****************** REGISTER CAGE **************** ")

	if !s.LoggedIn() {
		h.errorMsg("You must login first to register a cage.")
		return Continue
	}

	metres, ok, res := h.inputNumber("How many square metres is the cage?: ")
	if !ok {
		return res
	}

	var spec models.CageSpec
	spec.SquareMetres = metres

	var err error
	if spec.Carpeted, err = h.inputYesNo("Is it carpeted? [y, n]: "); err != nil {
		return h.inputFailed(err)
	}
	if spec.HasToys, err = h.inputYesNo("Have snake toys? [y, n]: "); err != nil {
		return h.inputFailed(err)
	}
	if spec.AllowDangerous, err = h.inputYesNo("Can you host venomous snakes? [y, n]: "); err != nil {
		return h.inputFailed(err)
	}

	name, err := h.input("Give your cage a name: ")
	if err != nil {
		return h.inputFailed(err)
	}
	spec.Name = name

	if spec.Price, ok, res = h.inputNumber("How much are you charging?: $"); !ok {
		return res
	}

	cage, err := h.db.RegisterCage(ctx, s.Account, spec)
	if err != nil {
		h.storageFailed("register cage", err, zap.String("account_id", s.Account.ID))
		return Continue
	}

	h.reloadAccount(ctx, s)
	h.logger.Info("Cage registered", zap.String("cage_id", cage.ID), zap.String("account_id", s.Account.ID))
	h.successMsg(fmt.Sprintf("Registered new cage with id %s.", cage.ID))
	return Continue
}

func (h *Host) listCages(ctx context.Context, s *Session) Result {
	h.showCages(ctx, s, false)
	return Continue
}

// showCages prints the active account's cages with their availability
// blocks. It returns the cages so callers can let the user pick one.
func (h *Host) showCages(ctx context.Context, s *Session, suppressHeader bool) ([]models.Cage, bool) {
	if !suppressHeader {
		h.println(" ******************     Your cages     **************** ")
	}

	if !s.LoggedIn() {
		h.errorMsg("You must login first to list your cages.")
		return nil, false
	}

	cages, err := h.db.FindCagesForAccount(ctx, s.Account)
	if err != nil {
		h.storageFailed("list cages", err, zap.String("account_id", s.Account.ID))
		return nil, false
	}

	h.printf("You have %d cages.\n", len(cages))
	for idx, cage := range cages {
		h.printf("* %d. %s is %ssqm.\n", idx+1, cage.Name, models.FormatArea(cage.SquareMetres))
		for _, booking := range cage.Bookings {
			booked := "no"
			if booking.IsBooked() {
				booked = "YES"
			}
			h.printf("    * Booking: %s, %d days, booked? %s\n",
				booking.CheckInDate.Format(dateLayout), booking.Days(), booked)
		}
	}
	return cages, true
}

// updateAvailability adds an open block of days to one of the account's cages
func (h *Host) updateAvailability(ctx context.Context, s *Session) Result {
	h.println(" ****************** Add available date **************** ")

	if !s.LoggedIn() {
		h.errorMsg("You must login first to update cage availability.")
		return Continue
	}

	cages, ok := h.showCages(ctx, s, true)
	if !ok {
		return Continue
	}
	if len(cages) == 0 {
		h.errorMsg("You have no cages yet. Register one first.")
		return Continue
	}

	raw, err := h.input("Enter cage number: ")
	if err != nil {
		return h.inputFailed(err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		h.errorMsg("Cancelled!")
		h.println()
		return Continue
	}

	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 || number > len(cages) {
		h.errorMsg(fmt.Sprintf("Invalid cage number %s. Choose a number from 1 to %d.", raw, len(cages)))
		return Continue
	}

	selected := cages[number-1]
	h.successMsg(fmt.Sprintf("Selected cage %s", selected.Name))

	rawDate, err := h.input("Enter available date [yyyy-mm-dd]: ")
	if err != nil {
		return h.inputFailed(err)
	}
	rawDate = strings.TrimSpace(rawDate)
	if rawDate == "" {
		h.errorMsg("Cancelled!")
		return Continue
	}
	start, err := dateparse.ParseIn(rawDate, time.UTC)
	if err != nil {
		h.errorMsg(fmt.Sprintf("Could not understand the date %q.", rawDate))
		return Continue
	}

	rawDays, err := h.input("How many days is this block of time?: ")
	if err != nil {
		return h.inputFailed(err)
	}
	days, err := strconv.Atoi(strings.TrimSpace(rawDays))
	if err != nil || days < 1 {
		h.errorMsg(fmt.Sprintf("Cancelled! %q is not a valid number of days.", strings.TrimSpace(rawDays)))
		return Continue
	}

	if err := models.ValidateAvailability(start, days); err != nil {
		h.errorMsg(fmt.Sprintf("Cancelled! %v.", err))
		return Continue
	}

	if _, err := h.db.AddAvailableDate(ctx, selected.ID, start, days); err != nil {
		h.storageFailed("add available date", err, zap.String("cage_id", selected.ID))
		return Continue
	}

	h.successMsg(fmt.Sprintf("Date added to cage %s", selected.Name))
	return Continue
}

type cageBooking struct {
	cage    models.Cage
	booking models.Booking
}

// viewBookings lists the reserved blocks across all of the account's cages
func (h *Host) viewBookings(ctx context.Context, s *Session) Result {
	h.println(" ****************** Your bookings **************** ")

	if !s.LoggedIn() {
		h.errorMsg("You must log in first to view your bookings.")
		return Continue
	}

	cages, err := h.db.FindCagesForAccount(ctx, s.Account)
	if err != nil {
		h.storageFailed("list cages", err, zap.String("account_id", s.Account.ID))
		return Continue
	}

	bookings := bookedSlots(cages)

	h.printf("You have %d bookings.\n", len(bookings))
	for _, cb := range bookings {
		h.printf(" * Cage: %s, booked date: %s, from %s for %d days.\n",
			cb.cage.Name,
			cb.booking.BookedDate.Format(dateLayout),
			cb.booking.CheckInDate.Format(dateLayout),
			cb.booking.DurationInDays,
		)
	}
	return Continue
}

func bookedSlots(cages []models.Cage) []cageBooking {
	var out []cageBooking
	for _, cage := range cages {
		for _, booking := range cage.Bookings {
			if booking.IsBooked() {
				out = append(out, cageBooking{cage: cage, booking: booking})
			}
		}
	}
	return out
}

// reloadAccount refreshes the session's account after a mutation. On
// failure the stale copy stays in place.
func (h *Host) reloadAccount(ctx context.Context, s *Session) {
	account, err := h.db.GetAccount(ctx, s.Account.ID)
	if err != nil {
		h.logger.Warn("Failed to reload account", zap.Error(err), zap.String("account_id", s.Account.ID))
		return
	}
	s.Account = account
}

// inputNumber reads a decimal value. Blank or malformed input cancels the
// handler; ok is false and res is what the handler should return.
func (h *Host) inputNumber(prompt string) (value float64, ok bool, res Result) {
	raw, err := h.input(prompt)
	if err != nil {
		return 0, false, h.inputFailed(err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		h.errorMsg("Cancelled!")
		return 0, false, Continue
	}

	value, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		h.errorMsg(fmt.Sprintf("Cancelled! %q is not a valid number.", raw))
		return 0, false, Continue
	}
	return value, true, Continue
}

func (h *Host) inputFailed(err error) Result {
	if errors.Is(err, errInputClosed) {
		return Exit
	}
	h.logger.Error("Failed to read input", zap.Error(err))
	h.errorMsg(fmt.Sprintf("Error: %v", err))
	return Continue
}

func (h *Host) storageFailed(op string, err error, fields ...zap.Field) {
	h.logger.Error("Storage operation failed", append(fields, zap.String("op", op), zap.Error(err))...)
	h.errorMsg(fmt.Sprintf("Error: failed to %s: %v", op, err))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
