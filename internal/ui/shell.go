// Package ui is the interactive shell over the booking store: calendar
// view, daily board, booking form and the manual exchange commands.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"inkbook/internal/calendar"
	"inkbook/internal/conflict"
	"inkbook/internal/export"
	"inkbook/internal/metrics"
	"inkbook/internal/model"
	"inkbook/internal/service"

	"github.com/rs/zerolog"
)

// Shell reads commands line by line and runs each one to completion
// before the next, mirroring the single-threaded event handling of the
// on-device UI.
type Shell struct {
	svc    *service.BookingService
	logger *zerolog.Logger
	in     *bufio.Scanner
	out    io.Writer

	defaultStart string
	defaultEnd   string

	viewYear  int
	viewMonth time.Month
	selected  string // YYYY-MM-DD

	now func() time.Time
}

// New constructs a shell. now is injectable for tests; pass nil for
// wall-clock time.
func New(svc *service.BookingService, defaultStart, defaultEnd string, in io.Reader, out io.Writer, logger *zerolog.Logger, now func() time.Time) *Shell {
	if now == nil {
		now = time.Now
	}
	today := now()
	return &Shell{
		svc:          svc,
		logger:       logger,
		in:           bufio.NewScanner(in),
		out:          out,
		defaultStart: defaultStart,
		defaultEnd:   defaultEnd,
		viewYear:     today.Year(),
		viewMonth:    today.Month(),
		selected:     model.FormatDate(today),
		now:          now,
	}
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

// prompt prints the prompt and reads one trimmed line. ok is false on
// EOF or when the user types "q".
func (s *Shell) prompt(p string) (line string, ok bool) {
	fmt.Fprint(s.out, p)
	if !s.in.Scan() {
		return "", false
	}
	line = strings.TrimSpace(s.in.Text())
	if line == "q" {
		return "", false
	}
	return line, true
}

// Run drives the shell until quit, EOF or context cancellation.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.ensureArtist(ctx); err != nil {
		return err
	}

	s.printf("signed in as %s, type 'help' for commands\n\n", s.svc.Artist())
	s.showGrid()
	s.showDay()

	for ctx.Err() == nil {
		line, ok := s.prompt("> ")
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if quit := s.dispatch(ctx, fields[0], fields[1:]); quit {
			break
		}
	}
	return ctx.Err()
}

// ensureArtist runs the onboarding prompt until an identity is stored.
func (s *Shell) ensureArtist(ctx context.Context) error {
	for s.svc.Artist() == "" {
		line, ok := s.prompt("your name: ")
		if !ok {
			return fmt.Errorf("no artist name entered")
		}
		if line == "" {
			continue
		}
		if err := s.svc.Login(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shell) dispatch(ctx context.Context, cmd string, args []string) (quit bool) {
	switch cmd {
	case "help":
		s.showHelp()
	case "grid", "cal":
		s.showGrid()
	case "prev":
		s.shiftMonth(-1)
	case "next":
		s.shiftMonth(1)
	case "sel":
		s.selectDate(args)
	case "day":
		s.showDay()
	case "add":
		s.runForm(ctx, nil)
		s.showGrid()
		s.showDay()
	case "edit":
		s.editBooking(ctx, args)
	case "del":
		s.deleteBooking(ctx, args)
	case "mine":
		s.printf("%s", renderTable(s.svc.MyBookings(), s.svc.Artist()))
	case "all":
		s.printf("%s", renderTable(s.svc.All(), s.svc.Artist()))
	case "export":
		s.exportJSON()
	case "import":
		s.importJSON(ctx)
	case "xlsx":
		s.exportExcel(args)
	case "logout":
		quit = s.logout(ctx)
	case "quit", "exit":
		quit = true
	default:
		s.printf("  unknown command %q, type 'help'\n", cmd)
	}
	return quit
}

func (s *Shell) showHelp() {
	s.printf(`  grid            show the month grid
  prev / next     switch displayed month
  sel YYYY-MM-DD  select a date
  day             bookings and conflicts for the selected date
  add             create a booking on the selected date
  edit <id>       edit one of your bookings
  del <id>        delete one of your bookings (asks to confirm)
  mine            your bookings, newest first
  all             whole-studio schedule table
  export          print the booking snapshot as JSON
  import          paste a JSON snapshot, finish with a single '.'
  xlsx <path>     write the studio schedule as a spreadsheet
  logout          clear the stored identity
  quit            leave
`)
}

func (s *Shell) showGrid() {
	booked := calendar.BookedDates(s.svc.All())
	today := model.FormatDate(s.now())
	cells := calendar.MonthGrid(s.viewYear, s.viewMonth, s.selected, booked, today)
	s.printf("%s\n", renderGrid(calendar.MonthTitle(s.viewYear, s.viewMonth), cells))
}

func (s *Shell) shiftMonth(delta int) {
	t := time.Date(s.viewYear, s.viewMonth, 1, 0, 0, 0, 0, time.Local).AddDate(0, delta, 0)
	s.viewYear, s.viewMonth = t.Year(), t.Month()
	s.showGrid()
}

func (s *Shell) selectDate(args []string) {
	if len(args) != 1 {
		s.printf("  usage: sel YYYY-MM-DD\n")
		return
	}
	t, err := model.ParseDate(args[0])
	if err != nil {
		s.printf("  %v\n", err)
		return
	}
	s.selected = args[0]
	s.viewYear, s.viewMonth = t.Year(), t.Month()
	s.showGrid()
	s.showDay()
}

func (s *Shell) showDay() {
	day := s.svc.DayBookings(s.selected)
	s.printf("  -- %s --\n", s.selected)
	s.printf("%s", renderSummary(conflict.Summarize(day, s.svc.Artist())))
	for _, b := range day {
		s.printf("%s\n", renderBooking(b, s.svc.Artist()))
	}
	s.printf("\n")
}

// resolveID matches a full id or a unique prefix of one.
func (s *Shell) resolveID(arg string) (model.Booking, error) {
	var match model.Booking
	found := 0
	for _, b := range s.svc.All() {
		if b.ID == arg {
			return b, nil
		}
		if strings.HasPrefix(b.ID, arg) {
			match = b
			found++
		}
	}
	switch found {
	case 0:
		return model.Booking{}, service.ErrNotFound
	case 1:
		return match, nil
	default:
		return model.Booking{}, fmt.Errorf("id %q is ambiguous", arg)
	}
}

func (s *Shell) editBooking(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.printf("  usage: edit <id>\n")
		return
	}
	b, err := s.resolveID(args[0])
	if err != nil {
		s.printf("  %v\n", err)
		return
	}
	if b.ArtistName != s.svc.Artist() {
		s.printf("  %v\n", service.ErrNotOwner)
		return
	}
	s.selected = b.Date
	s.runForm(ctx, &b)
	s.showDay()
}

// deleteBooking requires an explicit confirmation; anything but "y" is
// a no-op.
func (s *Shell) deleteBooking(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.printf("  usage: del <id>\n")
		return
	}
	b, err := s.resolveID(args[0])
	if err != nil {
		s.printf("  %v\n", err)
		return
	}
	line, ok := s.prompt(fmt.Sprintf("delete %s %s %s-%s? (y/N): ", shortID(b.ID), b.Date, b.StartTime, b.EndTime))
	if !ok || line != "y" {
		s.printf("  not deleted\n")
		return
	}
	if err := s.svc.Delete(ctx, b.ID); err != nil {
		s.printf("  %v\n", err)
		return
	}
	s.printf("  deleted\n")
	s.showDay()
}

func (s *Shell) exportJSON() {
	data, err := s.svc.ExportJSON()
	if err != nil {
		s.printf("  %v\n", err)
		return
	}
	metrics.IncStoreExport()
	s.printf("%s\n", data)
	s.printf("  copy the line above and send it to a colleague\n")
}

// importJSON reads pasted lines until a single '.' and replaces the
// store only if the snapshot parses.
func (s *Shell) importJSON(ctx context.Context) {
	s.printf("  paste the snapshot, finish with a single '.' line\n")
	var lines []string
	for {
		fmt.Fprint(s.out, "| ")
		if !s.in.Scan() {
			return
		}
		line := s.in.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}

	count, err := s.svc.ImportJSON(ctx, []byte(strings.Join(lines, "\n")))
	if err != nil {
		metrics.IncStoreImport("failed")
		s.printf("  import failed, store unchanged: %v\n", err)
		return
	}
	metrics.IncStoreImport("ok")
	s.printf("  imported %d booking(s)\n", count)
	s.showGrid()
	s.showDay()
}

func (s *Shell) exportExcel(args []string) {
	if len(args) != 1 {
		s.printf("  usage: xlsx <path>\n")
		return
	}
	if err := export.WriteSchedule(args[0], s.svc.All()); err != nil {
		s.printf("  %v\n", err)
		return
	}
	s.printf("  schedule written to %s\n", args[0])
}

func (s *Shell) logout(ctx context.Context) (quit bool) {
	line, ok := s.prompt("sign out? (y/N): ")
	if !ok || line != "y" {
		return false
	}
	if err := s.svc.Logout(ctx); err != nil {
		s.printf("  %v\n", err)
		return false
	}
	if err := s.ensureArtist(ctx); err != nil {
		return true
	}
	s.printf("signed in as %s\n", s.svc.Artist())
	return false
}
