// Command console runs the booking engine behind an interactive menu on
// stdin/stdout, without any external services.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Memartyes/y-lab-uni-sub000/internal/engine"
	"github.com/Memartyes/y-lab-uni-sub000/internal/report"
)

const menu = `
--- Coworking Booking ---
 1. List rooms
 2. Create room
 3. Rename room
 4. Delete room
 5. Add workspace
 6. Book workspace
 7. Book all workspaces in a room
 8. Cancel workspace booking
 9. Cancel all bookings in a room
10. Available slots for a date
11. Room with the most free workspaces
12. Bookings by date
13. Bookings by user
14. Rooms with free workspaces
 0. Exit
`

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.WarnLevel).With().Timestamp().Logger()

	eng := engine.New(engine.Options{
		PrepopulateNewRooms: true,
		Logger:              &logger,
	})
	reports := report.NewService(eng)

	ctx := context.Background()
	if err := eng.Bootstrap(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "bootstrap failed:", err)
		os.Exit(1)
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(menu, "\n")
		choice := prompt(in, "choice")
		if choice == "0" || choice == "" {
			fmt.Println("bye")
			return
		}
		if err := run(ctx, eng, reports, in, choice); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func run(ctx context.Context, eng *engine.Engine, reports *report.Service, in *bufio.Scanner, choice string) error {
	switch choice {
	case "1":
		now := eng.Now()
		for _, r := range eng.Rooms() {
			snap := r.Snapshot(now)
			fmt.Printf("%s: %d of %d workspaces free\n", snap.Name, snap.Available, len(snap.Workspaces))
		}
	case "2":
		return eng.CreateRoom(ctx, prompt(in, "room name"))
	case "3":
		return eng.RenameRoom(ctx, prompt(in, "current name"), prompt(in, "new name"))
	case "4":
		return eng.DeleteRoom(ctx, prompt(in, "room name"))
	case "5":
		return eng.AddWorkspace(ctx, prompt(in, "room name"), prompt(in, "workspace id"))
	case "6":
		at, err := promptTime(in)
		if err != nil {
			return err
		}
		booking, err := eng.BookWorkspace(ctx,
			prompt(in, "room name"), prompt(in, "workspace id"), prompt(in, "user id"), at)
		if err != nil {
			return err
		}
		fmt.Println("booked, ref:", booking.Ref)
	case "7":
		at, err := promptTime(in)
		if err != nil {
			return err
		}
		bookings, err := eng.BookAllWorkspaces(ctx, prompt(in, "room name"), prompt(in, "user id"), at)
		if err != nil {
			return err
		}
		fmt.Printf("booked %d workspaces\n", len(bookings))
	case "8":
		cancelled, err := eng.CancelWorkspaceBooking(ctx, prompt(in, "room name"), prompt(in, "workspace id"))
		if err != nil {
			return err
		}
		fmt.Println("cancelled, ref:", cancelled.Ref)
	case "9":
		cancelled, err := eng.CancelAllBookings(ctx, prompt(in, "room name"))
		if err != nil {
			return err
		}
		fmt.Printf("cancelled %d bookings\n", len(cancelled))
	case "10":
		roomName := prompt(in, "room name")
		date, err := time.Parse("2006-01-02", prompt(in, "date (YYYY-MM-DD)"))
		if err != nil {
			return err
		}
		slots, err := eng.AvailableSlots(ctx, roomName, date)
		if err != nil {
			return err
		}
		if len(slots) == 0 {
			fmt.Println("no available slots")
			return nil
		}
		fmt.Println(strings.Join(slots, ", "))
	case "11":
		best, ok := eng.MostAvailableRoom(ctx)
		if !ok {
			fmt.Println("no room has free workspaces")
			return nil
		}
		snap := best.Snapshot(eng.Now())
		fmt.Printf("%s: %d free workspaces\n", snap.Name, snap.Available)
	case "12":
		date, err := time.Parse("2006-01-02", prompt(in, "date (YYYY-MM-DD)"))
		if err != nil {
			return err
		}
		printLines(reports.FilterByDate(date))
	case "13":
		printLines(reports.FilterByUser(prompt(in, "user id")))
	case "14":
		printLines(reports.FilterByAvailableWorkspaces())
	default:
		fmt.Println("unknown choice")
	}
	return nil
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Printf("%s: ", label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func promptTime(in *bufio.Scanner) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", prompt(in, "time (YYYY-MM-DD HH:MM)"))
}

func printLines(lines []string) {
	if len(lines) == 0 {
		fmt.Println("nothing found")
		return
	}
	for _, line := range lines {
		fmt.Println(line)
	}
}
