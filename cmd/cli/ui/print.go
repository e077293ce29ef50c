package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cryptostarter/cryptostarter/internal/user"
)

// PrintUser prints an account summary. The password hash and session token hash are never shown.
func PrintUser(w io.Writer, u *user.User, now time.Time) {
	fmt.Fprintln(w, titleStyle.Render("User "+u.Email))
	fmt.Fprintf(w, "  ID:          %s\n", u.ID)
	fmt.Fprintf(w, "  Name:        %s\n", orNone(u.Name))
	fmt.Fprintf(w, "  Projects:    %s\n", orNone(strings.Join(u.Projects, ", ")))
	fmt.Fprintf(w, "  Investments: %s\n", orNone(strings.Join(u.Investments, ", ")))
	fmt.Fprintf(w, "  Created:     %s\n", u.CreatedAt.Format(time.RFC3339))

	switch {
	case u.HasSessionAt(now) && u.SessionExpiresAt != nil:
		fmt.Fprintf(w, "  Session:     active until %s\n", u.SessionExpiresAt.Format(time.RFC3339))
	case u.HasSessionAt(now):
		fmt.Fprintln(w, "  Session:     active")
	default:
		fmt.Fprintf(w, "  Session:     %s\n", subtleStyle.Render("none"))
	}
	fmt.Fprintln(w)
}

// PrintSuccess prints a success message.
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}

// PrintError prints an error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+msg))
}

func orNone(s string) string {
	if s == "" {
		return subtleStyle.Render("-")
	}
	return s
}
