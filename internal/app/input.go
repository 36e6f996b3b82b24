package app

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// promptPassword reads a password for the named account from the user's
// terminal without echo. A newline is printed after the read to keep the
// UI tidy.
func promptPassword(w io.Writer, username string) (string, error) {
	if _, err := fmt.Fprintf(w, "Enter password for %s: ", username); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
