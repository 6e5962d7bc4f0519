package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword reads from the terminal without echo; tests stub it.
var readPassword = term.ReadPassword

// GetSimpleText shows prompt followed by a "> " marker and returns the next
// line from reader with surrounding whitespace removed. A final line without
// a newline still counts; io.EOF is returned only when nothing was read.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s\n> ", prompt); err != nil {
		return "", err
	}

	line, err := reader.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword asks for the account password on stdin with echo off. Callers
// own the returned buffer and should wipe it with common.WipeByteArray.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}

	pw, err := readPassword(int(os.Stdin.Fd()))
	// echo is off, so the user's Enter never reached the screen
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}
