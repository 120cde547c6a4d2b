package main

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"syscall"

	"golang.org/x/term"
)

// passwordEnvVar is checked before prompting interactively
const passwordEnvVar = "DOCSEAL_PASSWORD"

// zeroBytes overwrites a byte slice with zeros
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// getPassword obtains the password from the environment or the terminal.
// When confirm is set (sealing), the interactive path prompts twice.
func getPassword(confirm bool) ([]byte, error) {
	if envPass := os.Getenv(passwordEnvVar); envPass != "" {
		return []byte(envPass), nil
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		return nil, err
	}

	if !confirm {
		return password, nil
	}

	again, err := readPassword("Confirm password: ")
	if err != nil {
		zeroBytes(password)
		return nil, err
	}

	if !bytes.Equal(password, again) {
		zeroBytes(password)
		zeroBytes(again)
		return nil, fmt.Errorf("passwords do not match")
	}

	zeroBytes(again)
	return password, nil
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		return password, err
	}

	// STDIN is piped; fall back to the controlling terminal.
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return nil, fmt.Errorf("cannot read password: STDIN is piped and /dev/tty is not available. Set %s", passwordEnvVar)
	}
	defer tty.Close()

	password, err := term.ReadPassword(int(tty.Fd()))
	fmt.Fprintln(os.Stderr)
	return password, err
}
