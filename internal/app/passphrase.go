package app

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// envPassphrase is consulted before prompting, so unattended runs (cron
// jobs, CI) can unlock the store without a terminal.
const envPassphrase = "DRIFTWATCH_PASSPHRASE"

// readPassphrase returns the store passphrase from the environment or
// prompts for it on the terminal without echo. The prompt goes to
// stderr so report output on stdout stays clean.
func readPassphrase() (string, error) {
	if p := os.Getenv(envPassphrase); p != "" {
		return p, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("snapshot store is encrypted: set %s or run interactively", envPassphrase)
	}

	fmt.Fprint(os.Stderr, "Passphrase: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// readNewPassphrase prompts twice for the passphrase that will protect
// a new private key.
func readNewPassphrase() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("key generation needs an interactive terminal")
	}

	fmt.Fprint(os.Stderr, "New passphrase: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm passphrase: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}

	passphrase := strings.TrimSpace(string(first))
	if passphrase == "" {
		return "", fmt.Errorf("passphrase must not be empty")
	}
	if passphrase != strings.TrimSpace(string(second)) {
		return "", fmt.Errorf("passphrases do not match")
	}
	return passphrase, nil
}
