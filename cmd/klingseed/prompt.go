package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// stdin is shared so consecutive prompts on a pipe read consecutive lines.
var stdin = bufio.NewReader(os.Stdin)

// readSecret reads one line without echo when stdin is a terminal.
func readSecret(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr) // newline after hidden input
		if err != nil {
			return nil, err
		}
		return secret, nil
	}

	line, err := stdin.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

// readPhrase returns flagValue, or prompts for the recovery phrase.
func readPhrase(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	b, err := readSecret("Recovery phrase: ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readNewPassword returns the contents of file, or prompts twice.
func readNewPassword(file string) ([]byte, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read password file: %w", err)
		}
		password := bytes.TrimRight(data, "\r\n")
		if len(password) == 0 {
			return nil, errors.New("password file is empty")
		}
		return password, nil
	}

	password, err := readSecret("Wallet password: ")
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, errors.New("password must not be empty")
	}
	confirm, err := readSecret("Confirm password: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(password, confirm) {
		return nil, errors.New("passwords do not match")
	}
	return password, nil
}
