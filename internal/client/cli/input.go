package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/choirhub/internal/common"
	"github.com/dmitrijs2005/choirhub/internal/server/models"
	"golang.org/x/term"
)

// readPassword is swapped out in tests so no terminal is needed.
var readPassword = term.ReadPassword

var (
	errPasswordMismatch = errors.New("passwords do not match")
	errPasswordTooShort = fmt.Errorf("password must be at least %d characters", models.MinPasswordLength)
)

// GetSimpleText writes "label: " to w and returns the next line from reader
// with surrounding whitespace removed. A final line without a newline is
// still returned.
func GetSimpleText(reader *bufio.Reader, label string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readSecret(w io.Writer, label string) ([]byte, error) {
	fmt.Fprintf(w, "%s: ", label)
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	return pw, err
}

// GetPassword reads the current password without echo. Callers wipe the
// result with common.WipeByteArray.
func GetPassword(w io.Writer) ([]byte, error) {
	return readSecret(w, "Password")
}

// GetNewPassword reads a new password twice. It fails when the entry is
// shorter than the server accepts or when the two entries differ.
func GetNewPassword(w io.Writer) ([]byte, error) {
	first, err := readSecret(w, "New password")
	if err != nil {
		return nil, err
	}
	if len(first) < models.MinPasswordLength {
		common.WipeByteArray(first)
		return nil, errPasswordTooShort
	}

	second, err := readSecret(w, "Repeat password")
	defer common.WipeByteArray(second)
	if err != nil {
		common.WipeByteArray(first)
		return nil, err
	}
	if !bytes.Equal(first, second) {
		common.WipeByteArray(first)
		return nil, errPasswordMismatch
	}
	return first, nil
}
