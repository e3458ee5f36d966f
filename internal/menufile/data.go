package menufile

import (
	"encoding/base32"
	"fmt"
	"strconv"
	"strings"
)

// Data line types.
const (
	dataRootPath = 1
	dataRootName = 2
)

var (
	dataKey      = []byte("docmenu-data")
	dataEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)
)

// obscure hides a Data payload from casual editing. It is not encryption.
func obscure(s string) string {
	b := []byte(s)
	for i := range b {
		b[i] ^= dataKey[i%len(dataKey)]
	}
	return dataEncoding.EncodeToString(b)
}

func reveal(s string) (string, error) {
	b, err := dataEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	for i := range b {
		b[i] ^= dataKey[i%len(dataKey)]
	}
	return string(b), nil
}

// parseData splits "N(payload)" into its type and revealed payload.
func parseData(value string) (int, string, error) {
	open := strings.IndexByte(value, '(')
	if open < 0 || !strings.HasSuffix(value, ")") {
		return 0, "", fmt.Errorf("malformed data line")
	}
	n, err := strconv.Atoi(strings.TrimSpace(value[:open]))
	if err != nil {
		return 0, "", fmt.Errorf("malformed data type: %w", err)
	}
	payload, err := reveal(strings.TrimSpace(value[open+1 : len(value)-1]))
	if err != nil {
		return 0, "", fmt.Errorf("malformed data payload: %w", err)
	}
	return n, payload, nil
}

func formatData(n int, payload string) string {
	return fmt.Sprintf("Data: %d(%s)", n, obscure(payload))
}
