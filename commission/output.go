package commission

import (
	"fmt"
	"io"
	"strings"
)

// WriteFees writes one fee per line. The last line has no trailing newline.
func WriteFees(w io.Writer, fees []Fee) error {
	lines := make([]string, len(fees))
	for i, fee := range fees {
		lines[i] = fee.String()
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("writing fees: %w", err)
	}

	return nil
}
