package protocol

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// miscProtocol answers utility subcommands without touching the database.
// Unrecognized input is echoed back, which the test console relies on.
type miscProtocol struct {
	host Host
}

func (m *miscProtocol) Init(host Host, _ string) bool {
	m.host = host
	return true
}

func (m *miscProtocol) Call(_ context.Context, data string) (string, error) {
	cmd, rest := data, ""
	if i := strings.IndexByte(data, ':'); i >= 0 {
		cmd, rest = data[:i], data[i+1:]
	}

	switch strings.ToUpper(cmd) {
	case "TIME":
		now := time.Now()
		if rest != "" {
			hours, err := strconv.Atoi(rest)
			if err != nil {
				return "", fmt.Errorf("misc time: bad offset %q: %w", rest, err)
			}
			now = now.Add(time.Duration(hours) * time.Hour)
		}
		return fmt.Sprintf("[[%d,%d,%d],[%d,%d,%d]]",
			now.Year(), int(now.Month()), now.Day(),
			now.Hour(), now.Minute(), now.Second()), nil
	case "RANDOM":
		bound, err := strconv.Atoi(rest)
		if err != nil || bound < 1 {
			return "", fmt.Errorf("misc random: bad bound %q", rest)
		}
		return strconv.Itoa(rand.IntN(bound)), nil
	case "BEML":
		return escapeQuotes(rest), nil
	default:
		return data, nil
	}
}

// escapeQuotes doubles both quote styles so the text survives the host's
// script-side string literals.
func escapeQuotes(s string) string {
	s = strings.ReplaceAll(s, `"`, `""`)
	return strings.ReplaceAll(s, "'", "''")
}
