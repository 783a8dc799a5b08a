package footprint

import (
	"fmt"
	"strings"
)

// ParseStartupKeyCombination validates a stored or user-supplied combination.
func ParseStartupKeyCombination(s string) (StartupKeyCombination, error) {
	switch c := StartupKeyCombination(s); c {
	case StartupCtrlR, StartupCtrlShiftL, StartupAll:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidConfig, s)
	}
}

// String names the chord for display.
func (c StartupKeyCombination) String() string {
	switch c {
	case StartupCtrlR:
		return "Ctrl+R"
	case StartupCtrlShiftL:
		return "Ctrl|Cmd+Shift+L"
	case StartupAll:
		return "all"
	default:
		return string(c)
	}
}

// CanStartupSearcher reports whether a key press opens the searcher under
// the given combination.
func CanStartupSearcher(c StartupKeyCombination, ctrl, meta, shift bool, key string) bool {
	ctrlR := ctrl && !meta && !shift && key == "r"
	shiftL := ctrl != meta && shift && strings.ToLower(key) == "l"
	switch c {
	case StartupCtrlR:
		return ctrlR
	case StartupCtrlShiftL:
		return shiftL
	case StartupAll:
		return ctrlR || shiftL
	default:
		return false
	}
}
