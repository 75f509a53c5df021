package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// uiMode is the value of a tri-state flag such as --ui or --color.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

var switchSpellings = map[string]uiMode{
	"":       uiModeAuto,
	"auto":   uiModeAuto,
	"on":     uiModeOn,
	"always": uiModeOn,
	"off":    uiModeOff,
	"never":  uiModeOff,
}

func parseSwitch(flag, value string) (uiMode, error) {
	if m, ok := switchSpellings[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

func readUIMode(value string) (uiMode, error) { return parseSwitch("ui", value) }

// resolve decides auto against out: it must be a terminal.
func (m uiMode) resolve(out io.Writer) bool {
	if m != uiModeAuto {
		return m == uiModeOn
	}
	f, ok := out.(*os.File)
	return ok && isTerminal(f)
}

// shouldUseTUI reports whether a live view goes to out.
func shouldUseTUI(mode uiMode, out io.Writer) bool { return mode.resolve(out) }

// colorEnabled решает, нужен ли цвет; NO_COLOR disables auto.
func colorEnabled(value string, out io.Writer) (bool, error) {
	mode, err := parseSwitch("color", value)
	if err != nil {
		return false, err
	}
	if mode == uiModeAuto && os.Getenv("NO_COLOR") != "" {
		return false, nil
	}
	return mode.resolve(out), nil
}
