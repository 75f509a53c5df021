package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"mend/internal/vm"
)

// parseValue reads a command-line argument as a VM value: integers and
// booleans by their literal form, quoted text as a string, anything else
// as a bare string. "null" is the null reference.
func parseValue(s string) (vm.Value, error) {
	switch s {
	case "true":
		return vm.Bool(true), nil
	case "false":
		return vm.Bool(false), nil
	case "null":
		return vm.Null, nil
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return vm.Int(n), nil
	} else if errors.Is(err, strconv.ErrRange) {
		return vm.Value{}, fmt.Errorf("argument %s: out of int range", s)
	}
	if strings.HasPrefix(s, `"`) {
		u, err := strconv.Unquote(s)
		if err != nil {
			return vm.Value{}, fmt.Errorf("argument %s: %w", s, err)
		}
		return vm.Str(u), nil
	}
	return vm.Str(s), nil
}

func parseValues(args []string) ([]vm.Value, error) {
	out := make([]vm.Value, 0, len(args))
	for _, s := range args {
		v, err := parseValue(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// splitEntry splits Class.method at the last dot.
func splitEntry(s string) (class, method string, err error) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("entry %q: want Class.method", s)
	}
	return s[:i], s[i+1:], nil
}
