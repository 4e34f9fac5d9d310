package botkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNoArguments = errors.New("command has no arguments")

// ParseJSON разбирает аргументы команды вида /generate {"topic": "..."}
func ParseJSON[T any](src string) (T, error) {
	var args T

	src = strings.TrimSpace(src)
	if src == "" {
		return args, ErrNoArguments
	}

	if err := json.Unmarshal([]byte(src), &args); err != nil {
		return args, fmt.Errorf("parse command arguments: %w", err)
	}

	return args, nil
}
