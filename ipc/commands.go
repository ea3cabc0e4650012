package ipc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nstehr/prospector/model"
)

// EncodeCommands renders orders in the Halite wire format.
func EncodeCommands(cmds []model.Command) []string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.String())
	}
	return out
}

// ParseCommand is the inverse of model.Command.String.
func ParseCommand(s string) (model.Command, error) {
	f := strings.Fields(s)
	if len(f) == 0 {
		return model.Command{}, fmt.Errorf("empty command")
	}
	switch {
	case f[0] == "g" && len(f) == 1:
		return model.Spawn(), nil
	case f[0] == "c" && len(f) == 2:
		id, err := strconv.Atoi(f[1])
		if err != nil {
			return model.Command{}, fmt.Errorf("convert %q: %w", s, err)
		}
		return model.Convert(model.ShipID(id)), nil
	case f[0] == "m" && len(f) == 3:
		id, err := strconv.Atoi(f[1])
		if err != nil {
			return model.Command{}, fmt.Errorf("move %q: %w", s, err)
		}
		if len(f[2]) != 1 || !strings.ContainsAny(f[2], "nsewo") {
			return model.Command{}, fmt.Errorf("move %q: bad direction", s)
		}
		return model.Move(model.ShipID(id), model.Direction(f[2][0])), nil
	}
	return model.Command{}, fmt.Errorf("unknown command %q", s)
}

// ParseCommands parses a list of wire commands, stopping at the first bad one.
func ParseCommands(lines []string) ([]model.Command, error) {
	out := make([]model.Command, 0, len(lines))
	for _, l := range lines {
		c, err := ParseCommand(l)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
