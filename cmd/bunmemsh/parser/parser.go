package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Command is one parsed shell line: a dot-prefixed name, trailing key=value
// options and the JSON payload between them.
type Command struct {
	Name    string
	Payload string
	Options map[string]string
	Line    string
}

// Parse splits a line into command name, payload and options. Options are
// trailing space-free key=value tokens (sort=age:-1 skip=2 limit=5); whatever
// sits between the name and the options is the raw JSON payload.
func Parse(line string) (*Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("empty command")
	}

	name, rest, _ := strings.Cut(line, " ")
	if !strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("commands must start with '.'")
	}

	cmd := &Command{
		Name:    name,
		Options: make(map[string]string),
		Line:    line,
	}

	rest = strings.TrimSpace(rest)
	for {
		idx := strings.LastIndexByte(rest, ' ')
		if idx < 0 {
			break
		}
		token := rest[idx+1:]
		key, value, ok := strings.Cut(token, "=")
		if !ok || key == "" || strings.ContainsAny(token, "{}[]\"") {
			break
		}
		cmd.Options[key] = value
		rest = strings.TrimSpace(rest[:idx])
	}

	// A single bare key=value with no payload.
	if key, value, ok := strings.Cut(rest, "="); ok && !strings.ContainsAny(rest, "{}[]\" ") && key != "" {
		cmd.Options[key] = value
		rest = ""
	}

	cmd.Payload = rest
	return cmd, nil
}

// Object decodes the payload as a JSON object.
func (c *Command) Object() (map[string]interface{}, error) {
	if c.Payload == "" {
		return map[string]interface{}{}, nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(c.Payload), &obj); err != nil {
		return nil, fmt.Errorf("payload must be a JSON object: %w", err)
	}
	return obj, nil
}

// ObjectList decodes the payload as either one JSON object or an array of
// objects.
func (c *Command) ObjectList() ([]map[string]interface{}, error) {
	if c.Payload == "" {
		return nil, fmt.Errorf("missing JSON payload")
	}
	if strings.HasPrefix(c.Payload, "[") {
		var list []map[string]interface{}
		if err := json.Unmarshal([]byte(c.Payload), &list); err != nil {
			return nil, fmt.Errorf("payload must be a JSON array of objects: %w", err)
		}
		return list, nil
	}
	obj, err := c.Object()
	if err != nil {
		return nil, err
	}
	return []map[string]interface{}{obj}, nil
}

// IntOption returns a numeric option value, or def when absent.
func (c *Command) IntOption(key string, def int) (int, error) {
	raw, ok := c.Options[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("option %s must be an integer: %w", key, err)
	}
	return n, nil
}

// SortOption parses a sort=field:dir option into its field and direction.
// Direction defaults to ascending.
func (c *Command) SortOption() (field string, direction int, ok bool, err error) {
	raw, present := c.Options["sort"]
	if !present {
		return "", 0, false, nil
	}
	field, dirStr, hasDir := strings.Cut(raw, ":")
	if field == "" {
		return "", 0, false, fmt.Errorf("sort option must be field or field:direction")
	}
	direction = 1
	if hasDir {
		direction, err = strconv.Atoi(dirStr)
		if err != nil {
			return "", 0, false, fmt.Errorf("sort direction must be 1 or -1: %w", err)
		}
	}
	return field, direction, true, nil
}
