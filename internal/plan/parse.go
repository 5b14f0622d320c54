package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"clawbot/internal/services"
)

var allowedKeys = map[Kind][]string{
	KindCreateFolder: {"action", "name"},
	KindMoveFile:     {"action", "file", "target"},
}

// Parse decodes and validates a plan. Any deviation from the schema rejects
// the whole plan with an error wrapping services.ErrPlanSchema.
func Parse(raw []byte) (Plan, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var envelope struct {
		Actions *[]json.RawMessage `json:"actions"`
	}
	if err := dec.Decode(&envelope); err != nil {
		return Plan{}, schemaError("decode plan", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Plan{}, schemaError("trailing data after plan object", nil)
	}
	if envelope.Actions == nil {
		return Plan{}, schemaError(`plan is missing the "actions" array`, nil)
	}

	actions := make([]Action, 0, len(*envelope.Actions))
	for i, rawAction := range *envelope.Actions {
		action, err := parseAction(rawAction)
		if err != nil {
			return Plan{}, schemaError(fmt.Sprintf("action %d", i), err)
		}
		actions = append(actions, action)
	}
	return Plan{Actions: actions}, nil
}

func parseAction(raw json.RawMessage) (Action, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Action{}, fmt.Errorf("action is not an object: %w", err)
	}
	if fields == nil {
		return Action{}, errors.New("action is null")
	}

	values := make(map[string]string, len(fields))
	for key, value := range fields {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return Action{}, fmt.Errorf("field %q must be a string", key)
		}
		values[key] = s
	}

	kind := Kind(values["action"])
	allowed, ok := allowedKeys[kind]
	if !ok {
		return Action{}, fmt.Errorf("unknown action %q", values["action"])
	}
	if extra := unexpectedKeys(fields, allowed); len(extra) > 0 {
		return Action{}, fmt.Errorf("unexpected fields for %s: %s", kind, strings.Join(extra, ", "))
	}

	action := Action{
		Kind:   kind,
		Name:   values["name"],
		File:   values["file"],
		Target: values["target"],
	}
	if err := Validate(action); err != nil {
		return Action{}, err
	}
	return action, nil
}

// Validate checks the required fields and path safety of a single action.
func Validate(action Action) error {
	switch action.Kind {
	case KindCreateFolder:
		return checkPath("name", action.Name)
	case KindMoveFile:
		if err := checkPath("file", action.File); err != nil {
			return err
		}
		return checkPath("target", action.Target)
	default:
		return fmt.Errorf("unknown action %q", action.Kind)
	}
}

func checkPath(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	if strings.HasPrefix(value, "/") || strings.HasPrefix(value, `\`) || filepath.IsAbs(value) || filepath.VolumeName(value) != "" {
		return fmt.Errorf("%s %q must be relative to the library", field, value)
	}
	for _, segment := range strings.FieldsFunc(value, func(r rune) bool { return r == '/' || r == '\\' }) {
		if segment == ".." {
			return fmt.Errorf("%s %q escapes the library", field, value)
		}
	}
	return nil
}

func unexpectedKeys(fields map[string]json.RawMessage, allowed []string) []string {
	var extra []string
	for key := range fields {
		found := false
		for _, candidate := range allowed {
			if key == candidate {
				found = true
				break
			}
		}
		if !found {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return extra
}

func schemaError(message string, err error) error {
	return services.Wrap(services.ErrPlanSchema, "plan", "parse", message, err)
}
