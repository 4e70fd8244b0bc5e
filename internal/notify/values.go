package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is a form value the site may post as a string, number or boolean.
// false and null decode to the empty string so they count as missing.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*t = ""
		return nil
	case bytes.Equal(data, []byte("true")):
		*t = "true"
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string, number or boolean: %w", err)
	}
	*t = Text(n.String())
	return nil
}

// Flag is a checkbox value. It accepts JSON booleans, non-zero numbers and the
// strings "true", "yes", "on" and "1".
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "on", "1":
			*f = true
		default:
			*f = false
		}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected boolean: %w", err)
	}
	*f = n != 0
	return nil
}

// YesNo renders the flag the way the notification emails show consents.
func (f Flag) YesNo() string {
	if f {
		return "Yes"
	}
	return "No"
}

// TextList accepts either a single value or an array of values.
type TextList []string

func (l *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, string(item))
		}
		*l = out
		return nil
	}
	var single Text
	if err := single.UnmarshalJSON(data); err != nil {
		return err
	}
	if single == "" {
		*l = nil
		return nil
	}
	*l = TextList{string(single)}
	return nil
}

func (l TextList) String() string {
	return strings.Join(l, ", ")
}
