// Package tag is the boundary to the proximity-tag codec. The radio I/O
// and record framing live on the device; this package only handles the
// decoded key-value payload a tag carries.
package tag

import (
	"fmt"
	"strings"
)

// Data is the payload read from a single tag.
type Data struct {
	Fields map[string]string
	URL    string
}

// Decode parses a textual tag payload of key=value lines. A "url" key is
// lifted into the URL field. The payload must carry an identity key.
func Decode(payload string) (*Data, error) {
	d := &Data{Fields: map[string]string{}}

	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("malformed tag line %q", line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "url" {
			d.URL = value
			continue
		}
		d.Fields[key] = value
	}

	if d.Fields["name"] == "" {
		return nil, fmt.Errorf("tag payload has no name")
	}
	return d, nil
}

// EntryData flattens the payload into attendance entry data, folding the
// URL back in under its own key.
func (d *Data) EntryData() map[string]string {
	out := make(map[string]string, len(d.Fields)+1)
	for k, v := range d.Fields {
		out[k] = v
	}
	if d.URL != "" {
		out["url"] = d.URL
	}
	return out
}
