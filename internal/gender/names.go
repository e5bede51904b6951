package gender

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed gender_names.json
var defaultNamesJSON []byte

// NameTable is the read-only name-to-gender reference, loaded once during
// initialization and passed into the scorer as an immutable dependency.
type NameTable struct {
	male   map[string]struct{}
	female map[string]struct{}
}

// LoadNameTable reads a name table from path, or the embedded default when
// path is empty. The file is a JSON object with "male" and "female" arrays.
func LoadNameTable(path string) (*NameTable, error) {
	data := defaultNamesJSON
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read name table: %w", err)
		}
		data = b
	}

	var raw struct {
		Male   []string `json:"male"`
		Female []string `json:"female"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode name table: %w", err)
	}

	t := &NameTable{
		male:   make(map[string]struct{}, len(raw.Male)),
		female: make(map[string]struct{}, len(raw.Female)),
	}
	for _, n := range raw.Male {
		t.male[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
	for _, n := range raw.Female {
		t.female[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}
	return t, nil
}

// Male reports whether name (case-insensitive) is a known male given name.
func (t *NameTable) Male(name string) bool {
	_, ok := t.male[strings.ToLower(name)]
	return ok
}

// Female reports whether name (case-insensitive) is a known female given name.
func (t *NameTable) Female(name string) bool {
	_, ok := t.female[strings.ToLower(name)]
	return ok
}
