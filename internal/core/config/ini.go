package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// INIParser implements koanf.Parser for dwh.cfg style files. Section and key
// names are lowercased, so [CLUSTER] HOST becomes cluster.host. Surrounding
// single or double quotes are stripped from values.
type INIParser struct{}

// IniParser returns a koanf parser for INI files.
func IniParser() *INIParser {
	return &INIParser{}
}

// Unmarshal parses INI bytes into a nested map.
func (p *INIParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:         true,
		IgnoreInlineComment: true,
	}, b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ini: %w", err)
	}

	out := make(map[string]interface{})
	for _, section := range f.Sections() {
		keys := section.Keys()
		if len(keys) == 0 {
			continue
		}

		values := make(map[string]interface{}, len(keys))
		for _, key := range keys {
			values[key.Name()] = unquote(key.Value())
		}

		if strings.EqualFold(section.Name(), ini.DefaultSection) {
			for k, v := range values {
				out[k] = v
			}
			continue
		}
		out[section.Name()] = values
	}
	return out, nil
}

// Marshal is not supported; configuration is read-only.
func (p *INIParser) Marshal(map[string]interface{}) ([]byte, error) {
	return nil, errors.New("ini marshalling is not supported")
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '\'' || first == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
