package layout

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"gmapi/process"

	"gopkg.in/ini.v1"
)

// Override files adjust the catalog for runner builds whose addresses
// differ from the built-in ones:
//
//	[v70]
//	sprites          = 0x00686A28
//	main_window      = 0x00686950,0x30
//	signature        = 47 61 6D 65 ?? 4D 61 6B 65 72
//	signature_address = 0x0058A3C4
//
//	[v61]
//	highscore_window = unsupported
var sectionVersions = map[string]Version{
	"v61": V61,
	"v70": V70,
}

// LoadOverrides reads an override file and returns a copy of catalog with
// the overrides applied. The input catalog is not modified.
func LoadOverrides(path string, catalog Catalog) (Catalog, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe overrides: %w", err)
	}
	return ApplyOverrides(f, catalog)
}

// ApplyOverrides applies an already parsed override file.
func ApplyOverrides(f *ini.File, catalog Catalog) (Catalog, error) {
	out := catalog.Clone()

	for _, sec := range f.Sections() {
		name := strings.ToLower(sec.Name())
		if name == strings.ToLower(ini.DEFAULT_SECTION) {
			if len(sec.Keys()) > 0 {
				return nil, fmt.Errorf("recipe overrides: keys outside a version section")
			}
			continue
		}

		version, ok := sectionVersions[name]
		if !ok {
			return nil, fmt.Errorf("recipe overrides: unknown section [%s]", sec.Name())
		}

		idx := -1
		for i := range out {
			if out[i].Version == version {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("recipe overrides: version %s not in catalog", version)
		}

		if err := applySection(sec, &out[idx]); err != nil {
			return nil, fmt.Errorf("recipe overrides [%s]: %w", sec.Name(), err)
		}
	}

	return out, nil
}

func applySection(sec *ini.Section, r *Recipe) error {
	locations := r.Locations()

	for _, key := range sec.Keys() {
		switch name := key.Name(); name {
		case "signature":
			aob, err := ParsePattern(key.String())
			if err != nil {
				return fmt.Errorf("signature: %w", err)
			}
			r.Signature.AOB = aob
		case "signature_address":
			v, err := strconv.ParseUint(strings.TrimSpace(key.String()), 0, 32)
			if err != nil {
				return fmt.Errorf("signature_address: %w", err)
			}
			r.Signature.Address = process.ProcessMemoryAddress(v)
		default:
			loc, ok := locations[name]
			if !ok {
				return fmt.Errorf("unknown key %q", name)
			}
			parsed, err := ParseLocation(key.String())
			if err != nil {
				return err
			}
			*loc = parsed
		}
	}

	return nil
}

// ParsePattern parses space separated hex bytes; "??" is a wildcard.
func ParsePattern(s string) (process.AOB, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return process.AOB{}, fmt.Errorf("empty pattern")
	}

	pattern := make([]byte, len(fields))
	mask := make([]byte, len(fields))
	wildcard := false
	for i, f := range fields {
		if f == "??" || f == "?" {
			wildcard = true
			continue
		}
		b, err := hex.DecodeString(f)
		if err != nil || len(b) != 1 {
			return process.AOB{}, fmt.Errorf("bad pattern byte %q", f)
		}
		pattern[i] = b[0]
		mask[i] = 0xFF
	}

	if !wildcard {
		mask = nil
	}
	return process.AOB{Pattern: pattern, Mask: mask}, nil
}
