package emission

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type profilesFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfilesYAML decodes a list of profiles:
//
//	profiles:
//	  - name: grid-2023
//	    unit: tCO2e/GWh
//	    coefficients:
//	      - {keyword: coal, value: 1.02}
//
// Coefficient order in the document is preserved.
func LoadProfilesYAML(r io.Reader) ([]Profile, error) {
	var f profilesFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	out := make([]Profile, 0, len(f.Profiles))
	for _, raw := range f.Profiles {
		p, err := NewProfile(raw.Name, raw.Unit, raw.Coefficients...)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// MarshalProfilesYAML encodes profiles in the format read by LoadProfilesYAML.
func MarshalProfilesYAML(ps []Profile) ([]byte, error) {
	b, err := yaml.Marshal(profilesFile{Profiles: ps})
	if err != nil {
		return nil, fmt.Errorf("marshal profiles: %w", err)
	}
	return b, nil
}
