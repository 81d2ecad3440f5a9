package normalize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/poiesic/theoria/core"
)

// artifactFile is the on-disk layout of the mapping artifact.
type artifactFile struct {
	Mappings map[string][]string `yaml:"mappings"`
}

// ReadArtifact loads a mapping artifact from path.
// The artifact is a YAML document with a top-level "mappings" key; a bare
// canonical->variants document is also accepted. Blank canonicals and blank
// variants are dropped.
func ReadArtifact(path string) (core.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping artifact: %w", err)
	}

	var file artifactFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing mapping artifact: %w", err)
	}

	groups := file.Mappings
	if groups == nil {
		// Accept artifacts without the wrapper key.
		if err := yaml.Unmarshal(data, &groups); err != nil {
			return nil, fmt.Errorf("parsing mapping artifact: %w", err)
		}
	}

	mapping := make(core.Mapping, len(groups))
	for canonical, variants := range groups {
		if strings.TrimSpace(canonical) == "" {
			continue
		}
		cleaned := make([]string, 0, len(variants))
		for _, v := range variants {
			if strings.TrimSpace(v) != "" {
				cleaned = append(cleaned, v)
			}
		}
		mapping[canonical] = cleaned
	}
	return mapping, nil
}

// WriteArtifact persists a mapping artifact atomically: the document is
// written to a temporary file in the target directory and renamed into
// place, so a failed write never clobbers a previously valid artifact.
func WriteArtifact(path string, mapping core.Mapping) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	data, err := yaml.Marshal(artifactFile{Mappings: mapping})
	if err != nil {
		return fmt.Errorf("encoding mapping artifact: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".mapping-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temporary artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing mapping artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing mapping artifact: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publishing mapping artifact: %w", err)
	}
	return nil
}
