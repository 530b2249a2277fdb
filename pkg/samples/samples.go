// Package samples provides the built-in sample workspaces embedded in the
// binary, plus their companion custom effect modules.
//
// A sample is a workspace JSON document under data/. When a sample has a
// statically linked custom module registered under the same name, loading
// the sample registers that module after the builtins. This is the Go
// counterpart of a convention-based effect file living next to a sample
// document.
package samples

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/tomhans2/poc-palantir/pkg/effect"
)

//go:embed data/*.json
var sampleFS embed.FS

// customModules maps sample names to their companion effect modules
var customModules = map[string]func() *effect.Module{
	"private_banking": PrivateBankingModule,
}

// Sample describes one available sample workspace
type Sample struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List returns the available samples sorted by name, with descriptions
// taken from each document's metadata.
func List() []Sample {
	entries, err := sampleFS.ReadDir("data")
	if err != nil {
		return nil
	}

	out := make([]Sample, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".json")
		description := ""

		raw, err := sampleFS.ReadFile("data/" + entry.Name())
		if err == nil {
			var doc struct {
				Metadata struct {
					Description string `json:"description"`
				} `json:"metadata"`
			}
			if json.Unmarshal(raw, &doc) == nil {
				description = doc.Metadata.Description
			}
		}
		out = append(out, Sample{Name: name, Description: description})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Load returns the raw workspace document for a sample and its companion
// custom module, if one is linked in. Unknown names return ErrUnknownSample.
func Load(name string) ([]byte, *effect.Module, error) {
	raw, err := sampleFS.ReadFile("data/" + name + ".json")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSample, name)
	}

	var module *effect.Module
	if build, ok := customModules[name]; ok {
		module = build()
	}
	return raw, module, nil
}
