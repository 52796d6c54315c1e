// Package jsonpath implements a lookup component backed by a JSONPath
// query over a structured-data file loaded once at construction (spec
// section 2 item 9, section 4.3 "declared lookup functions").
package jsonpath

import (
	"fmt"

	pjsonpath "github.com/PaesslerAG/jsonpath"

	"github.com/wishbone-run/wishbone/internal/actor"
	"github.com/wishbone-run/wishbone/internal/dataloader"
	"github.com/wishbone-run/wishbone/internal/registry"
)

// New satisfies registry.LookupFactory. The "file" argument names a JSON or
// YAML document (loaded once, here, through a dataloader.Loader); each
// template call's key is evaluated as a JSONPath expression against that
// document.
func New(instanceName string, args registry.Args) (actor.LookupFunc, error) {
	file, _ := args["file"].(string)
	if file == "" {
		return nil, fmt.Errorf("jsonpath lookup %q: \"file\" argument is required", instanceName)
	}

	loader := dataloader.NewLoader(dataloader.DefaultConfig())
	doc, err := loader.Load(file)
	loader.Close()
	if err != nil {
		return nil, fmt.Errorf("jsonpath lookup %q: %w", instanceName, err)
	}

	return func(key string) (any, error) {
		v, err := pjsonpath.Get(key, doc)
		if err != nil {
			return nil, fmt.Errorf("jsonpath lookup: %q: %w", key, err)
		}
		return v, nil
	}, nil
}
