// Package vcap exposes Cloud Foundry VCAP_SERVICES and
// VCAP_APPLICATION data as vcap.* property paths for placeholder
// resolution.
package vcap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/pkg/errors"
	"github.com/spf13/cast"
)

// Config holds the vcap.* property tree. Supplied distinguishes "no
// VCAP input given" from "given but missing a path", which changes the
// advisory warnings the resolver emits.
type Config struct {
	Tree     *document.Mapping
	Supplied bool
}

func New() *Config {
	return &Config{Tree: document.NewMapping()}
}

// LoadServices parses a VCAP_SERVICES JSON document, keying each
// service instance by its name under vcap.services.
func (c *Config) LoadServices(raw []byte) error {
	var services map[string][]map[string]any

	err := json.Unmarshal(raw, &services)
	if err != nil {
		return fmt.Errorf("VCAP_SERVICES: %s (%w)", err, errors.ErrDecode)
	}

	for _, instances := range services {
		for _, instance := range instances {
			name := cast.ToString(instance["name"])
			if name == "" {
				continue
			}

			path := fmt.Sprintf("vcap.services.%s", name)
			document.Set(c.Tree, path, document.FromAny(map[string]any(instance)))
		}
	}

	document.Normalize(c.Tree)
	c.Supplied = true

	return nil
}

// LoadApplication parses a VCAP_APPLICATION JSON document into
// vcap.application.* paths.
func (c *Config) LoadApplication(raw []byte) error {
	var app map[string]any

	err := json.Unmarshal(raw, &app)
	if err != nil {
		return fmt.Errorf("VCAP_APPLICATION: %s (%w)", err, errors.ErrDecode)
	}

	document.Set(c.Tree, "vcap.application", document.FromAny(app))
	document.Normalize(c.Tree)
	c.Supplied = true

	return nil
}

// Lookup resolves a vcap.* property path against the loaded trees.
func (c *Config) Lookup(path string) (any, bool) {
	if c == nil {
		return nil, false
	}

	return document.Get(c.Tree, path)
}

// IsVCAPPath reports whether a property path refers to Cloud Foundry
// injected data.
func IsVCAPPath(path string) bool {
	return path == "vcap" || strings.HasPrefix(path, "vcap.")
}
