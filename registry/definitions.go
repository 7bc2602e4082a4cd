package registry

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/discovery/errors"
	"github.com/kbukum/discovery/validation"
)

// Definitions is a parsed service definitions document:
//
//	services:
//	  login:
//	    internal: 10.0.0.5:9501
//	    external: https://login.example.com
//
// JSON documents of the same shape are accepted too.
type Definitions struct {
	Services map[string]map[string]string
}

// IDs returns the defined service ids in sorted order.
func (d *Definitions) IDs() []string {
	ids := make([]string, 0, len(d.Services))
	for id := range d.Services {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ReadDefinitions reads and parses a definitions file.
func ReadDefinitions(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions %s: %w", path, err)
	}
	return ParseDefinitions(data)
}

// ParseDefinitions decodes and checks a whole definitions document. Any
// shape or content problem fails the document as a whole.
func ParseDefinitions(data []byte) (*Definitions, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Validation("definitions: malformed document").WithCause(err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.Validation("definitions: empty document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Validation("definitions: root must be a mapping")
	}
	services := lookupKey(root, "services")
	if services == nil {
		return nil, errors.MissingField("services")
	}
	if services.Kind != yaml.MappingNode {
		return nil, errors.Validation("definitions: services must be a mapping")
	}

	defs := &Definitions{Services: make(map[string]map[string]string, len(services.Content)/2)}
	v := validation.New()
	for i := 0; i+1 < len(services.Content); i += 2 {
		idNode, entry := services.Content[i], services.Content[i+1]
		id := idNode.Value
		if _, dup := defs.Services[id]; dup {
			return nil, errors.Validation(fmt.Sprintf("definitions: service %q defined twice (line %d)", id, idNode.Line))
		}
		if entry.Kind != yaml.MappingNode {
			return nil, errors.Validation(fmt.Sprintf("definitions: service %q must map networks to locations (line %d)", id, entry.Line))
		}
		v.ServiceID("services", id)

		networks := make(map[string]string, len(entry.Content)/2)
		for j := 0; j+1 < len(entry.Content); j += 2 {
			netNode, locNode := entry.Content[j], entry.Content[j+1]
			if _, dup := networks[netNode.Value]; dup {
				return nil, errors.Validation(fmt.Sprintf("definitions: service %q lists network %q twice (line %d)", id, netNode.Value, netNode.Line))
			}
			if locNode.Kind != yaml.ScalarNode || locNode.Tag != "!!str" {
				return nil, errors.Validation(fmt.Sprintf("definitions: location of %s.%s must be a string (line %d)", id, netNode.Value, locNode.Line))
			}
			v.Network("services."+id, netNode.Value).Location("services."+id+"."+netNode.Value, locNode.Value)
			networks[netNode.Value] = locNode.Value
		}
		defs.Services[id] = networks
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return defs, nil
}

func lookupKey(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// SetupServices writes every definition as a full record replacement, in
// sorted id order, stopping at the first failure.
func (r *Registry) SetupServices(ctx context.Context, defs *Definitions) error {
	for _, id := range defs.IDs() {
		if err := r.SetServiceNetworks(ctx, id, defs.Services[id]); err != nil {
			return fmt.Errorf("setup service %s: %w", id, err)
		}
	}
	return nil
}
