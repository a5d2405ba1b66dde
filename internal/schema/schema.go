// Package schema models the JSON Schema subset used by tool input
// schemas and compiles each schema once into a reusable validator.
package schema

import (
	"fmt"
	"math"
	"regexp"
	"sort"
)

// Schema is one node of a tool input or output schema. It marshals to
// the exact JSON the wire contract expects, so descriptors listed via
// tools/list round-trip unchanged.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Pattern     string             `json:"pattern,omitempty"`
	MinLength   *int               `json:"minLength,omitempty"`
	MaxLength   *int               `json:"maxLength,omitempty"`
	Format      string             `json:"format,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// IntPtr is a convenience for minLength/maxLength literals in
// descriptor tables.
func IntPtr(n int) *int { return &n }

// Violation is one failed constraint, addressed by the path of the
// offending value.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Validator is a compiled schema. Compilation happens once at startup;
// a Validator is safe for concurrent use.
type Validator struct {
	root *compiled
}

// compiled mirrors Schema with regexps pre-compiled and property names
// pre-sorted so validation order is deterministic.
type compiled struct {
	typ        string
	pattern    *regexp.Regexp
	patternSrc string
	minLen     *int
	maxLen     *int
	required   []string
	propNames  []string
	props      map[string]*compiled
	items      *compiled
}

// Compile turns a schema into an executable validator. A compile error
// (such as an invalid pattern) is a startup-fatal condition for callers.
func Compile(s *Schema) (*Validator, error) {
	if s == nil {
		return nil, fmt.Errorf("schema is nil")
	}
	root, err := compileNode(s, "(root)")
	if err != nil {
		return nil, err
	}
	return &Validator{root: root}, nil
}

func compileNode(s *Schema, path string) (*compiled, error) {
	c := &compiled{
		typ:        s.Type,
		patternSrc: s.Pattern,
		minLen:     s.MinLength,
		maxLen:     s.MaxLength,
		required:   s.Required,
	}

	if s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern at %s: %w", path, err)
		}
		c.pattern = re
	}

	if len(s.Properties) > 0 {
		c.props = make(map[string]*compiled, len(s.Properties))
		for name, prop := range s.Properties {
			child, err := compileNode(prop, childPath(path, name))
			if err != nil {
				return nil, err
			}
			c.props[name] = child
			c.propNames = append(c.propNames, name)
		}
		sort.Strings(c.propNames)
	}

	if s.Items != nil {
		item, err := compileNode(s.Items, path+"[]")
		if err != nil {
			return nil, err
		}
		c.items = item
	}

	return c, nil
}

// Validate checks arguments against the compiled schema and returns the
// ordered list of violations. An empty slice means the arguments are
// valid. A nil argument map is treated as an empty object.
func (v *Validator) Validate(args map[string]any) []Violation {
	var out []Violation
	if args == nil {
		args = map[string]any{}
	}
	v.root.check("(root)", args, &out)
	return out
}

func (c *compiled) check(path string, val any, out *[]Violation) {
	switch c.typ {
	case "object", "":
		obj, ok := val.(map[string]any)
		if !ok {
			add(out, path, "must be an object")
			return
		}
		for _, name := range c.required {
			if _, present := obj[name]; !present {
				add(out, childPath(path, name), "required property is missing")
			}
		}
		for _, name := range c.propNames {
			pv, present := obj[name]
			if !present {
				continue
			}
			c.props[name].check(childPath(path, name), pv, out)
		}

	case "string":
		s, ok := val.(string)
		if !ok {
			add(out, path, "must be a string")
			return
		}
		if c.minLen != nil && len(s) < *c.minLen {
			add(out, path, fmt.Sprintf("must be at least %d characters long", *c.minLen))
		}
		if c.maxLen != nil && len(s) > *c.maxLen {
			add(out, path, fmt.Sprintf("must be at most %d characters long", *c.maxLen))
		}
		if c.pattern != nil && !c.pattern.MatchString(s) {
			add(out, path, fmt.Sprintf("must match pattern %q", c.patternSrc))
		}

	case "number":
		if !isNumber(val) {
			add(out, path, "must be a number")
		}

	case "integer":
		f, ok := asFloat(val)
		if !ok || f != math.Trunc(f) {
			add(out, path, "must be an integer")
		}

	case "boolean":
		if _, ok := val.(bool); !ok {
			add(out, path, "must be a boolean")
		}

	case "array":
		arr, ok := val.([]any)
		if !ok {
			add(out, path, "must be an array")
			return
		}
		if c.items != nil {
			for i, item := range arr {
				c.items.check(fmt.Sprintf("%s[%d]", path, i), item, out)
			}
		}

	default:
		add(out, path, fmt.Sprintf("unsupported schema type %q", c.typ))
	}
}

func add(out *[]Violation, path, message string) {
	*out = append(*out, Violation{Path: path, Message: message})
}

func childPath(parent, name string) string {
	if parent == "(root)" {
		return name
	}
	return parent + "." + name
}

func isNumber(val any) bool {
	_, ok := asFloat(val)
	return ok
}

// asFloat accepts the numeric shapes that json.Unmarshal and Go callers
// produce.
func asFloat(val any) (float64, bool) {
	switch n := val.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
