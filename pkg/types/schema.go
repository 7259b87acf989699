// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Primitive field types understood by Definitions.Check. Any other type name
// refers to a class; a "[]" suffix denotes a list of the element type.
const (
	FieldString = "string"
	FieldInt    = "int"
	FieldFloat  = "float"
	FieldBool   = "bool"
	FieldList   = "list"
	FieldMap    = "map"
)

// FieldDef describes one field of a class.
type FieldDef struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ClassDef describes the shape of an extracted record.
type ClassDef struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []FieldDef `json:"fields" yaml:"fields"`
}

// FunctionDef declares an extraction function and the class it returns.
type FunctionDef struct {
	Name    string `json:"name" yaml:"name"`
	Returns string `json:"returns" yaml:"returns"`
	Prompt  string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
}

// SchemaFile is the on-disk layout of one definitions file.
type SchemaFile struct {
	Classes   []ClassDef    `json:"classes" yaml:"classes"`
	Functions []FunctionDef `json:"functions" yaml:"functions"`
}

// Definitions is the set of classes and functions loaded from a schema
// directory. It is built once and only read afterwards.
type Definitions struct {
	classes   map[string]ClassDef
	functions map[string]FunctionDef
}

// NewDefinitions returns an empty definition set.
func NewDefinitions() *Definitions {
	return &Definitions{
		classes:   make(map[string]ClassDef),
		functions: make(map[string]FunctionDef),
	}
}

// Add merges the contents of one schema file. Duplicate or unnamed entries are
// rejected; source names the file in error messages.
func (d *Definitions) Add(source string, f SchemaFile) error {
	for _, c := range f.Classes {
		if c.Name == "" {
			return fmt.Errorf("%s: class without a name", source)
		}
		if _, dup := d.classes[c.Name]; dup {
			return fmt.Errorf("%s: duplicate class %q", source, c.Name)
		}
		for _, fd := range c.Fields {
			if fd.Name == "" || fd.Type == "" {
				return fmt.Errorf("%s: class %q has a field without name or type", source, c.Name)
			}
		}
		d.classes[c.Name] = c
	}
	for _, fn := range f.Functions {
		if fn.Name == "" {
			return fmt.Errorf("%s: function without a name", source)
		}
		if _, dup := d.functions[fn.Name]; dup {
			return fmt.Errorf("%s: duplicate function %q", source, fn.Name)
		}
		d.functions[fn.Name] = fn
	}
	return nil
}

// Resolve checks that every function return type and every class-typed field
// names a known class.
func (d *Definitions) Resolve() error {
	var errs []string
	for _, name := range d.FunctionNames() {
		fn := d.functions[name]
		if _, ok := d.classes[fn.Returns]; !ok {
			errs = append(errs, fmt.Sprintf("function %q returns unknown class %q", fn.Name, fn.Returns))
		}
	}
	for _, name := range d.ClassNames() {
		for _, fd := range d.classes[name].Fields {
			elem := strings.TrimSuffix(fd.Type, "[]")
			if isPrimitive(elem) {
				continue
			}
			if _, ok := d.classes[elem]; !ok {
				errs = append(errs, fmt.Sprintf("class %q field %q has unknown type %q", name, fd.Name, fd.Type))
			}
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Class returns the class named name.
func (d *Definitions) Class(name string) (ClassDef, bool) {
	c, ok := d.classes[name]
	return c, ok
}

// Function returns the function named name.
func (d *Definitions) Function(name string) (FunctionDef, bool) {
	fn, ok := d.functions[name]
	return fn, ok
}

// ClassNames returns the sorted class names.
func (d *Definitions) ClassNames() []string {
	return sortedKeys(d.classes)
}

// FunctionNames returns the sorted function names.
func (d *Definitions) FunctionNames() []string {
	return sortedKeys(d.functions)
}

// Check reports whether v is a record of the named class: a map with every
// required field present and every present field of the declared type.
func (d *Definitions) Check(class string, v any) error {
	c, ok := d.classes[class]
	if !ok {
		return fmt.Errorf("unknown class %q", class)
	}
	var errs []string
	d.checkClass(c, v, class, &errs)
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (d *Definitions) checkClass(c ClassDef, v any, path string, errs *[]string) {
	record, ok := v.(map[string]any)
	if !ok {
		*errs = append(*errs, fmt.Sprintf("%s: expected %s record, got %T", path, c.Name, v))
		return
	}
	for _, fd := range c.Fields {
		val, present := record[fd.Name]
		fieldPath := path + "." + fd.Name
		if !present || val == nil {
			if fd.Required {
				*errs = append(*errs, fmt.Sprintf("%s: missing required field", fieldPath))
			}
			continue
		}
		d.checkValue(fd.Type, val, fieldPath, errs)
	}
}

func (d *Definitions) checkValue(typ string, v any, path string, errs *[]string) {
	if elem, isList := strings.CutSuffix(typ, "[]"); isList {
		items, ok := v.([]any)
		if !ok {
			*errs = append(*errs, fmt.Sprintf("%s: expected list, got %T", path, v))
			return
		}
		for i, item := range items {
			d.checkValue(elem, item, fmt.Sprintf("%s[%d]", path, i), errs)
		}
		return
	}

	var ok bool
	switch typ {
	case FieldString:
		_, ok = v.(string)
	case FieldInt:
		_, ok = AsInt(v)
	case FieldFloat:
		ok = isNumber(v)
	case FieldBool:
		_, ok = v.(bool)
	case FieldList:
		_, ok = v.([]any)
	case FieldMap:
		_, ok = v.(map[string]any)
	default:
		c, known := d.classes[typ]
		if !known {
			*errs = append(*errs, fmt.Sprintf("%s: unknown type %q", path, typ))
			return
		}
		d.checkClass(c, v, path, errs)
		return
	}
	if !ok {
		*errs = append(*errs, fmt.Sprintf("%s: expected %s, got %T", path, typ, v))
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	_, ok := AsInt(v)
	return ok
}

func isPrimitive(typ string) bool {
	switch typ {
	case FieldString, FieldInt, FieldFloat, FieldBool, FieldList, FieldMap:
		return true
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
