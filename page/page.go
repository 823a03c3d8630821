// Package page reads page descriptions: stylesheets and element tree which
// together stand in for the template bundle of a Lynx card.
package page

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"
)

type (
	// StyleSheetSource is a single stylesheet of the page. CSS text is given
	// either inline or as a path relative to the description file.
	StyleSheetSource struct {
		ID      int    `yaml:"id" validate:"gte=0"`
		Imports []int  `yaml:"imports,omitempty" validate:"dive,gte=0"`
		CSS     string `yaml:"css,omitempty" validate:"excluded_with=File"`
		File    string `yaml:"file,omitempty"`
	}

	Root struct {
		ComponentID string `yaml:"component_id"`
		CSSID       int    `yaml:"css_id" validate:"gte=0"`
	}

	// Node is an element of the page tree. Class names come from the
	// "class" attribute, style is rewritten when applied.
	Node struct {
		Tag         string            `yaml:"tag" validate:"required,excludesall=<>\"' "`
		ComponentID string            `yaml:"component_id,omitempty"`
		CSSID       *int              `yaml:"css_id,omitempty" validate:"omitempty,gte=0"`
		Attributes  map[string]string `yaml:"attributes,omitempty" validate:"dive,keys,required,excludesall=<>\"'= ,endkeys"`
		Dataset     map[string]string `yaml:"dataset,omitempty"`
		Style       string            `yaml:"style,omitempty"`
		Children    []*Node           `yaml:"children,omitempty" validate:"dive,required"`
	}

	Description struct {
		Name        string             `yaml:"name" validate:"required"`
		EntryName   string             `yaml:"entry_name,omitempty"`
		StyleSheets []StyleSheetSource `yaml:"stylesheets,omitempty" validate:"unique=ID,dive"`
		Page        Root               `yaml:"page"`
		Tree        *Node              `yaml:"tree,omitempty" validate:"required_without=TreeXML,excluded_with=TreeXML"`
		TreeXML     string             `yaml:"tree_xml,omitempty"`
	}
)

// Decode reads description from YAML. Unknown fields are rejected, element
// tree given as XML is converted to nodes. Stylesheet files are resolved
// relative to dir.
func Decode(data []byte, dir string) (*Description, error) {
	return decode(data, func(name string) ([]byte, error) {
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		return os.ReadFile(name)
	})
}

// DecodeFS is Decode for descriptions kept in fsys (zip archive for example),
// stylesheet files are resolved relative to dir inside fsys.
func DecodeFS(data []byte, fsys fs.FS, dir string) (*Description, error) {
	return decode(data, func(name string) ([]byte, error) {
		return fs.ReadFile(fsys, path.Join(dir, filepath.ToSlash(name)))
	})
}

func decode(data []byte, readFile func(name string) ([]byte, error)) (*Description, error) {
	d := &Description{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(d); err != nil {
		return nil, fmt.Errorf("failed to decode page description: %w", err)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(d); err != nil {
		return nil, fmt.Errorf("invalid page description: %w", err)
	}

	if d.TreeXML != "" {
		tree, err := parseTreeXML(d.TreeXML)
		if err == nil {
			err = v.Struct(tree)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid page description: %w", err)
		}
		d.Tree = tree
	}

	for i := range d.StyleSheets {
		s := &d.StyleSheets[i]
		if s.File == "" {
			continue
		}
		data, err := readFile(s.File)
		if err != nil {
			return nil, fmt.Errorf("unable to read stylesheet %d: %w", s.ID, err)
		}
		s.CSS = string(data)
	}
	return d, nil
}

// Load reads page description from file.
func Load(name string) (*Description, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unable to read page description: %w", err)
	}
	d, err := Decode(data, filepath.Dir(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}
