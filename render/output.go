package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"lynxssr/config"
)

const outputExt = ".html"

// Values is a struct that holds variables we make available for output name
// template expansion.
type Values struct {
	Context    string
	Name       string
	Entry      string
	SourceFile string
	RenderID   string
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}
	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", name, err)
	}
	return buf.String(), nil
}

func cleanPathSegment(segment string, transliterate bool) string {
	if transliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}

// outputPath returns name of the rendered file under dst. Without template
// (or when template expands to nothing) source file name is used, template
// may produce subdirectories.
func outputPath(dst string, cfg *config.RenderConfig, values Values) (string, error) {
	name := values.SourceFile
	if cfg.OutputNameTemplate != "" {
		expanded, err := expandTemplate(config.OutputNameTemplateFieldName, cfg.OutputNameTemplate, values)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(expanded) != "" {
			name = expanded
		}
	}

	var segments []string
	for _, s := range strings.Split(filepath.ToSlash(name), "/") {
		if strings.TrimSpace(s) == "" {
			continue
		}
		segments = append(segments, cleanPathSegment(s, cfg.FileNameTransliterate))
	}
	if len(segments) == 0 {
		segments = []string{cleanPathSegment(values.SourceFile, cfg.FileNameTransliterate)}
	}
	segments[len(segments)-1] += outputExt
	return filepath.Join(append([]string{dst}, segments...)...), nil
}
