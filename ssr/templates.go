package ssr

import (
	"embed"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

//go:embed templates/*.html
var templateFiles embed.FS

func mustReadTemplate(tag string) string {
	data, err := templateFiles.ReadFile("templates/" + tag + ".html")
	if err != nil {
		panic("embedded template missing: " + tag + ": " + err.Error())
	}
	return string(data)
}

// ErrPotentialXSS is returned when image source looks like markup injection.
var ErrPotentialXSS = errors.New("detected <script, this is a potential XSS attack, please check your src")

// shadowTemplates are shadow root contents of built-in elements which do not
// depend on element attributes.
var shadowTemplates = func() map[string]string {
	m := make(map[string]string)
	for _, tag := range []string{
		"scroll-view",
		"x-audio-tt",
		"x-input",
		"x-list",
		"x-overlay-ng",
		"x-refresh-view",
		"x-svg",
		"x-swiper",
		"x-text",
		"x-textarea",
		"x-viewpager-ng",
		"x-web-view",
	} {
		m[tag] = mustReadTemplate(tag)
	}
	return m
}()

// image-like elements render src into their shadow root
var imageTags = map[string]bool{
	"x-image":      true,
	"filter-image": true,
	"inline-image": true,
}

// imageTemplate returns shadow root content of image-like element.
func imageTemplate(src string, hasSrc bool) (string, error) {
	if !hasSrc {
		return `<img part="img" alt="" id="img" /> `, nil
	}
	for i, part := range strings.Split(cases.Fold().String(src), "<") {
		if i == 0 {
			continue
		}
		if strings.HasPrefix(strings.TrimLeftFunc(part, unicode.IsSpace), "script") {
			return "", ErrPotentialXSS
		}
	}
	return `<img part="img" alt="" id="img" src="` + EscapeAttribute(src) + `"/> `, nil
}

// ShadowTemplate returns shadow root content for tag, ok is false when tag
// has none.
func ShadowTemplate(tag string, attrs *Attributes) (content string, ok bool, err error) {
	if imageTags[tag] {
		src, hasSrc := attrs.Get("src")
		content, err = imageTemplate(src, hasSrc)
		if err != nil {
			return "", false, err
		}
		return content, true, nil
	}
	content, ok = shadowTemplates[tag]
	return content, ok, nil
}
