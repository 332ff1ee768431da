package query

import (
	"mercator-hq/huntquery/pkg/query/render"
)

// Render renders a template. It is a convenience wrapper around
// Template.Render for callers holding the interface.
func Render(t render.Template) (string, error) {
	return t.Render()
}

// RenderDefault renders the named pattern with its default parameters.
// Patterns that need caller input, such as network-from-application, fail
// with ErrInvalidParameter.
func RenderDefault(pattern string) (string, error) {
	t, err := render.Defaults(render.Pattern(pattern))
	if err != nil {
		return "", err
	}
	return t.Render()
}

// MustRender is like Render but panics on error. Use it only with templates
// built from constants.
func MustRender(t render.Template) string {
	text, err := t.Render()
	if err != nil {
		panic(err)
	}
	return text
}
