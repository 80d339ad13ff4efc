// Package template renders text templates for a platform.
package template

import (
	"fmt"
	"io"
	"text/template"

	"github.com/kernelci/kcicfg/types"
)

// Data is the value passed to a template for one platform.
type Data struct {
	Name       string
	Arch       string
	BaseName   string
	BootMethod string
	Mach       string
	DTB        string // empty when the platform has no dtb
	Context    map[string]any
	Params     map[string]any
}

// NewData resolves every field of p for use in a template.
func NewData(p types.Platform) Data {
	dtb, _ := p.DTB()
	return Data{
		Name:       p.Name(),
		Arch:       p.Arch(),
		BaseName:   p.BaseName(),
		BootMethod: p.BootMethod(),
		Mach:       p.Mach(),
		DTB:        dtb,
		Context:    p.Context(),
		Params:     p.Params(),
	}
}

// Funcs returns the functions available to every template.
func Funcs() template.FuncMap {
	tf := &TimeFuncs{}
	return template.FuncMap{
		"now":       tf.Now,
		"parseTime": tf.Parse,
	}
}

// Render executes text as a template for p and writes the output to w.
func Render(w io.Writer, text string, p types.Platform) error {
	t, err := template.New(p.Name()).Funcs(Funcs()).Option("missingkey=zero").Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	err = t.Execute(w, NewData(p))
	if err != nil {
		return fmt.Errorf("failed to render template for %s: %w", p.Name(), err)
	}
	return nil
}
