package notify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Template maps a logical template name to the provider-side template.
type Template struct {
	ID      string `yaml:"id"`
	Subject string `yaml:"subject"`
}

type templateFile struct {
	Templates map[string]Template `yaml:"templates"`
}

// TemplateRegistry resolves logical template names to provider templates.
type TemplateRegistry struct {
	templates map[string]Template
}

func LoadTemplates(path string) (*TemplateRegistry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template file: %w", err)
	}

	var file templateFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse template file: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("template file %s defines no templates", path)
	}

	return &TemplateRegistry{templates: file.Templates}, nil
}

// NewTemplateRegistry builds a registry from an in-memory map, mainly for
// tests.
func NewTemplateRegistry(templates map[string]Template) *TemplateRegistry {
	return &TemplateRegistry{templates: templates}
}

func (r *TemplateRegistry) Lookup(name string) (Template, error) {
	t, ok := r.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("unknown mail template %q", name)
	}
	return t, nil
}
