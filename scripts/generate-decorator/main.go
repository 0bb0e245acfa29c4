// Command generate-decorator scaffolds decorator definition files. Run it
// with -manifest to generate from a YAML description, or without flags for an
// interactive session.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/flosch/pongo2/v6"
	"gopkg.in/yaml.v3"
)

type manifest struct {
	Package    string      `yaml:"package"`
	Decorators []decorator `yaml:"decorators"`
}

type decorator struct {
	Name         string   `yaml:"name"`
	Source       string   `yaml:"source"`
	Attributes   []string `yaml:"attributes"`
	Associations []string `yaml:"associations"`
}

const fileTemplate = `package {{ package }}

import (
	"github.com/goliatone/go-presenter/pkg/decorator"
)

{% for d in decorators %}// {{ d.Name }} presents {{ d.Source }} values.
var {{ d.Name }} = decorator.MustNewDefinition("{{ d.Name }}"{% if d.Source %}, decorator.WithSourceType(&{{ d.Source }}{}){% endif %})

func init() {
{% for attr in d.Attributes %}	{{ d.Name }}.DefineAttribute("{{ attr }}", func(d *decorator.Decorator) any {
		// TODO: compute the serialized {{ attr }} value
		return nil
	})
{% endfor %}{% for assoc in d.Associations %}	if err := {{ d.Name }}.DecorateAssociation("{{ assoc }}"); err != nil {
		panic(err)
	}
{% endfor %}}

{% endfor %}`

func main() {
	var (
		manifestPath = flag.String("manifest", "", "YAML manifest describing the decorators to scaffold")
		outputDir    = flag.String("output", ".", "directory for the generated file")
		packageName  = flag.String("package", "presenters", "package name for the generated file")
	)
	flag.Parse()

	var m manifest
	var err error
	if *manifestPath != "" {
		m, err = loadManifest(*manifestPath)
	} else {
		m, err = promptManifest(*packageName)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to collect decorator descriptions: %v\n", err)
		os.Exit(1)
	}
	if m.Package == "" {
		m.Package = *packageName
	}
	if len(m.Decorators) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to generate: no decorators described")
		os.Exit(1)
	}

	source, err := render(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render scaffold: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join(*outputDir, fileName(m))
	if err := os.WriteFile(outputPath, source, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write output: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Generated %d decorator definition(s) → %s\n", len(m.Decorators), outputPath)
}

func loadManifest(path string) (manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}

func promptManifest(defaultPackage string) (manifest, error) {
	m := manifest{Package: defaultPackage}

	for {
		var d decorator
		err := survey.AskOne(&survey.Input{
			Message: "Definition name (ProductDecorator):",
		}, &d.Name, survey.WithValidator(validDefinitionName))
		if err != nil {
			return manifest{}, err
		}
		if err := survey.AskOne(&survey.Input{
			Message: "Source type (model.Product, empty for name-based inference):",
		}, &d.Source); err != nil {
			return manifest{}, err
		}
		if d.Attributes, err = promptList("Serialization attribute"); err != nil {
			return manifest{}, err
		}
		if d.Associations, err = promptList("Decorated association"); err != nil {
			return manifest{}, err
		}
		m.Decorators = append(m.Decorators, d)

		var more bool
		if err := survey.AskOne(&survey.Confirm{Message: "Add another definition?"}, &more); err != nil {
			return manifest{}, err
		}
		if !more {
			return m, nil
		}
	}
}

func promptList(label string) ([]string, error) {
	var out []string
	for {
		var entry string
		err := survey.AskOne(&survey.Input{
			Message: fmt.Sprintf("%s (empty to finish):", label),
		}, &entry)
		if err != nil {
			return nil, err
		}
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return out, nil
		}
		out = append(out, entry)
	}
}

func validDefinitionName(v any) error {
	name, _ := v.(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("definition name is required")
	}
	if !strings.HasSuffix(name, "Decorator") {
		return fmt.Errorf("definition names end in Decorator by convention")
	}
	return nil
}

func render(m manifest) ([]byte, error) {
	tmpl, err := pongo2.FromString(fileTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	out, err := tmpl.ExecuteBytes(pongo2.Context{
		"package":    m.Package,
		"decorators": m.Decorators,
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return out, nil
}

func fileName(m manifest) string {
	if len(m.Decorators) == 1 {
		base := strings.TrimSuffix(m.Decorators[0].Name, "Decorator")
		if base != "" {
			return strings.ToLower(base) + "_decorator.go"
		}
	}
	return "decorators.go"
}
