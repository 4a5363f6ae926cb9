// Package plan turns an alert into an ordered list of investigation steps.
//
// Dispatch is table driven: every core.Category maps to a fixed sequence of
// step templates, loaded from an embedded YAML table. Unrecognized alert
// types resolve to core.CategoryUnknown and receive the default plan.
package plan

import (
	_ "embed"
	"fmt"
	"sort"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/alertmesh/core"
	"github.com/hupe1980/alertmesh/internal/util"
)

//go:embed plans.yaml
var defaultTable []byte

// StepTemplate is one entry of the plan table. Param values may reference
// {{.Service}} and {{.Type}}.
type StepTemplate struct {
	Step   string            `yaml:"step"`
	Tool   string            `yaml:"tool"`
	Params map[string]string `yaml:"params"`
}

// Table maps each category to its step templates.
type Table map[core.Category][]StepTemplate

// ParseTable decodes a YAML plan table.
func ParseTable(data []byte) (Table, error) {
	var raw map[string][]StepTemplate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse plan table: %w", err)
	}

	table := make(Table, len(raw))
	for k, steps := range raw {
		table[core.Category(k)] = steps
	}

	return table, nil
}

// DefaultTable returns the embedded plan table.
func DefaultTable() Table {
	t, err := ParseTable(defaultTable)
	if err != nil {
		panic(err)
	}

	return t
}

// Options configures a Builder.
type Options struct {
	// Table overrides the embedded plan table.
	Table Table
}

type renderData struct {
	Service string
	Type    string
}

type compiledStep struct {
	step   string
	tool   string
	params map[string]*template.Template
}

// Builder maps alerts to plans. It is immutable after construction and
// safe for concurrent use.
type Builder struct {
	plans map[core.Category][]compiledStep
	tools []string
}

// NewBuilder compiles the plan table. Every category returned by
// core.AllCategories must have at least one step, only known categories may
// appear and every param template must parse and render.
func NewBuilder(optFns ...func(o *Options)) (*Builder, error) {
	opts := Options{}

	for _, fn := range optFns {
		fn(&opts)
	}

	table := opts.Table
	if table == nil {
		table = DefaultTable()
	}

	known := make(map[core.Category]bool)
	for _, c := range core.AllCategories() {
		known[c] = true

		if len(table[c]) == 0 {
			return nil, fmt.Errorf("plan table has no steps for category %s", c)
		}
	}

	b := &Builder{plans: make(map[core.Category][]compiledStep, len(table))}
	toolSet := make(map[string]bool)

	for category, steps := range table {
		if !known[category] {
			return nil, fmt.Errorf("plan table references unknown category %s", category)
		}

		compiled := make([]compiledStep, 0, len(steps))

		for i, st := range steps {
			if st.Step == "" || st.Tool == "" {
				return nil, fmt.Errorf("plan %s step %d: step and tool are required", category, i)
			}

			cs := compiledStep{step: st.Step, tool: st.Tool, params: make(map[string]*template.Template, len(st.Params))}

			for name, text := range st.Params {
				tmpl, err := util.ParseTemplate(fmt.Sprintf("%s.%s.%s", category, st.Step, name), text)
				if err != nil {
					return nil, fmt.Errorf("plan %s step %s: %w", category, st.Step, err)
				}

				if _, err := util.ExecuteTemplate(tmpl, renderData{Service: "svc", Type: string(category)}); err != nil {
					return nil, fmt.Errorf("plan %s step %s param %s: %w", category, st.Step, name, err)
				}

				cs.params[name] = tmpl
			}

			compiled = append(compiled, cs)
			toolSet[st.Tool] = true
		}

		b.plans[category] = compiled
	}

	for name := range toolSet {
		b.tools = append(b.tools, name)
	}

	sort.Strings(b.tools)

	return b, nil
}

// Build returns the plan for alert. It is deterministic and returns fresh
// slices and maps on every call. Service is rendered verbatim, so an empty
// service yields params such as "-pod".
func (b *Builder) Build(alert core.Alert) []core.PlanStep {
	data := renderData{Service: alert.Service, Type: alert.Type}

	steps := b.plans[alert.Category()]
	out := make([]core.PlanStep, 0, len(steps))

	for _, cs := range steps {
		params := make(map[string]string, len(cs.params))

		for name, tmpl := range cs.params {
			// templates were trial-rendered in NewBuilder
			v, err := util.ExecuteTemplate(tmpl, data)
			if err != nil {
				v = tmpl.Root.String()
			}

			params[name] = v
		}

		out = append(out, core.PlanStep{Step: cs.step, Tool: cs.tool, Params: params})
	}

	return out
}

// Tools returns the sorted set of tool names referenced by the table.
func (b *Builder) Tools() []string {
	out := make([]string, len(b.tools))
	copy(out, b.tools)

	return out
}
