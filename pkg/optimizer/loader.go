package optimizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/perdasilva/mpsolve/pkg/program"
)

// LoadRequest reads a build input from a YAML or JSON problem file,
// chosen by extension (.json is JSON, everything else is YAML).
func LoadRequest(path string) (program.BuildInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return program.BuildInput{}, fmt.Errorf("reading problem file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parseJSONRequest(data)
	}
	return parseYAMLRequest(data)
}

func parseYAMLRequest(data []byte) (program.BuildInput, error) {
	var in program.BuildInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return program.BuildInput{}, fmt.Errorf("parsing problem file: %w", err)
	}
	return in, nil
}

func parseJSONRequest(data []byte) (program.BuildInput, error) {
	if !gjson.ValidBytes(data) {
		return program.BuildInput{}, fmt.Errorf("parsing problem file: invalid JSON")
	}
	doc := gjson.ParseBytes(data)

	in := program.BuildInput{
		Class:               program.Class(doc.Get("class").String()),
		Elements:            doc.Get("elements").String(),
		IntegerVariables:    doc.Get("integer_variables").String(),
		ContinuousVariables: doc.Get("continuous_variables").String(),
		Objective: program.ObjectiveSpec{
			Sense:      program.Sense(doc.Get("objective.sense").String()),
			Parameter:  doc.Get("objective.parameter").String(),
			Expression: doc.Get("objective.expression").String(),
		},
	}

	if params := doc.Get("parameters"); params.Exists() {
		in.Parameters = map[string]map[string]float64{}
		params.ForEach(func(name, values gjson.Result) bool {
			byElement := map[string]float64{}
			values.ForEach(func(element, value gjson.Result) bool {
				byElement[element.String()] = value.Float()
				return true
			})
			in.Parameters[name.String()] = byElement
			return true
		})
	}

	doc.Get("constraints").ForEach(func(_, row gjson.Result) bool {
		in.Constraints = append(in.Constraints, program.ConstraintSpec{
			Parameter:  row.Get("parameter").String(),
			Expression: row.Get("expression").String(),
			Operator:   row.Get("operator").String(),
			Value:      row.Get("value").String(),
		})
		return true
	})

	return in, nil
}
