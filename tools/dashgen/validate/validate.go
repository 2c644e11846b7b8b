// Package validate checks generated dashboards and rule files against
// the set of metrics the monitor actually exports, so a renamed metric
// breaks the build instead of silently blanking a panel.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/sfeuerstein/watch-monitor/tools/dashgen/rules"
)

// Result collects validation findings. Errors are malformed inputs,
// warnings are expressions referencing metrics outside the known set.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation found no errors.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Clean reports whether validation found no errors and no warnings.
func (r Result) Clean() bool {
	return r.Ok() && len(r.Warnings) == 0
}

// Issues returns all errors followed by all warnings.
func (r Result) Issues() []string {
	out := make([]string, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	return append(out, r.Warnings...)
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Dashboard validates every PromQL expression in a built dashboard. It
// walks the JSON form rather than the SDK types so panel plugins added
// later are covered without new traversal code.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result

	raw, err := json.Marshal(dash)
	if err != nil {
		res.errorf("marshal dashboard: %v", err)
		return res
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		res.errorf("decode dashboard: %v", err)
		return res
	}

	exprs := collectExprs(doc)
	if len(exprs) == 0 {
		res.errorf("dashboard contains no query expressions")
		return res
	}
	for _, expr := range exprs {
		checkExpr(&res, expr, known)
	}
	return res
}

// Rules validates every expression in a PrometheusRule CR.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, group := range cr.Spec.Groups {
		for _, rule := range group.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			if rule.Expr == "" {
				res.errorf("rule %q has an empty expression", name)
				continue
			}
			checkExpr(&res, rule.Expr, known)
		}
	}
	return res
}

// collectExprs gathers the values of all "expr" fields in decoded JSON.
func collectExprs(doc any) []string {
	var out []string
	switch v := doc.(type) {
	case map[string]any:
		for key, val := range v {
			if key == "expr" {
				if s, ok := val.(string); ok && s != "" {
					out = append(out, s)
					continue
				}
			}
			out = append(out, collectExprs(val)...)
		}
	case []any:
		for _, item := range v {
			out = append(out, collectExprs(item)...)
		}
	}
	return out
}

func checkExpr(res *Result, expr string, known map[string]bool) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("parse %q: %v", expr, err)
		return
	}

	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok || vs == nil || vs.Name == "" {
			return nil
		}
		if !knownMetric(vs.Name, known) {
			res.warnf("unknown metric %q in %q", vs.Name, expr)
		}
		return nil
	})
}

// knownMetric reports whether name is in the known set, treating
// histogram series suffixes as part of their base metric.
func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}
