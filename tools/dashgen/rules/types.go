// Package rules builds the PrometheusRule custom resources (recording
// and alerting) that ship alongside the monitor.
package rules

const (
	apiVersion = "monitoring.coreos.com/v1"
	kind       = "PrometheusRule"

	// prometheusTag routes the CRs to the cluster's rule-file Prometheus.
	prometheusTag = "system-rules-prometheus"
)

// PrometheusRule is the prometheus-operator custom resource wrapping a
// set of rule groups.
type PrometheusRule struct {
	APIVersion string     `yaml:"apiVersion"`
	Kind       string     `yaml:"kind"`
	Metadata   ObjectMeta `yaml:"metadata"`
	Spec       RuleSpec   `yaml:"spec"`
}

// ObjectMeta is the subset of Kubernetes object metadata the generated
// CRs need.
type ObjectMeta struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// RuleSpec holds the rule groups.
type RuleSpec struct {
	Groups []RuleGroup `yaml:"groups"`
}

// RuleGroup is one named evaluation group.
type RuleGroup struct {
	Name     string `yaml:"name"`
	Interval string `yaml:"interval,omitempty"`
	Rules    []Rule `yaml:"rules"`
}

// Rule is a single rule; Record and Alert are mutually exclusive.
type Rule struct {
	Record      string            `yaml:"record,omitempty"`
	Alert       string            `yaml:"alert,omitempty"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// newCR wraps groups in a CR envelope with the shared metadata.
func newCR(name string, groups ...RuleGroup) PrometheusRule {
	return PrometheusRule{
		APIVersion: apiVersion,
		Kind:       kind,
		Metadata: ObjectMeta{
			Name:   name,
			Labels: map[string]string{"prometheus": prometheusTag},
		},
		Spec: RuleSpec{Groups: groups},
	}
}

// record builds a recording rule.
func record(name, expr string) Rule {
	return Rule{Record: name, Expr: expr}
}

// alert builds an alerting rule carrying the severity label and the
// summary/description annotations every alert here uses.
func alert(name, expr, hold, severity, summary, description string) Rule {
	return Rule{
		Alert:  name,
		Expr:   expr,
		For:    hold,
		Labels: map[string]string{"severity": severity},
		Annotations: map[string]string{
			"summary":     summary,
			"description": description,
		},
	}
}
