package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/ggriffiniii/httptest"
	"github.com/ggriffiniii/httptest/internal/id"
	"github.com/ggriffiniii/httptest/matchers"
	"github.com/ggriffiniii/httptest/responders"
)

// Common parse errors.
var (
	ErrInvalidYAML    = errors.New("invalid YAML syntax")
	ErrNoExpectations = errors.New("no expectations defined")
)

// File is the top-level fixture document.
type File struct {
	Expectations []Def `yaml:"expectations"`
}

// Def is one expectation definition.
type Def struct {
	Name     string       `yaml:"name"`
	Request  RequestDef   `yaml:"request"`
	Times    *TimesDef    `yaml:"times"`
	Response *ResponseDef `yaml:"response"`
}

// RequestDef describes which requests the expectation matches. Every listed
// condition must hold.
type RequestDef struct {
	Method       string            `yaml:"method"`
	Path         string            `yaml:"path"`
	PathRegex    string            `yaml:"path_regex"`
	Query        map[string]string `yaml:"query"`
	Headers      map[string]string `yaml:"headers"`
	BodyEquals   *string           `yaml:"body_equals"`
	BodyContains *string           `yaml:"body_contains"`
	BodyRegex    *string           `yaml:"body_regex"`
	BodyJSON     any               `yaml:"body_json"`
	JSONPath     map[string]any    `yaml:"json_path"`
	JSONSchema   string            `yaml:"json_schema"`
}

// TimesDef is the call-count constraint. It decodes either as a mapping with
// exactly one of the count keys, or as the scalar "any".
type TimesDef struct {
	Exactly *int  `yaml:"exactly"`
	AtLeast *int  `yaml:"at_least"`
	AtMost  *int  `yaml:"at_most"`
	Between []int `yaml:"between"`

	Any bool `yaml:"-"`
}

// UnmarshalYAML accepts both the scalar form ("any") and the mapping form.
func (t *TimesDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		if s != "any" {
			return fmt.Errorf("unknown times value %q (want a mapping or the string \"any\")", s)
		}
		t.Any = true
		return nil
	}

	// Decode through an alias to avoid recursing into this method.
	type timesAlias TimesDef
	alias := (*timesAlias)(t)
	return node.Decode(alias)
}

// ResponseDef describes the reply. Either the scalar fields or a cycle list.
type ResponseDef struct {
	Status  int               `yaml:"status"`
	Headers map[string]string `yaml:"headers"`
	Body    *string           `yaml:"body"`
	JSON    any               `yaml:"json"`
	Delay   string            `yaml:"delay"`
	Cycle   []ResponseDef     `yaml:"cycle"`
}

// Parse decodes a fixture document and builds its expectations in file
// order. Unknown YAML keys are rejected. Errors name the offending
// expectation by index, and by name when one was given.
func Parse(data []byte) ([]*httptest.Expectation, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoExpectations
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if len(f.Expectations) == 0 {
		return nil, ErrNoExpectations
	}

	out := make([]*httptest.Expectation, 0, len(f.Expectations))
	for i, def := range f.Expectations {
		e, err := def.build()
		if err != nil {
			if def.Name != "" {
				return nil, fmt.Errorf("expectations[%d] (%s): %w", i, def.Name, err)
			}
			return nil, fmt.Errorf("expectations[%d]: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (d Def) build() (*httptest.Expectation, error) {
	m, err := d.Request.matcher()
	if err != nil {
		return nil, err
	}
	times, err := d.Times.constraint()
	if err != nil {
		return nil, err
	}
	r, err := d.Response.responder()
	if err != nil {
		return nil, err
	}

	name := d.Name
	if name == "" {
		name = id.Short()
	}
	return httptest.Matching(m).Named(name).Times(times).RespondWith(r), nil
}

// matcher assembles the request conditions into one allOf tree. Map-valued
// conditions are added in sorted key order so the matcher description is
// stable.
func (r RequestDef) matcher() (httptest.Matcher[*httptest.Request], error) {
	var parts []httptest.Matcher[*httptest.Request]

	if r.Method != "" {
		parts = append(parts, matchers.MethodIs(strings.ToUpper(r.Method)))
	}

	if r.Path != "" && r.PathRegex != "" {
		return zero(), errors.New("request: path and path_regex are mutually exclusive")
	}
	if r.Path != "" {
		parts = append(parts, matchers.PathIs(r.Path))
	}
	if r.PathRegex != "" {
		if _, err := regexp.Compile(r.PathRegex); err != nil {
			return zero(), fmt.Errorf("request: path_regex: %w", err)
		}
		parts = append(parts, matchers.Path(matchers.Regex(r.PathRegex)))
	}

	for _, k := range sortedKeys(r.Query) {
		parts = append(parts, matchers.Query(k, matchers.Eq(r.Query[k])))
	}
	for _, k := range sortedKeys(r.Headers) {
		parts = append(parts, matchers.Header(k, matchers.Eq(r.Headers[k])))
	}

	body, err := r.bodyMatchers()
	if err != nil {
		return zero(), err
	}
	parts = append(parts, body...)

	for _, path := range sortedKeys(r.JSONPath) {
		if _, err := jp.ParseString(path); err != nil {
			return zero(), fmt.Errorf("request: json_path %q: %w", path, err)
		}
		want := r.JSONPath[path]
		if _, err := json.Marshal(want); err != nil {
			return zero(), fmt.Errorf("request: json_path %q: expected value: %w", path, err)
		}
		parts = append(parts, matchers.JSONPath(path, matchers.EqValue(want)))
	}

	if r.JSONSchema != "" {
		if err := checkSchema(r.JSONSchema); err != nil {
			return zero(), fmt.Errorf("request: json_schema: %w", err)
		}
		parts = append(parts, matchers.JSONSchema(r.JSONSchema))
	}

	return httptest.AllOf(parts...), nil
}

func (r RequestDef) bodyMatchers() ([]httptest.Matcher[*httptest.Request], error) {
	set := 0
	for _, used := range []bool{
		r.BodyEquals != nil,
		r.BodyContains != nil,
		r.BodyRegex != nil,
		r.BodyJSON != nil,
	} {
		if used {
			set++
		}
	}
	if set > 1 {
		return nil, errors.New("request: body_equals, body_contains, body_regex, and body_json are mutually exclusive")
	}

	switch {
	case r.BodyEquals != nil:
		return []httptest.Matcher[*httptest.Request]{matchers.Body(matchers.Eq(*r.BodyEquals))}, nil
	case r.BodyContains != nil:
		return []httptest.Matcher[*httptest.Request]{matchers.Body(matchers.Contains(*r.BodyContains))}, nil
	case r.BodyRegex != nil:
		if _, err := regexp.Compile(*r.BodyRegex); err != nil {
			return nil, fmt.Errorf("request: body_regex: %w", err)
		}
		return []httptest.Matcher[*httptest.Request]{matchers.Body(matchers.Regex(*r.BodyRegex))}, nil
	case r.BodyJSON != nil:
		if _, err := json.Marshal(r.BodyJSON); err != nil {
			return nil, fmt.Errorf("request: body_json: %w", err)
		}
		return []httptest.Matcher[*httptest.Request]{matchers.JSONDecoded(matchers.EqValue(r.BodyJSON))}, nil
	}
	return nil, nil
}

func (t *TimesDef) constraint() (httptest.Times, error) {
	if t == nil {
		return httptest.Exactly(1), nil
	}
	if t.Any {
		return httptest.AnyTimes(), nil
	}

	set := 0
	for _, used := range []bool{t.Exactly != nil, t.AtLeast != nil, t.AtMost != nil, t.Between != nil} {
		if used {
			set++
		}
	}
	if set == 0 {
		return httptest.Times{}, errors.New(`times: want one of exactly, at_least, at_most, between, or the string "any"`)
	}
	if set > 1 {
		return httptest.Times{}, errors.New("times: count constraints are mutually exclusive")
	}

	switch {
	case t.Exactly != nil:
		if *t.Exactly < 0 {
			return httptest.Times{}, fmt.Errorf("times: exactly: count %d is negative", *t.Exactly)
		}
		return httptest.Exactly(*t.Exactly), nil
	case t.AtLeast != nil:
		if *t.AtLeast < 0 {
			return httptest.Times{}, fmt.Errorf("times: at_least: count %d is negative", *t.AtLeast)
		}
		return httptest.AtLeast(*t.AtLeast), nil
	case t.AtMost != nil:
		if *t.AtMost < 0 {
			return httptest.Times{}, fmt.Errorf("times: at_most: count %d is negative", *t.AtMost)
		}
		return httptest.AtMost(*t.AtMost), nil
	default:
		if len(t.Between) != 2 {
			return httptest.Times{}, fmt.Errorf("times: between: want [lo, hi], got %d element(s)", len(t.Between))
		}
		lo, hi := t.Between[0], t.Between[1]
		if lo < 0 || hi < lo {
			return httptest.Times{}, fmt.Errorf("times: between: invalid range [%d, %d]", lo, hi)
		}
		return httptest.Between(lo, hi), nil
	}
}

func (d *ResponseDef) responder() (httptest.Responder, error) {
	if d == nil {
		return responders.Status(http.StatusOK), nil
	}

	var (
		r   httptest.Responder
		err error
	)
	if len(d.Cycle) > 0 {
		r, err = d.cycleResponder()
	} else {
		r, err = d.scalarResponder()
	}
	if err != nil {
		return nil, err
	}

	if d.Delay != "" {
		dur, derr := time.ParseDuration(d.Delay)
		if derr != nil {
			return nil, fmt.Errorf("response: delay: %w", derr)
		}
		if dur < 0 {
			return nil, fmt.Errorf("response: delay %s is negative", d.Delay)
		}
		r = responders.Delay(dur, r)
	}
	return r, nil
}

func (d *ResponseDef) cycleResponder() (httptest.Responder, error) {
	if d.Status != 0 || len(d.Headers) > 0 || d.Body != nil || d.JSON != nil {
		return nil, errors.New("response: cycle replaces status, headers, body, and json")
	}

	steps := make([]httptest.Responder, 0, len(d.Cycle))
	for i := range d.Cycle {
		step := d.Cycle[i]
		if len(step.Cycle) > 0 {
			return nil, fmt.Errorf("response: cycle[%d]: cycles cannot nest", i)
		}
		r, err := step.responder()
		if err != nil {
			return nil, fmt.Errorf("response: cycle[%d]: %w", i, err)
		}
		steps = append(steps, r)
	}
	return responders.Cycle(steps...), nil
}

func (d *ResponseDef) scalarResponder() (httptest.Responder, error) {
	if d.Body != nil && d.JSON != nil {
		return nil, errors.New("response: body and json are mutually exclusive")
	}
	status := d.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status < 100 || status > 599 {
		return nil, fmt.Errorf("response: status %d out of range", d.Status)
	}

	if d.JSON != nil {
		data, err := json.Marshal(d.JSON)
		if err != nil {
			return nil, fmt.Errorf("response: json: %w", err)
		}
		r := responders.Status(status)
		if !hasContentType(d.Headers) {
			r = r.WithHeader("Content-Type", "application/json")
		}
		for _, k := range sortedKeys(d.Headers) {
			r = r.WithHeader(k, d.Headers[k])
		}
		return r.WithBytes(data), nil
	}

	r := responders.Status(status)
	for _, k := range sortedKeys(d.Headers) {
		r = r.WithHeader(k, d.Headers[k])
	}
	if d.Body != nil {
		r = r.WithBody(*d.Body)
	}
	return r, nil
}

func hasContentType(headers map[string]string) bool {
	for k := range headers {
		if http.CanonicalHeaderKey(k) == "Content-Type" {
			return true
		}
	}
	return false
}

// checkSchema compiles the schema the same way matchers.JSONSchema will, so
// a bad schema surfaces as a load error instead of a construction panic.
func checkSchema(schema string) error {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource("schema.json", strings.NewReader(schema)); err != nil {
		return err
	}
	_, err := c.Compile("schema.json")
	return err
}

func zero() httptest.Matcher[*httptest.Request] {
	return httptest.Matcher[*httptest.Request]{}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
