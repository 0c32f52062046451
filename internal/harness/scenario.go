package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultAdminID is the admin identity used when a scenario names none.
const DefaultAdminID int64 = 1000

// Scenario defines a purchase workflow scenario.
// Scenarios run a flow of engine operations and assert on the resulting
// trace and final document.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Admin is the admin user id. Defaults to DefaultAdminID.
	Admin int64 `yaml:"admin,omitempty"`

	// Setup steps establish initial state. They must succeed.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow is the main sequence of operations with expected outcomes.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final trace and document.
	Assertions []Assertion `yaml:"assertions"`

	// FlowToken is attached to every step's context. Defaults to
	// "scenario-flow".
	FlowToken string `yaml:"flow_token,omitempty"`
}

// Step invokes one engine operation.
//
// Admin operations run as the scenario admin unless args.actor is set.
type Step struct {
	// Op is the operation name, e.g. "submit_proof" or "approve".
	Op string `yaml:"op"`

	// Args are the operation arguments.
	Args map[string]any `yaml:"args"`

	// Expect is the expected outcome. Nil means Success is expected.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected completion of a step.
type ExpectClause struct {
	// Case is "Success" or an engine error code such as "NOT_PURCHASED".
	Case string `yaml:"case"`

	// Result is a subset match against the step's result fields.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates the trace or the final document.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Op is the operation name (trace_count).
	Op string `yaml:"op,omitempty"`

	// Ops is the expected operation order (trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Count is the expected number of occurrences (trace_count, notice_count).
	Count int `yaml:"count"`

	// To and Kind filter notices (notice_count). Zero values match all.
	To   int64  `yaml:"to,omitempty"`
	Kind string `yaml:"kind,omitempty"`

	// Table is the document collection (final_state): products, pending,
	// languages or history.
	Table string `yaml:"table,omitempty"`

	// Where selects the row (final_state).
	Where map[string]any `yaml:"where,omitempty"`

	// Expect contains expected field values (final_state). Subset match.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceOrder  = "trace_order"
	AssertTraceCount  = "trace_count"
	AssertNoticeCount = "notice_count"
	AssertFinalState  = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if scenario.Admin == 0 {
		scenario.Admin = DefaultAdminID
	}
	if scenario.FlowToken == "" {
		scenario.FlowToken = "scenario-flow"
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
		if step.Expect != nil && step.Expect.Case != CaseSuccess {
			return fmt.Errorf("setup[%d]: setup steps must expect %s", i, CaseSuccess)
		}
	}
	for i, step := range s.Flow {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(step Step) error {
	if step.Op == "" {
		return fmt.Errorf("op is required")
	}
	if _, ok := operations[step.Op]; !ok {
		return fmt.Errorf("unknown op %q", step.Op)
	}
	if step.Args == nil {
		return fmt.Errorf("args is required (use empty map if no args)")
	}
	if step.Expect != nil && step.Expect.Case == "" {
		return fmt.Errorf("expect: case is required")
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertNoticeCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for notice_count", index)
		}
	case AssertFinalState:
		if _, ok := tables[a.Table]; !ok {
			return fmt.Errorf("assertions[%d]: unknown table %q for final_state", index, a.Table)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
