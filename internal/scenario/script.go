// Package scenario hosts a registry for scripted runs.
//
// A script names the initial admin, the genesis block height, and a list of
// steps. For every step the runner establishes the caller (a bare principal or
// a signed token), supplies the logical clock, calls the registry, and records
// the outcome. Steps may state an expected outcome; mismatches fail the run.
package scenario

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	id "agencyreg/pkg/domain"
	dErrors "agencyreg/pkg/domain-errors"
)

// Step operations.
const (
	OpVerify        = "verify"
	OpDeactivate    = "deactivate"
	OpIsVerified    = "is-verified"
	OpDetails       = "details"
	OpTransferAdmin = "transfer-admin"
	OpAdvance       = "advance"
	OpAdmin         = "admin"
)

// Outcomes that are not error codes.
const (
	OutcomeOK     = "ok"
	OutcomeTrue   = "true"
	OutcomeFalse  = "false"
	OutcomeFound  = "found"
	OutcomeAbsent = "absent"
)

// Script is a parsed scenario file.
type Script struct {
	Admin         string  `yaml:"admin"`
	GenesisHeight *uint64 `yaml:"genesis_height"`
	Steps         []Step  `yaml:"steps"`
}

// Step is one call against the registry, or a clock movement.
type Step struct {
	Op       string `yaml:"op"`
	As       string `yaml:"as,omitempty"`
	Token    string `yaml:"token,omitempty"`
	Agency   string `yaml:"agency,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Type     string `yaml:"type,omitempty"`
	NewAdmin string `yaml:"new_admin,omitempty"`
	Blocks   uint64 `yaml:"blocks,omitempty"`
	Expect   string `yaml:"expect,omitempty"`
}

// Parse decodes a YAML script and validates its shape. Unknown fields are
// rejected so typos do not silently drop expectations.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, dErrors.New(dErrors.CodeBadRequest, "script is empty")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid script")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every step carries the fields its operation needs.
// Principal values are checked at run time so that a script can exercise
// hosts rejecting malformed identities.
func (s *Script) Validate() error {
	if s == nil {
		return dErrors.New(dErrors.CodeBadRequest, "script is required")
	}
	if _, err := id.ParsePrincipal(s.Admin); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "admin")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("step %d (%s)", i+1, step.Op))
		}
	}
	return nil
}

func (st Step) validate() error {
	op := strings.TrimSpace(st.Op)
	if st.As != "" && st.Token != "" {
		return dErrors.New(dErrors.CodeValidation, "as and token are mutually exclusive")
	}
	needsCaller := op == OpVerify || op == OpDeactivate || op == OpTransferAdmin
	if needsCaller && st.As == "" && st.Token == "" {
		return dErrors.New(dErrors.CodeValidation, "caller is required (as or token)")
	}
	switch op {
	case OpVerify, OpDeactivate, OpIsVerified, OpDetails:
		if st.Agency == "" {
			return dErrors.New(dErrors.CodeValidation, "agency is required")
		}
	case OpTransferAdmin:
		if st.NewAdmin == "" {
			return dErrors.New(dErrors.CodeValidation, "new_admin is required")
		}
	case OpAdvance:
		if st.Blocks == 0 {
			return dErrors.New(dErrors.CodeValidation, "blocks must be positive")
		}
	case OpAdmin:
	default:
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown op %q", st.Op))
	}
	return nil
}
