package env

import (
	"fmt"
	"strings"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

func (e Environment) IsDevelopment() bool { return e == Development }
func (e Environment) IsProduction() bool  { return e == Production }

// UnmarshalText accepts the short forms "dev" and "prod" and rejects anything
// else, so a typo in ENV fails config loading instead of running as development.
func (e *Environment) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "development", "dev":
		*e = Development
	case "production", "prod":
		*e = Production
	default:
		return fmt.Errorf("invalid environment %q (valid: development, production)", text)
	}
	return nil
}
