// Package members parses submitted member names and infers departments.
package members

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName is returned when a name is not "<Name> - <Role>".
var ErrInvalidName = errors.New("team member must be in format 'Name - Role'")

// UnknownDepartment is assigned when no role keyword matches.
const UnknownDepartment = "Unknown"

const separator = " - "

// ParseName splits "<Name> - <Role>" into its trimmed parts and returns the
// canonical form.
func ParseName(s string) (canonical, name, role string, err error) {
	left, right, ok := strings.Cut(s, separator)
	if !ok {
		return "", "", "", ErrInvalidName
	}
	name = strings.TrimSpace(left)
	role = strings.TrimSpace(right)
	if name == "" {
		return "", "", "", fmt.Errorf("name part cannot be empty: %w", ErrInvalidName)
	}
	if role == "" {
		return "", "", "", fmt.Errorf("role part cannot be empty: %w", ErrInvalidName)
	}
	return name + separator + role, name, role, nil
}

// departmentRule maps role keywords to a department. Rules are checked in
// order and the first match wins.
type departmentRule struct {
	keywords   []string
	department string
}

var departmentRules = []departmentRule{ //nolint:gochecknoglobals // constant table
	{[]string{"product"}, "Product Management"},
	{[]string{"solution"}, "Solutions"},
	{[]string{"delivery", "project", "service manager"}, "Service Delivery"},
	{[]string{"quality", "sre", "performance"}, "Service Assurance"},
	{[]string{"it", "infrastructure", "security"}, "IT"},
	{[]string{"dev", "developer"}, "Development"},
	{[]string{"platform", "devops", "cloud"}, "Platform Engineering"},
	{[]string{"hr"}, "HR"},
	{[]string{"legal", "compliance"}, "Legal"},
}

// DepartmentFromRole infers a department from a role by substring match.
// Matching is deliberately loose: "Architect" contains "it" and maps to IT.
func DepartmentFromRole(role string) string {
	r := strings.ToLower(role)
	for _, rule := range departmentRules {
		for _, k := range rule.keywords {
			if strings.Contains(r, k) {
				return rule.department
			}
		}
	}
	return UnknownDepartment
}
