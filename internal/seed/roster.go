package seed

// Member is a synthetic team member.
type Member struct {
	Name string
	Role string
}

// TeamMember renders the "Name - Role" form the service accepts.
func (m Member) TeamMember() string { return m.Name + " - " + m.Role }

// DefaultRoster covers one role from each common department.
var DefaultRoster = []Member{
	{Name: "Sarah Chen", Role: "Product Manager"},
	{Name: "Michael Rodriguez", Role: "Senior Developer"},
	{Name: "Emily Taylor", Role: "Quality Analyst"},
	{Name: "David Kim", Role: "Cloud Engineer"},
	{Name: "Priya Nair", Role: "Solution Architect"},
	{Name: "Tom Becker", Role: "Delivery Manager"},
}

// templates are keyed by role family. Placeholders: {feature}, {project},
// {planning}, {num}, {percent}.
var templates = map[string][]string{
	"product": {
		"Completed user research for {feature} with {num} participants. PRD for {project} is {percent}% complete. Led {num} stakeholder meetings for {planning}.",
		"Finalized requirements for {feature}. Conducted {num} user interviews. Updated roadmap for {project}.",
		"Created wireframes for {feature}. Gathered feedback from {num} stakeholders. Started planning for {project}.",
	},
	"engineering": {
		"Implemented {feature} with {num} unit tests. Fixed {num} bugs in {project}. Code review completion rate at {percent}%.",
		"Deployed {feature} to production. Optimized {project} performance by {percent}%. Completed {num} code reviews.",
		"Refactored {project} codebase. Added automated tests for {feature}. Resolved {num} technical debt items.",
	},
	"quality": {
		"Wrote {num} regression tests for {feature}. Test coverage of {project} at {percent}%. Triaged {num} defects.",
		"Ran load tests against {feature}. Filed {num} bugs for {project}. Automated the smoke suite.",
	},
	"delivery": {
		"Ran {planning} for {project}. Tracked {num} risks. Delivery plan for {feature} is {percent}% complete.",
		"Coordinated release of {feature}. Unblocked {num} tickets for {project}. Updated stakeholders on {planning}.",
	},
}

var (
	features = []string{"mobile app", "dashboard", "reporting system", "user authentication", "payment gateway", "notification system"}
	projects = []string{"Q2 Release", "Platform Migration", "Performance Optimization", "New Feature Development"}
	planning = []string{"sprint planning", "quarterly roadmap", "resource allocation", "feature prioritization"}
	goals    = []string{"On Track", "Ahead", "Slight Delay"}
	blockers = []string{"Waiting for dependencies", "Need stakeholder feedback"}
)
