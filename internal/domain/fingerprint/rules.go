package fingerprint

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Rule maps a substring pattern found in a sending application or facility
// to a vendor display name. Rules are configuration, not code: callers load
// their own set or start from DefaultRules.
type Rule struct {
	Pattern string `json:"pattern"`
	Name    string `json:"name"`
}

// Rules is a prioritized rule list; the first matching pattern wins.
type Rules []Rule

// Infer returns the vendor name for the given application and facility
// strings, or "" when no rule matches. Matching is case-insensitive
// substring containment, application checked before facility.
func (rs Rules) Infer(app, facility string) string {
	app = strings.ToUpper(app)
	facility = strings.ToUpper(facility)
	for _, r := range rs {
		p := strings.ToUpper(r.Pattern)
		if p == "" {
			continue
		}
		if strings.Contains(app, p) || strings.Contains(facility, p) {
			return r.Name
		}
	}
	return ""
}

// DefaultRules returns the built-in vendor name table. Longer, more
// specific patterns sit before shorter ones so they match first.
func DefaultRules() Rules {
	return Rules{
		{Pattern: "EPICCARE", Name: "Epic"},
		{Pattern: "EPIC", Name: "Epic"},
		{Pattern: "CERNER", Name: "Cerner"},
		{Pattern: "MILLENNIUM", Name: "Cerner"},
		{Pattern: "MEDITECH", Name: "Meditech"},
		{Pattern: "ALLSCRIPTS", Name: "Allscripts"},
		{Pattern: "MCKESSON", Name: "McKesson"},
		{Pattern: "ATHENA", Name: "athenahealth"},
		{Pattern: "ECLINICALWORKS", Name: "eClinicalWorks"},
		{Pattern: "ECW", Name: "eClinicalWorks"},
		{Pattern: "NEXTGEN", Name: "NextGen"},
		{Pattern: "GREENWAY", Name: "Greenway"},
		{Pattern: "SOARIAN", Name: "Siemens"},
	}
}

// LoadRules reads a rule list from a JSON file.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: read rules: %w", err)
	}
	var rs Rules
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("fingerprint: parse rules %s: %w", path, err)
	}
	return rs, nil
}
