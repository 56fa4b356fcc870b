package config

import (
	"os"
	"strconv"
	"strings"
)

// Setting is one value `watchlist apply` depends on.
type Setting struct {
	Name    string `json:"name"`
	Value   string `json:"value,omitempty"` // redacted for the token
	Origin  string `json:"origin,omitempty"`
	Problem string `json:"problem,omitempty"`
}

// IssueAccess reports whether the configured issue can be read, commented
// on and closed.
type IssueAccess struct {
	Token      Setting `json:"token"`
	Repository Setting `json:"repository"`
	Issue      Setting `json:"issue"`
}

// Ready reports whether every setting is usable.
func (a IssueAccess) Ready() bool {
	for _, s := range a.Settings() {
		if s.Problem != "" {
			return false
		}
	}
	return true
}

// Settings returns the three settings in display order.
func (a IssueAccess) Settings() []Setting {
	return []Setting{a.Token, a.Repository, a.Issue}
}

// CheckIssueAccess inspects the GitHub settings of cfg. Origins follow the
// precedence used by Load: the CI variables win over MARKETSNAP_GITHUB_*,
// which win over the config file.
func CheckIssueAccess(cfg *Config) IssueAccess {
	gh := cfg.GitHub
	a := IssueAccess{
		Token:      Setting{Name: "token"},
		Repository: Setting{Name: "repository", Value: gh.Repository},
		Issue:      Setting{Name: "issue"},
	}

	if gh.Token == "" {
		a.Token.Problem = "not set (GITHUB_TOKEN or MARKETSNAP_GITHUB_TOKEN)"
	} else {
		a.Token.Value = redact(gh.Token)
		a.Token.Origin = origin(gh.Token, "GITHUB_TOKEN", "MARKETSNAP_GITHUB_TOKEN")
	}

	owner, repo, ok := strings.Cut(gh.Repository, "/")
	switch {
	case gh.Repository == "":
		a.Repository.Problem = "not set (GITHUB_REPOSITORY)"
	case !ok || owner == "" || repo == "" || strings.Contains(repo, "/"):
		a.Repository.Problem = "want owner/repo"
	default:
		a.Repository.Origin = origin(gh.Repository, "GITHUB_REPOSITORY", "MARKETSNAP_GITHUB_REPOSITORY")
	}

	if gh.Issue <= 0 {
		a.Issue.Problem = "not set (ISSUE_NUMBER)"
	} else {
		n := strconv.Itoa(gh.Issue)
		a.Issue.Value = n
		a.Issue.Origin = origin(n, "ISSUE_NUMBER", "MARKETSNAP_GITHUB_ISSUE")
	}
	return a
}

// origin names the first variable holding value, or the config file.
func origin(value string, vars ...string) string {
	for _, name := range vars {
		if os.Getenv(name) == value {
			return name
		}
	}
	return "config file"
}

// redact keeps a token's type prefix and last two characters.
func redact(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	prefix := token[:4]
	if i := strings.IndexByte(token, '_'); i > 0 && i < 8 {
		prefix = token[:i+1]
	}
	return prefix + "****" + token[len(token)-2:]
}
