// internal/scraper/robots.go
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/evscout/evscout/internal/utils"
)

// ErrRobotsDisallowed marks a URL the site's robots.txt forbids. The
// pipeline skips such URLs instead of retrying them.
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// RobotsPolicy holds the wildcard-agent disallow rules of one site.
// The zero value allows everything.
type RobotsPolicy struct {
	disallow []string
}

// FetchRobots loads and parses the robots.txt for the site of baseURL.
// An unreachable or missing robots.txt yields a permissive policy;
// unreachable policy files are not a reason to stop a run.
func FetchRobots(ctx context.Context, f Fetcher, baseURL string, logger utils.Logger) *RobotsPolicy {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return &RobotsPolicy{}
	}
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	body, err := f.Fetch(ctx, robotsURL)
	if err != nil {
		if logger != nil {
			logger.Debugf("no robots.txt for %s: %v", u.Host, err)
		}
		return &RobotsPolicy{}
	}
	return ParseRobots(body)
}

// ParseRobots reads the disallow rules that apply to the wildcard
// user agent. Group-specific rules for named agents are ignored.
func ParseRobots(body string) *RobotsPolicy {
	p := &RobotsPolicy{}
	applies := false
	for _, line := range strings.Split(body, "\n") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch key {
		case "user-agent":
			applies = value == "*"
		case "disallow":
			if applies && value != "" {
				p.disallow = append(p.disallow, value)
			}
		}
	}
	return p
}

// Allows reports whether the policy permits fetching pageURL. A nil
// policy permits everything.
func (p *RobotsPolicy) Allows(pageURL string) bool {
	if p == nil || len(p.disallow) == 0 {
		return true
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return true
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	for _, rule := range p.disallow {
		if strings.HasPrefix(path, rule) {
			return false
		}
	}
	return true
}

// Check wraps Allows into the policy-denial error used at the fetch
// boundary.
func (p *RobotsPolicy) Check(pageURL string) error {
	if !p.Allows(pageURL) {
		return fmt.Errorf("%s: %w", pageURL, ErrRobotsDisallowed)
	}
	return nil
}
