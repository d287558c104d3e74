// internal/scraper/robots_test.go
package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

const robotsBody = `# dealer platform default
User-agent: Googlebot
Disallow: /nothing-for-you

User-agent: *
Disallow: /admin/
Disallow: /api/
Disallow: /cart

User-agent: BadBot
Disallow: /
`

func TestParseRobotsWildcardGroup(t *testing.T) {
	p := ParseRobots(robotsBody)

	tests := []struct {
		url   string
		allow bool
	}{
		{"https://dealer.example.com/inventory/new", true},
		{"https://dealer.example.com/admin/users", false},
		{"https://dealer.example.com/api/v1/stock", false},
		{"https://dealer.example.com/cart", false},
		{"https://dealer.example.com/nothing-for-you", true},
		{"https://dealer.example.com/", true},
	}
	for _, tt := range tests {
		if got := p.Allows(tt.url); got != tt.allow {
			t.Errorf("Allows(%q) = %v, want %v", tt.url, got, tt.allow)
		}
	}
}

func TestRobotsCheckWrapsSentinel(t *testing.T) {
	p := ParseRobots("User-agent: *\nDisallow: /private/")
	err := p.Check("https://dealer.example.com/private/page")
	if !errors.Is(err, ErrRobotsDisallowed) {
		t.Fatalf("Check error = %v, want ErrRobotsDisallowed", err)
	}
	if p.Check("https://dealer.example.com/public") != nil {
		t.Error("Check rejected an allowed URL")
	}
}

func TestEmptyPolicyAllowsEverything(t *testing.T) {
	p := &RobotsPolicy{}
	if !p.Allows("https://dealer.example.com/anything") {
		t.Error("zero-value policy should allow all paths")
	}
	var nilPolicy *RobotsPolicy
	if err := nilPolicy.Check("https://dealer.example.com/anything"); err != nil {
		t.Errorf("nil policy should allow all paths, got %v", err)
	}
}

type fetchFunc func(ctx context.Context, url string) (string, error)

func (f fetchFunc) Fetch(ctx context.Context, url string) (string, error) { return f(ctx, url) }

func TestFetchRobotsUnreachableIsPermissive(t *testing.T) {
	f := fetchFunc(func(ctx context.Context, url string) (string, error) {
		return "", fmt.Errorf("connection refused")
	})
	p := FetchRobots(context.Background(), f, "https://dealer.example.com", nil)
	if !p.Allows("https://dealer.example.com/inventory/") {
		t.Error("unreachable robots.txt must not block the run")
	}
}

func TestFetchRobotsUsesSiteRoot(t *testing.T) {
	var requested string
	f := fetchFunc(func(ctx context.Context, url string) (string, error) {
		requested = url
		return "User-agent: *\nDisallow: /blocked/", nil
	})
	p := FetchRobots(context.Background(), f, "https://dealer.example.com/new-inventory/index.htm", nil)
	if requested != "https://dealer.example.com/robots.txt" {
		t.Errorf("fetched %q, want the site root robots.txt", requested)
	}
	if p.Allows("https://dealer.example.com/blocked/page") {
		t.Error("parsed policy not applied")
	}
}
