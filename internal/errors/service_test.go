// internal/errors/service_test.go
package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestGetExitCode(t *testing.T) {
	s := NewService()
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{fmt.Errorf("robots.txt disallows path"), ExitRobots},
		{fmt.Errorf("got status 429 after retries"), ExitRateLimit},
		{fmt.Errorf("failed to open catalog: no such file"), ExitCatalog},
		{fmt.Errorf("invalid configuration: 1 error(s)"), ExitConfig},
		{fmt.Errorf("context deadline exceeded (timeout)"), ExitNetwork},
		{fmt.Errorf("writing records for X: disk full"), ExitOutput},
		{fmt.Errorf("something else"), ExitGeneral},
	}
	for _, tt := range tests {
		if got := s.GetExitCode(tt.err); got != tt.want {
			t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFormatErrorForCLI(t *testing.T) {
	s := NewService()
	out := s.FormatErrorForCLI(fmt.Errorf("dial tcp: no such host"))
	if !strings.Contains(out, "Domain Not Found") {
		t.Errorf("missing title:\n%s", out)
	}
	if strings.Contains(out, "dial tcp") {
		t.Errorf("technical details leaked without verbose:\n%s", out)
	}

	verbose := s.WithVerbose(true).FormatErrorForCLI(fmt.Errorf("dial tcp: no such host"))
	if !strings.Contains(verbose, "dial tcp") {
		t.Errorf("verbose output should include technical details:\n%s", verbose)
	}
}
