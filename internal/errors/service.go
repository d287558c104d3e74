// internal/errors/service.go

// Package errors turns technical failures into operator-facing CLI
// output: a plain-language explanation, suggestions, and a stable
// exit code per failure class.
package errors

import (
	"fmt"
	"strings"
)

// Exit codes by failure class. Scripts driving evscout key off these.
const (
	ExitGeneral    = 1
	ExitConfig     = 2
	ExitNetwork    = 3
	ExitCatalog    = 4
	ExitOutput     = 5
	ExitValidation = 6
	ExitRateLimit  = 7
	ExitRobots     = 8
)

// Service formats errors for the CLI.
type Service struct {
	verbose bool
}

// NewService creates an error formatting service.
func NewService() *Service {
	return &Service{}
}

// WithVerbose returns a copy that includes technical details.
func (s *Service) WithVerbose(verbose bool) *Service {
	return &Service{verbose: verbose}
}

// GetUserFriendlyError converts technical errors to operator-facing
// messages.
func (s *Service) GetUserFriendlyError(err error) (title, message string, suggestions []string) {
	if err == nil {
		return "", "", nil
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "robots") {
		return "Blocked by robots.txt",
			"The dealership site disallows scraping its inventory pages.",
			[]string{
				"Respect the site's policy and remove it from the catalog",
				"Check whether a different inventory path is permitted",
			}
	}

	if strings.Contains(errStr, "timeout") {
		return "Connection Timeout",
			"A request timed out while contacting a dealership site.",
			[]string{
				"Check your internet connection",
				"Increase scraping.request_timeout in the configuration",
				"The site might be slow or experiencing issues",
			}
	}

	if strings.Contains(errStr, "no such host") {
		return "Domain Not Found",
			"A dealership website in the catalog could not be resolved.",
			[]string{
				"Check the base_url spelling in the catalog",
				"Verify the domain exists by opening it in a browser",
			}
	}

	if strings.Contains(errStr, "connection refused") {
		return "Connection Refused",
			"A dealership server refused the connection.",
			[]string{
				"Check if the site is accessible in a browser",
				"The server might be temporarily down",
			}
	}

	if strings.Contains(errStr, "catalog") {
		return "Catalog Error",
			"The dealership catalog could not be loaded.",
			[]string{
				"Check the catalog path in the configuration",
				"Verify the CSV has id, name, and base_url columns",
			}
	}

	if strings.Contains(errStr, "yaml") || strings.Contains(errStr, "configuration") {
		return "Configuration Error",
			"The configuration file is missing or invalid.",
			[]string{
				"Check YAML indentation (use spaces, not tabs)",
				"Run 'evscout validate <config.yaml>' for details",
			}
	}

	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") {
		return "Rate Limit Exceeded",
			"A dealership site is throttling requests.",
			[]string{
				"Lower scraping.rate_limit in the configuration",
				"Increase min_delay and max_delay between requests",
			}
	}

	if strings.Contains(errStr, "output") || strings.Contains(errStr, "writing records") {
		return "Output Error",
			"Scraped records could not be written to the output backend.",
			[]string{
				"Check the output path or connection string",
				"Verify the database is reachable and the table is writable",
			}
	}

	return "Unexpected Error",
		"An unexpected error occurred during the run.",
		[]string{
			"The checkpoint keeps finished sources; rerun to resume",
			"Check your configuration file",
		}
}

// GetExitCode maps an error to its exit code.
func (s *Service) GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "robots"):
		return ExitRobots
	case strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "429"):
		return ExitRateLimit
	case strings.Contains(errStr, "catalog"):
		return ExitCatalog
	case strings.Contains(errStr, "config") || strings.Contains(errStr, "yaml"):
		return ExitConfig
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "host") || strings.Contains(errStr, "network"):
		return ExitNetwork
	case strings.Contains(errStr, "output") || strings.Contains(errStr, "writing records"):
		return ExitOutput
	case strings.Contains(errStr, "validation"):
		return ExitValidation
	default:
		return ExitGeneral
	}
}

// FormatErrorForCLI renders an error for terminal display.
func (s *Service) FormatErrorForCLI(err error) string {
	title, message, suggestions := s.GetUserFriendlyError(err)

	out := fmt.Sprintf("Error: %s\n%s\n", title, message)

	if s.verbose {
		out += fmt.Sprintf("\nTechnical details: %s\n", err.Error())
	}

	if len(suggestions) > 0 {
		out += "\nSuggestions:\n"
		for _, suggestion := range suggestions {
			out += fmt.Sprintf("  - %s\n", suggestion)
		}
	}

	return out
}
