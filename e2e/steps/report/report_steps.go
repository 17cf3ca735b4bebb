package report

import (
	"bytes"
	"fmt"
	"mime"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	GetLastResponseHeader(key string) string
}

// MixtureSource supplies the mixture request a report is generated for.
type MixtureSource interface {
	Body() map[string]interface{}
}

// RegisterSteps registers report export steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext, mixture MixtureSource) {
	steps := &reportSteps{tc: tc, mixture: mixture}

	ctx.Step(`^I export the mixture as "([^"]*)" named "([^"]*)"$`, steps.export)
	ctx.Step(`^the download should be named "([^"]*)"$`, steps.downloadNamed)
	ctx.Step(`^the document should start with "([^"]*)"$`, steps.documentStartsWith)
	ctx.Step(`^the document should contain "([^"]*)"$`, steps.documentContains)
}

type reportSteps struct {
	tc      TestContext
	mixture MixtureSource
}

func (s *reportSteps) export(format, name string) error {
	body := s.mixture.Body()
	body["experiment_name"] = name
	return s.tc.POST("/reports?format="+format, body)
}

func (s *reportSteps) downloadNamed(expected string) error {
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("expected status 200, got %d: %s", status, s.tc.GetLastResponseBody())
	}
	_, params, err := mime.ParseMediaType(s.tc.GetLastResponseHeader("Content-Disposition"))
	if err != nil {
		return fmt.Errorf("parse Content-Disposition: %w", err)
	}
	if params["filename"] != expected {
		return fmt.Errorf("expected filename %q, got %q", expected, params["filename"])
	}
	return nil
}

func (s *reportSteps) documentStartsWith(prefix string) error {
	if !bytes.HasPrefix(s.tc.GetLastResponseBody(), []byte(prefix)) {
		return fmt.Errorf("document does not start with %q", prefix)
	}
	return nil
}

func (s *reportSteps) documentContains(text string) error {
	if !bytes.Contains(s.tc.GetLastResponseBody(), []byte(text)) {
		return fmt.Errorf("document does not contain %q", text)
	}
	return nil
}
