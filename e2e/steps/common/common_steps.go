package common

import (
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers health and generic assertion steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the mixconc service is running$`, steps.serviceIsRunning)
	ctx.Step(`^I request "([^"]*)"$`, steps.request)
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBeString)
	ctx.Step(`^the response field "([^"]*)" should be approximately ([-\d.eE]+)$`, steps.fieldShouldBeApprox)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serviceIsRunning() error {
	if err := s.tc.GET("/health"); err != nil {
		return err
	}
	return s.statusShouldBe(200)
}

func (s *commonSteps) request(path string) error {
	return s.tc.GET(path)
}

func (s *commonSteps) statusShouldBe(expected int) error {
	if got := s.tc.GetLastResponseStatus(); got != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) fieldShouldBeString(field, expected string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != expected {
		return fmt.Errorf("expected %s to be %q, got %q", field, expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeApprox(field, expected string) error {
	want, err := strconv.ParseFloat(expected, 64)
	if err != nil {
		return err
	}
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	got, ok := v.(float64)
	if !ok {
		return fmt.Errorf("field %s is not a number: %v", field, v)
	}
	return ApproxEqual(field, got, want)
}

// ApproxEqual fails when got and want differ by more than a relative 1e-6.
func ApproxEqual(what string, got, want float64) error {
	tol := 1e-6
	if abs(want) > 1 {
		tol *= abs(want)
	}
	if abs(got-want) > tol {
		return fmt.Errorf("expected %s ≈ %g, got %g", what, want, got)
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
