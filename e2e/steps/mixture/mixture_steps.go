package mixture

import (
	"fmt"
	"strconv"

	"github.com/cucumber/godog"

	"mixconc/e2e/steps/common"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GetResponseField(field string) (interface{}, error)
	GetLastResponseStatus() int
}

// RegisterSteps registers mixture computation steps. The returned Steps
// exposes the mixture being built to other step packages.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) *Steps {
	steps := &Steps{tc: tc}

	ctx.Step(`^the session units are "([^"]*)", "([^"]*)" and "([^"]*)"$`, steps.sessionUnits)
	ctx.Step(`^a component with concentration ([\d.]+), density ([\d.]+) and mass ([\d.]+)$`, steps.addComponent)
	ctx.Step(`^a component with concentration ([\d.]+) and density ([\d.]+)$`, steps.addComponentNoMass)
	ctx.Step(`^I compute the mixture$`, steps.compute)
	ctx.Step(`^I solve for (\d+(?:\.\d+)?) in a target volume of (\d+(?:\.\d+)?)$`, steps.solve)
	ctx.Step(`^component (\d+) should weigh ([\d.]+) grams$`, steps.componentMassShouldBe)
	ctx.Step(`^the mixture concentration should be ([\d.]+)$`, steps.concentrationShouldBe)
	ctx.Step(`^the mixture should be unsolvable because of "([^"]*)"$`, steps.unsolvableBecause)
	return steps
}

// Steps holds the mixture a scenario is building.
type Steps struct {
	tc TestContext

	massUnit, volumeUnit, concUnit string
	components                     []map[string]interface{}
	targetVolume, targetConc       float64
}

func (s *Steps) sessionUnits(conc, mass, volume string) error {
	s.concUnit, s.massUnit, s.volumeUnit = conc, mass, volume
	s.components = nil
	s.targetVolume, s.targetConc = 0, 0
	return nil
}

func (s *Steps) addComponent(conc, density, mass float64) error {
	s.components = append(s.components, map[string]interface{}{
		"concentration": conc,
		"density":       density,
		"mass":          mass,
	})
	return nil
}

func (s *Steps) addComponentNoMass(conc, density float64) error {
	return s.addComponent(conc, density, 0)
}

// Body returns the current mixture as a compute request body.
func (s *Steps) Body() map[string]interface{} {
	return map[string]interface{}{
		"mass_unit":            s.massUnit,
		"volume_unit":          s.volumeUnit,
		"concentration_unit":   s.concUnit,
		"target_volume":        s.targetVolume,
		"target_concentration": s.targetConc,
		"components":           s.components,
	}
}

func (s *Steps) compute() error {
	return s.tc.POST("/mixtures/compute", s.Body())
}

func (s *Steps) solve(conc, volume float64) error {
	s.targetConc, s.targetVolume = conc, volume
	return s.compute()
}

func (s *Steps) componentMassShouldBe(n int, grams float64) error {
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("expected a computed mixture, got status %d", status)
	}
	v, err := s.tc.GetResponseField("components." + strconv.Itoa(n-1) + ".mass_g")
	if err != nil {
		return err
	}
	got, _ := v.(float64)
	return common.ApproxEqual(fmt.Sprintf("component %d mass", n), got, grams)
}

func (s *Steps) concentrationShouldBe(want float64) error {
	v, err := s.tc.GetResponseField("concentration")
	if err != nil {
		return err
	}
	got, _ := v.(float64)
	return common.ApproxEqual("concentration", got, want)
}

func (s *Steps) unsolvableBecause(reason string) error {
	if status := s.tc.GetLastResponseStatus(); status != 422 {
		return fmt.Errorf("expected status 422, got %d", status)
	}
	v, err := s.tc.GetResponseField("reason")
	if err != nil {
		return err
	}
	if v != reason {
		return fmt.Errorf("expected reason %q, got %v", reason, v)
	}
	return nil
}
