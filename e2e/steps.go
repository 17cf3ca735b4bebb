package e2e

import (
	"github.com/cucumber/godog"

	"mixconc/e2e/steps/common"
	"mixconc/e2e/steps/mixture"
	"mixconc/e2e/steps/report"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (health, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register mixture computation steps
	mixtureSteps := mixture.RegisterSteps(ctx, tc)

	// Register report export steps; reports are built from the same mixture
	report.RegisterSteps(ctx, tc, mixtureSteps)
}
