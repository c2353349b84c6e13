package checkout

import (
	"context"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Request(method, path string, body any) error
}

// RegisterSteps registers checkout step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &checkoutSteps{tc: tc}

	ctx.Step(`^I check out shipping to "([^"]*)" in "([^"]*)"$`, steps.checkout)
}

type checkoutSteps struct {
	tc TestContext
}

func (s *checkoutSteps) checkout(_ context.Context, name, city string) error {
	return s.tc.Request("POST", "/orders", map[string]any{
		"shipping_address": map[string]string{
			"name":        name,
			"line1":       "12 Roastery Lane",
			"city":        city,
			"state":       "OR",
			"postal_code": "97201",
		},
	})
}
