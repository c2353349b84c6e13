package e2e

import (
	"context"
	"testing"

	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

// initializeScenario gives every scenario its own seeded storefront.
func initializeScenario(sc *godog.ScenarioContext) {
	tc := &TestContext{}
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		fresh, err := NewTestContext(ctx)
		if err != nil {
			return ctx, err
		}
		*tc = *fresh
		return ctx, nil
	})
	RegisterSteps(sc, tc)
}
