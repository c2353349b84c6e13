package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Request(method, path string, body any) error
	Field(path string) (any, error)
}

// RegisterSteps registers recommendation quiz step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &quizSteps{tc: tc}

	ctx.Step(`^I take the quiz preferring (coffee|tea) with flavors "([^"]*)", strength "([^"]*)" and adventure "([^"]*)"$`, steps.takeQuiz)
	ctx.Step(`^every recommendation should be in category "([^"]*)"$`, steps.everyInCategory)
}

type quizSteps struct {
	tc TestContext
}

func (s *quizSteps) takeQuiz(_ context.Context, drink, flavors, strength, adventure string) error {
	tags := []string{}
	if flavors != "" {
		tags = strings.Split(flavors, ",")
	}
	return s.tc.Request("POST", "/quiz", map[string]any{
		"prefers_coffee":  drink == "coffee",
		"flavor_profile":  tags,
		"strength_pref":   strength,
		"adventure_level": adventure,
	})
}

func (s *quizSteps) everyInCategory(_ context.Context, category string) error {
	v, err := s.tc.Field("recommendations")
	if err != nil {
		return err
	}
	recs, ok := v.([]any)
	if !ok || len(recs) == 0 {
		return fmt.Errorf("no recommendations")
	}
	for _, r := range recs {
		p := r.(map[string]any)
		if p["category"] != category {
			return fmt.Errorf("%v is in %v, not %s", p["name"], p["category"], category)
		}
	}
	return nil
}
