package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Request(method, path string, body any) error
	Status() int
	Body() string
	Field(path string) (any, error)
	SetToken(token string)
	ResetSession()
	ProductID(slug string) (string, error)
}

// RegisterSteps registers review and rating step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &reviewSteps{tc: tc}

	ctx.Step(`^customer "([^"]*)" rates "([^"]*)" with (\d+) stars?$`, steps.customerRates)
	ctx.Step(`^I rate "([^"]*)" with (\d+) stars?$`, steps.rate)
	ctx.Step(`^product "([^"]*)" should have rating (\S+) from (\d+) reviews?$`, steps.productRating)
}

type reviewSteps struct {
	tc TestContext
}

// customerRates registers a fresh customer and submits their review.
func (s *reviewSteps) customerRates(ctx context.Context, name, slug string, stars int) error {
	s.tc.ResetSession()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
	if err := s.tc.Request("POST", "/auth/register", map[string]string{
		"name": name, "email": email, "password": "correct-horse-battery",
	}); err != nil {
		return err
	}
	token, err := s.tc.Field("access_token")
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	s.tc.SetToken(token.(string))
	if err := s.rate(ctx, slug, stars); err != nil {
		return err
	}
	if s.tc.Status() != 201 {
		return fmt.Errorf("review by %s failed with %d: %s", name, s.tc.Status(), s.tc.Body())
	}
	return nil
}

func (s *reviewSteps) rate(_ context.Context, slug string, stars int) error {
	pid, err := s.tc.ProductID(slug)
	if err != nil {
		return err
	}
	return s.tc.Request("POST", "/products/"+pid+"/reviews", map[string]any{
		"rating": stars,
		"title":  fmt.Sprintf("%d stars", stars),
	})
}

func (s *reviewSteps) productRating(_ context.Context, slug, rating string, count int) error {
	if err := s.tc.Request("GET", "/products/"+slug, nil); err != nil {
		return err
	}
	gotRating, err := s.tc.Field("rating")
	if err != nil {
		return err
	}
	gotCount, err := s.tc.Field("review_count")
	if err != nil {
		return err
	}
	if fmt.Sprint(gotRating) != rating || int(gotCount.(float64)) != count {
		return fmt.Errorf("expected %s from %d reviews, got %v from %v", rating, count, gotRating, gotCount)
	}
	return nil
}
