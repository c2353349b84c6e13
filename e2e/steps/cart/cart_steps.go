package cart

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Request(method, path string, body any) error
	Status() int
	Body() string
	ProductID(slug string) (string, error)
}

// RegisterSteps registers cart step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &cartSteps{tc: tc}

	ctx.Step(`^I add (\d+) "([^"]*)" ground "([^"]*)" to my cart$`, steps.addItem)
	ctx.Step(`^I set the quantity of "([^"]*)" ground "([^"]*)" to (-?\d+)$`, steps.setQuantity)
	ctx.Step(`^I remove "([^"]*)" ground "([^"]*)" from my cart$`, steps.removeItem)
	ctx.Step(`^I view my cart$`, steps.view)
}

type cartSteps struct {
	tc TestContext
}

func (s *cartSteps) line(slug, variant string, qty int) (map[string]any, error) {
	pid, err := s.tc.ProductID(slug)
	if err != nil {
		return nil, err
	}
	return map[string]any{"product_id": pid, "variant": variant, "quantity": qty}, nil
}

func (s *cartSteps) addItem(_ context.Context, qty int, slug, variant string) error {
	body, err := s.line(slug, variant, qty)
	if err != nil {
		return err
	}
	if err := s.tc.Request("POST", "/cart/items", body); err != nil {
		return err
	}
	if s.tc.Status() != 200 {
		return fmt.Errorf("add to cart failed with %d: %s", s.tc.Status(), s.tc.Body())
	}
	return nil
}

func (s *cartSteps) setQuantity(_ context.Context, slug, variant string, qty int) error {
	body, err := s.line(slug, variant, qty)
	if err != nil {
		return err
	}
	return s.tc.Request("PATCH", "/cart/items", body)
}

func (s *cartSteps) removeItem(_ context.Context, slug, variant string) error {
	pid, err := s.tc.ProductID(slug)
	if err != nil {
		return err
	}
	return s.tc.Request("DELETE", "/cart/items?product_id="+pid+"&variant="+variant, nil)
}

func (s *cartSteps) view(context.Context) error {
	return s.tc.Request("GET", "/cart", nil)
}
