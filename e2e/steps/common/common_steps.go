package common

import (
	"context"
	"fmt"
	"strconv"

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
}

// RegisterSteps registers session, request and assertion steps shared by
// every feature.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I am a guest$`, steps.guest)
	ctx.Step(`^I am signed in as "([^"]*)" with password "([^"]*)"$`, steps.signIn)
	ctx.Step(`^I register as "([^"]*)" with email "([^"]*)"$`, steps.register)

	ctx.Step(`^I (GET|DELETE) "([^"]*)"$`, steps.request)
	ctx.Step(`^I (POST|PATCH) "([^"]*)" with:$`, steps.requestWithBody)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) items?$`, steps.fieldShouldHaveItems)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) guest(context.Context) error {
	s.tc.ResetSession()
	return nil
}

func (s *commonSteps) signIn(_ context.Context, email, password string) error {
	s.tc.ResetSession()
	if err := s.tc.Request("POST", "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}); err != nil {
		return err
	}
	return s.saveToken()
}

func (s *commonSteps) register(_ context.Context, name, email string) error {
	s.tc.ResetSession()
	if err := s.tc.Request("POST", "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": "correct-horse-battery",
	}); err != nil {
		return err
	}
	return s.saveToken()
}

func (s *commonSteps) saveToken() error {
	token, err := s.tc.Field("access_token")
	if err != nil {
		return fmt.Errorf("no token (status %d): %w", s.tc.Status(), err)
	}
	s.tc.SetToken(token.(string))
	return nil
}

func (s *commonSteps) request(_ context.Context, method, path string) error {
	return s.tc.Request(method, path, nil)
}

func (s *commonSteps) requestWithBody(_ context.Context, method, path string, body *godog.DocString) error {
	return s.tc.Request(method, path, body.Content)
}

func (s *commonSteps) statusShouldBe(_ context.Context, expected int) error {
	if s.tc.Status() != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.tc.Status(), s.tc.Body())
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(_ context.Context, path, expected string) error {
	v, err := s.tc.Field(path)
	if err != nil {
		return err
	}
	if got := Format(v); got != expected {
		return fmt.Errorf("field %q: expected %q, got %q", path, expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldHaveItems(_ context.Context, path string, n int) error {
	v, err := s.tc.Field(path)
	if err != nil {
		return err
	}
	items, ok := v.([]any)
	if !ok {
		return fmt.Errorf("field %q is not a list", path)
	}
	if len(items) != n {
		return fmt.Errorf("field %q: expected %d items, got %d", path, n, len(items))
	}
	return nil
}

// Format renders a decoded JSON value the way feature files spell it.
func Format(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case nil:
		return "null"
	default:
		return fmt.Sprint(x)
	}
}
