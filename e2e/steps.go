package e2e

import (
	"github.com/cucumber/godog"

	"brewleaf/e2e/steps/cart"
	"brewleaf/e2e/steps/checkout"
	"brewleaf/e2e/steps/common"
	"brewleaf/e2e/steps/quiz"
	"brewleaf/e2e/steps/review"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	cart.RegisterSteps(ctx, tc)
	checkout.RegisterSteps(ctx, tc)
	quiz.RegisterSteps(ctx, tc)
	review.RegisterSteps(ctx, tc)
}
