package e2e

import (
	"github.com/cucumber/godog"

	"contactledger/e2e/steps/common"
	"contactledger/e2e/steps/offchain"
	"contactledger/e2e/steps/ratelimit"
	"contactledger/e2e/steps/tracing"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	tracing.RegisterSteps(ctx, tc)
	offchain.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}
