package ratelimit

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"contactledger/e2e/steps/common"
)

// TestContext is the slice of the scenario context the throttling steps need.
type TestContext interface {
	SignedPOST(account, path string, body any) error
	GetLastResponseStatus() int
	LookupIdentity(alias string) (common.Identity, error)
}

// RegisterSteps registers signed command throttling steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^"([^"]*)" requests a fresh identity for "([^"]*)" (\d+) times$`, steps.generateNTimes)
	ctx.Step(`^at least one of those requests should be throttled$`, steps.someThrottled)
}

type ratelimitSteps struct {
	tc        TestContext
	throttled int
}

func (s *ratelimitSteps) generateNTimes(ctx context.Context, signer, alias string, n int) error {
	ident, err := s.tc.LookupIdentity(alias)
	if err != nil {
		return err
	}
	s.throttled = 0
	for range n {
		if err := s.tc.SignedPOST(signer, "/identities/generate", map[string]string{"id": ident.Internal}); err != nil {
			return err
		}
		switch s.tc.GetLastResponseStatus() {
		case 202:
		case 429:
			s.throttled++
		default:
			return fmt.Errorf("unexpected status %d", s.tc.GetLastResponseStatus())
		}
	}
	return nil
}

func (s *ratelimitSteps) someThrottled(ctx context.Context) error {
	if s.throttled == 0 {
		return fmt.Errorf("no request was throttled")
	}
	return nil
}
