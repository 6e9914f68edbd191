package offchain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cucumber/godog"

	"contactledger/e2e/steps/common"
)

// TestContext is the slice of the scenario context the offchain steps need.
type TestContext interface {
	GET(path string, headers map[string]string) error
	AdminPOST(path string, body any) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	LookupIdentity(alias string) (common.Identity, error)
}

// RegisterSteps registers epoch processing and notice steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &offchainSteps{tc: tc}

	ctx.Step(`^the operator processes the pending requests$`, steps.processPending)
	ctx.Step(`^the operator triggers epoch "([^"]*)"$`, steps.triggerEpoch)
	ctx.Step(`^identity "([^"]*)" should eventually have a notice via "([^"]*)"$`, steps.eventuallyNoticed)
	ctx.Step(`^identity "([^"]*)" should have no notices$`, steps.noNotices)
	ctx.Step(`^the request queue should be empty$`, steps.queueEmpty)
}

type offchainSteps struct {
	tc TestContext
}

type status struct {
	Checkpoint   *uint64 `json:"checkpoint"`
	CurrentEpoch *uint64 `json:"current_epoch"`
	Pending      int     `json:"pending"`
	Inflight     int     `json:"inflight"`
}

type notices struct {
	Notices []struct {
		Via string `json:"via"`
	} `json:"notices"`
}

func (s *offchainSteps) status() (status, error) {
	var st status
	if err := s.tc.GET("/offchain/status", nil); err != nil {
		return st, err
	}
	if s.tc.GetLastResponseStatus() != 200 {
		return st, fmt.Errorf("status: %d: %s", s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &st); err != nil {
		return st, fmt.Errorf("decode status: %w", err)
	}
	return st, nil
}

// processPending triggers the epoch after the next one so the range covers
// at least one unprocessed epoch.
func (s *offchainSteps) processPending(ctx context.Context) error {
	st, err := s.status()
	if err != nil {
		return err
	}
	next := uint64(2)
	switch {
	case st.CurrentEpoch != nil && *st.CurrentEpoch > 1:
		next = *st.CurrentEpoch
	case st.Checkpoint != nil:
		next = *st.Checkpoint + 2
	}
	return s.triggerEpoch(ctx, strconv.FormatUint(next, 10))
}

func (s *offchainSteps) triggerEpoch(ctx context.Context, epoch string) error {
	return s.tc.AdminPOST("/offchain/epochs/"+epoch, nil)
}

func (s *offchainSteps) listNotices(alias string) (notices, error) {
	var out notices
	ident, err := s.tc.LookupIdentity(alias)
	if err != nil {
		return out, err
	}
	if err := s.tc.GET("/notices/"+ident.Internal, nil); err != nil {
		return out, err
	}
	if s.tc.GetLastResponseStatus() != 200 {
		return out, fmt.Errorf("notices: %d: %s", s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &out); err != nil {
		return out, fmt.Errorf("decode notices: %w", err)
	}
	return out, nil
}

func (s *offchainSteps) eventuallyNoticed(ctx context.Context, subject, via string) error {
	viaIdent, err := s.tc.LookupIdentity(via)
	if err != nil {
		return err
	}
	deadline := time.Now().Add(15 * time.Second)
	for {
		got, err := s.listNotices(subject)
		if err != nil {
			return err
		}
		for _, n := range got.Notices {
			if n.Via == viaIdent.Internal {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("no notice for %s via %s after 15s", subject, via)
		}
		// a concurrent scheduler may hold the lease; retry the trigger
		if err := s.processPending(ctx); err != nil {
			return err
		}
		time.Sleep(250 * time.Millisecond)
	}
}

func (s *offchainSteps) noNotices(ctx context.Context, alias string) error {
	got, err := s.listNotices(alias)
	if err != nil {
		return err
	}
	if len(got.Notices) != 0 {
		return fmt.Errorf("expected no notices for %s, got %d", alias, len(got.Notices))
	}
	return nil
}

func (s *offchainSteps) queueEmpty(ctx context.Context) error {
	st, err := s.status()
	if err != nil {
		return err
	}
	if st.Pending != 0 || st.Inflight != 0 {
		return fmt.Errorf("queue not empty: pending=%d inflight=%d", st.Pending, st.Inflight)
	}
	return nil
}
