package tracing

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"contactledger/e2e/steps/common"
)

// TestContext is the slice of the scenario context the tracing steps need.
type TestContext interface {
	GET(path string, headers map[string]string) error
	SignedPOST(account, path string, body any) error
	AdminPOST(path string, body any) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	RememberIdentity(alias string, ident common.Identity)
	LookupIdentity(alias string) (common.Identity, error)
}

// RegisterSteps registers identity, contact and flag steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &tracingSteps{tc: tc}

	ctx.Step(`^identity "([^"]*)" is registered to account "([^"]*)"$`, steps.registerIdentity)
	ctx.Step(`^"([^"]*)" flags identity "([^"]*)" as "([^"]*)"$`, steps.flagIdentity)
	ctx.Step(`^"([^"]*)" records a contact between "([^"]*)" and "([^"]*)"$`, steps.addContact)
	ctx.Step(`^"([^"]*)" records a contact with an unknown identity$`, steps.addContactUnknown)
	ctx.Step(`^"([^"]*)" requests a fresh identity for "([^"]*)"$`, steps.generateID)
	ctx.Step(`^I check whether identity "([^"]*)" exists$`, steps.checkID)
	ctx.Step(`^I read the flag of identity "([^"]*)"$`, steps.readFlag)
	ctx.Step(`^I list the contacts of identity "([^"]*)"$`, steps.listContacts)
}

type tracingSteps struct {
	tc TestContext
}

func (s *tracingSteps) registerIdentity(ctx context.Context, alias, owner string) error {
	external := uuid.NewString()
	if err := s.tc.AdminPOST("/admin/identities", map[string]string{"external_id": external, "owner": owner}); err != nil {
		return err
	}
	if s.tc.GetLastResponseStatus() != 201 {
		return fmt.Errorf("register %s: status %d: %s", alias, s.tc.GetLastResponseStatus(), s.tc.GetLastResponseBody())
	}
	internal, err := s.tc.GetResponseField("identity")
	if err != nil {
		return err
	}
	s.tc.RememberIdentity(alias, common.Identity{External: external, Internal: fmt.Sprint(internal)})
	return nil
}

func (s *tracingSteps) flagIdentity(ctx context.Context, signer, alias, flagType string) error {
	ident, err := s.tc.LookupIdentity(alias)
	if err != nil {
		return err
	}
	return s.tc.SignedPOST(signer, "/flags", map[string]string{"id": ident.External, "flag_type": flagType})
}

func (s *tracingSteps) addContact(ctx context.Context, signer, a, b string) error {
	ia, err := s.tc.LookupIdentity(a)
	if err != nil {
		return err
	}
	ib, err := s.tc.LookupIdentity(b)
	if err != nil {
		return err
	}
	return s.tc.SignedPOST(signer, "/contacts", map[string]string{"id": ia.External, "contact_id": ib.External})
}

func (s *tracingSteps) addContactUnknown(ctx context.Context, signer string) error {
	return s.tc.SignedPOST(signer, "/contacts", map[string]string{"id": uuid.NewString(), "contact_id": uuid.NewString()})
}

func (s *tracingSteps) generateID(ctx context.Context, signer, alias string) error {
	ident, err := s.tc.LookupIdentity(alias)
	if err != nil {
		return err
	}
	return s.tc.SignedPOST(signer, "/identities/generate", map[string]string{"id": ident.Internal})
}

func (s *tracingSteps) checkID(ctx context.Context, alias string) error {
	ident, err := s.tc.LookupIdentity(alias)
	if err != nil {
		return err
	}
	return s.tc.GET("/identities/"+ident.External+"/check", nil)
}

func (s *tracingSteps) readFlag(ctx context.Context, alias string) error {
	ident, err := s.tc.LookupIdentity(alias)
	if err != nil {
		return err
	}
	return s.tc.GET("/flags/"+ident.Internal, nil)
}

func (s *tracingSteps) listContacts(ctx context.Context, alias string) error {
	ident, err := s.tc.LookupIdentity(alias)
	if err != nil {
		return err
	}
	return s.tc.GET("/contacts/"+ident.Internal, nil)
}
