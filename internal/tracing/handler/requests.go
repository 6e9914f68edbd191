package handler

import (
	"strings"
	"time"

	"contactledger/internal/contacts"
	"contactledger/internal/exposure"
	"contactledger/internal/flags"
	"contactledger/internal/identity"
	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
)

// GenerateIDRequest asks for the external form of an internal identity to be
// registered in the uuid pool.
type GenerateIDRequest struct {
	ID string `json:"id"`

	identity id.Identity
}

func (r *GenerateIDRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
}

func (r *GenerateIDRequest) Validate() error {
	if r.ID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	parsed, err := id.ParseIdentity(r.ID)
	if err != nil {
		return err
	}
	r.identity = parsed
	return nil
}

type AddContactRequest struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id"`
}

func (r *AddContactRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.ContactID = strings.TrimSpace(r.ContactID)
}

func (r *AddContactRequest) Validate() error {
	if r.ID == "" || r.ContactID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "id and contact_id are required")
	}
	return nil
}

type AddFlagRequest struct {
	ID       string `json:"id"`
	FlagType string `json:"flag_type"`

	flagType id.FlagType
}

func (r *AddFlagRequest) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.FlagType = strings.ToLower(strings.TrimSpace(r.FlagType))
}

func (r *AddFlagRequest) Validate() error {
	if r.ID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	ft, err := id.ParseFlagType(r.FlagType)
	if err != nil {
		return err
	}
	r.flagType = ft
	return nil
}

// RegisterIdentityRequest provisions an external id for an account.
type RegisterIdentityRequest struct {
	ExternalID string `json:"external_id"`
	Owner      string `json:"owner"`
}

func (r *RegisterIdentityRequest) Normalize() {
	r.ExternalID = strings.TrimSpace(r.ExternalID)
	r.Owner = strings.TrimSpace(r.Owner)
}

func (r *RegisterIdentityRequest) Validate() error {
	if r.ExternalID == "" || r.Owner == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "external_id and owner are required")
	}
	return nil
}

type CheckIDResponse struct {
	ExternalID string `json:"external_id"`
	Exists     bool   `json:"exists"`
}

type ContactResponse struct {
	ContactID id.Identity `json:"contact_id"`
	Timestamp time.Time   `json:"timestamp"`
}

type ContactsResponse struct {
	Identity id.Identity       `json:"identity"`
	Contacts []ContactResponse `json:"contacts"`
}

type FlagResponse struct {
	Identity  id.Identity `json:"identity"`
	FlagType  *string     `json:"flag_type"`
	Exposed   bool        `json:"exposed"`
	Timestamp time.Time   `json:"timestamp"`
}

type NoticeResponse struct {
	Via        id.Identity `json:"via"`
	NotifiedAt time.Time   `json:"notified_at"`
}

type NoticesResponse struct {
	Identity id.Identity      `json:"identity"`
	Notices  []NoticeResponse `json:"notices"`
}

type IdentityResponse struct {
	ExternalID id.ExternalID `json:"external_id"`
	Identity   id.Identity   `json:"identity"`
	Owner      id.AccountID  `json:"owner"`
	CreatedAt  time.Time     `json:"created_at"`
}

func toContactsResponse(owner id.Identity, list []*contacts.Contact) ContactsResponse {
	resp := ContactsResponse{Identity: owner, Contacts: make([]ContactResponse, 0, len(list))}
	for _, c := range list {
		resp.Contacts = append(resp.Contacts, ContactResponse{ContactID: c.ContactID, Timestamp: c.Timestamp})
	}
	return resp
}

func toFlagResponse(f *flags.Flag) FlagResponse {
	resp := FlagResponse{Identity: f.ID, Exposed: f.Exposed(), Timestamp: f.Timestamp}
	if f.FlagType != nil {
		ft := f.FlagType.String()
		resp.FlagType = &ft
	}
	return resp
}

func toNoticesResponse(subject id.Identity, list []*exposure.Notice) NoticesResponse {
	resp := NoticesResponse{Identity: subject, Notices: make([]NoticeResponse, 0, len(list))}
	for _, n := range list {
		resp.Notices = append(resp.Notices, NoticeResponse{Via: n.Via, NotifiedAt: n.NotifiedAt})
	}
	return resp
}

func toIdentityResponse(rec *identity.Record) IdentityResponse {
	return IdentityResponse{
		ExternalID: rec.ExternalID,
		Identity:   rec.Identity,
		Owner:      rec.Owner,
		CreatedAt:  rec.CreatedAt,
	}
}
