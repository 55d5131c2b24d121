package dto

import (
	"time"

	"lifedash-backend/pkg/notion"
)

// ConnectRequest links a Notion database to a domain. DomainType may be
// omitted, in which case it is inferred from the database display name and
// returned for the user to confirm or override.
type ConnectRequest struct {
	DatabaseID string `json:"database_id" binding:"required"`
	DomainType string `json:"domain_type,omitempty"`
	SyncMode   string `json:"sync_mode,omitempty"`
}

type DisconnectRequest struct {
	DomainType string `json:"domain_type" binding:"required"`
}

// SyncResponse is the summary returned by the sync trigger endpoints
type SyncResponse struct {
	Success  bool       `json:"success"`
	Synced   int        `json:"synced"`
	Added    int        `json:"added"`
	Removed  int        `json:"removed"`
	Modified int        `json:"modified"`
	LastSync *time.Time `json:"last_sync,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// WebhookEntity identifies the changed object in a webhook event
type WebhookEntity struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// WebhookEventData carries the optional context of a webhook event
type WebhookEventData struct {
	Parent            *notion.Parent `json:"parent,omitempty"`
	UpdatedProperties []string       `json:"updated_properties,omitempty"`
}

// WebhookEvent is the inbound notification payload. A payload carrying only
// VerificationToken is the one-time subscription handshake.
type WebhookEvent struct {
	VerificationToken string           `json:"verification_token,omitempty"`
	Type              string           `json:"type,omitempty"`
	Entity            WebhookEntity    `json:"entity"`
	Data              WebhookEventData `json:"data"`
}

// Webhook event types, as the source delivers them
const (
	EventPageCreated           = "page.created"
	EventPagePropertiesUpdated = "page.properties_updated"
	EventPageContentUpdated    = "page.content_updated"
	EventPageDeleted           = "page.deleted"
)

type SemanticSearchRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit,omitempty"`
}
