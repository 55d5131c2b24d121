package usecase

import (
	"context"
	"fmt"
	"log"

	authrepo "lifedash-backend/internal/auth/repository"
	syncdomain "lifedash-backend/internal/sync/domain"
	syncdto "lifedash-backend/internal/sync/dto"
	"lifedash-backend/internal/sync/repository"
)

// webhookUsecase implements WebhookUsecase interface
type webhookUsecase struct {
	bindingRepo repository.BindingRepository
	recordRepo  repository.RecordRepository
	userRepo    authrepo.UserRepository
	notion      NotionClient
	sync        SyncUsecase
	notifier    ChangeNotifier
}

// NewWebhookUsecase creates a new instance of webhookUsecase
func NewWebhookUsecase(bindingRepo repository.BindingRepository, recordRepo repository.RecordRepository, userRepo authrepo.UserRepository, notionClient NotionClient, syncUC SyncUsecase) WebhookUsecase {
	return &webhookUsecase{
		bindingRepo: bindingRepo,
		recordRepo:  recordRepo,
		userRepo:    userRepo,
		notion:      notionClient,
		sync:        syncUC,
	}
}

// SetChangeNotifier allows wiring the notification service after creation
func (u *webhookUsecase) SetChangeNotifier(notifier ChangeNotifier) {
	u.notifier = notifier
}

// HandleEvent routes one webhook notification. Events for pages nobody
// mirrors are dropped silently; per-binding failures are logged but never
// bubble up, the source retries on non-200 only.
func (u *webhookUsecase) HandleEvent(ctx context.Context, event *syncdto.WebhookEvent) error {
	if event.Entity.Type != "" && event.Entity.Type != "page" {
		log.Printf("[Webhook] Ignoring %s event for entity type %s", event.Type, event.Entity.Type)
		return nil
	}

	switch event.Type {
	case syncdto.EventPageDeleted:
		return u.handleDelete(event)
	case syncdto.EventPageCreated, syncdto.EventPagePropertiesUpdated, syncdto.EventPageContentUpdated:
		return u.handleUpsert(ctx, event)
	default:
		log.Printf("[Webhook] Ignoring unhandled event type %s", event.Type)
		return nil
	}
}

func (u *webhookUsecase) handleUpsert(ctx context.Context, event *syncdto.WebhookEvent) error {
	pageID := event.Entity.ID
	databaseID := u.resolveDatabaseID(ctx, event)
	if databaseID == "" {
		log.Printf("[Webhook] Could not resolve a database for page %s, dropping event", pageID)
		return nil
	}

	bindings, err := u.bindingRepo.FindByDatabaseID(databaseID)
	if err != nil {
		return err
	}
	if len(bindings) == 0 {
		return nil // database not connected by anyone
	}

	action := "updated"
	if event.Type == syncdto.EventPageCreated {
		action = "created"
	}

	for _, binding := range bindings {
		if err := u.syncOne(ctx, binding, pageID, action); err != nil {
			log.Printf("[Webhook] Sync of page %s for user %s failed: %v", pageID, binding.UserID, err)
		}
	}
	return nil
}

func (u *webhookUsecase) syncOne(ctx context.Context, binding *syncdomain.Binding, pageID, action string) error {
	token, err := u.tokenFor(binding.UserID)
	if err != nil {
		return err
	}

	// The event carries no property payload; refetch the page for its
	// current state
	page, err := u.notion.RetrievePage(ctx, token, pageID)
	if err != nil {
		return fmt.Errorf("failed to retrieve page: %w", err)
	}

	if page.Archived {
		table := binding.DomainType.TableName()
		if err := u.recordRepo.DeleteByPageID(table, binding.UserID, pageID); err != nil {
			return err
		}
		u.notify(binding, "deleted", "")
		return nil
	}

	if err := u.sync.SyncPage(ctx, binding, page); err != nil {
		return err
	}
	u.notify(binding, action, BuildRecord(binding, page).Name)
	return nil
}

func (u *webhookUsecase) handleDelete(event *syncdto.WebhookEvent) error {
	pageID := event.Entity.ID

	if event.Data.Parent != nil && event.Data.Parent.DatabaseID != "" {
		bindings, err := u.bindingRepo.FindByDatabaseID(event.Data.Parent.DatabaseID)
		if err != nil {
			return err
		}
		for _, binding := range bindings {
			table := binding.DomainType.TableName()
			if err := u.recordRepo.DeleteByPageID(table, binding.UserID, pageID); err != nil {
				log.Printf("[Webhook] Delete of page %s for user %s failed: %v", pageID, binding.UserID, err)
				continue
			}
			u.notify(binding, "deleted", "")
		}
		return nil
	}

	// Delete payloads often lose the parent once the page is in the trash;
	// fall back to scanning the mirror tables
	locations, err := u.recordRepo.LookupPage(pageID)
	if err != nil {
		return err
	}
	for _, loc := range locations {
		if err := u.recordRepo.DeleteByPageID(loc.Table, loc.UserID, pageID); err != nil {
			log.Printf("[Webhook] Delete of page %s from %s failed: %v", pageID, loc.Table, err)
			continue
		}
		u.notifyLocation(loc, pageID)
	}
	return nil
}

// resolveDatabaseID finds which database a page event belongs to: the parent
// in the payload when present, then the local mirror, then a refetch of the
// page using a token borrowed from a user already mirroring it
func (u *webhookUsecase) resolveDatabaseID(ctx context.Context, event *syncdto.WebhookEvent) string {
	if event.Data.Parent != nil && event.Data.Parent.DatabaseID != "" {
		return event.Data.Parent.DatabaseID
	}

	locations, err := u.recordRepo.LookupPage(event.Entity.ID)
	if err != nil {
		log.Printf("[Webhook] Reverse lookup for page %s failed: %v", event.Entity.ID, err)
		return ""
	}
	if len(locations) > 0 {
		if locations[0].NotionDatabaseID != "" {
			return locations[0].NotionDatabaseID
		}
		// Mirror row exists but without a database reference; ask the API
		token, err := u.tokenFor(locations[0].UserID)
		if err != nil {
			return ""
		}
		page, err := u.notion.RetrievePage(ctx, token, event.Entity.ID)
		if err != nil {
			log.Printf("[Webhook] Page refetch for %s failed: %v", event.Entity.ID, err)
			return ""
		}
		return page.Parent.DatabaseID
	}
	return ""
}

func (u *webhookUsecase) tokenFor(userID string) (string, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return "", err
	}
	if user == nil || user.NotionToken == "" {
		return "", ErrNoNotionToken
	}
	return user.NotionToken, nil
}

func (u *webhookUsecase) notify(binding *syncdomain.Binding, action, name string) {
	if u.notifier == nil {
		return
	}
	u.notifier.NotifyRecordChange(binding.UserID, binding.DomainType, action, name)
}

func (u *webhookUsecase) notifyLocation(loc repository.PageLocation, pageID string) {
	if u.notifier == nil {
		return
	}
	bindings, err := u.bindingRepo.FindByDatabaseID(loc.NotionDatabaseID)
	if err != nil {
		return
	}
	for _, binding := range bindings {
		if binding.UserID == loc.UserID {
			u.notifier.NotifyRecordChange(binding.UserID, binding.DomainType, "deleted", "")
			return
		}
	}
}
