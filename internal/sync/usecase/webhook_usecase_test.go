package usecase

import (
	"context"
	"errors"
	"testing"

	authdomain "lifedash-backend/internal/auth/domain"
	syncdomain "lifedash-backend/internal/sync/domain"
	syncdto "lifedash-backend/internal/sync/dto"
	"lifedash-backend/internal/sync/repository"
	"lifedash-backend/pkg/notion"
)

// MockSyncUsecase stubs the incremental path; only SyncPage matters here
type MockSyncUsecase struct {
	SyncPageFunc func(ctx context.Context, binding *syncdomain.Binding, page *notion.Page) error
}

func (m *MockSyncUsecase) ConnectDatabase(ctx context.Context, userID string, req *syncdto.ConnectRequest) (*syncdomain.Binding, *syncdomain.SyncResult, error) {
	return nil, nil, nil
}

func (m *MockSyncUsecase) DisconnectDatabase(ctx context.Context, userID, databaseID string, domainType syncdomain.DomainType, period string) error {
	return nil
}

func (m *MockSyncUsecase) ListBindings(userID string) ([]*syncdomain.Binding, error) { return nil, nil }

func (m *MockSyncUsecase) SyncDomain(ctx context.Context, userID string, domainType syncdomain.DomainType, period string) (*syncdomain.Binding, *syncdomain.SyncResult, error) {
	return nil, nil, nil
}

func (m *MockSyncUsecase) SyncBinding(ctx context.Context, binding *syncdomain.Binding) (*syncdomain.SyncResult, error) {
	return nil, nil
}

func (m *MockSyncUsecase) SyncPage(ctx context.Context, binding *syncdomain.Binding, page *notion.Page) error {
	return m.SyncPageFunc(ctx, binding, page)
}

func (m *MockSyncUsecase) ListRecords(userID string, domainType syncdomain.DomainType, period string) ([]*syncdomain.MirrorRecord, error) {
	return nil, nil
}

func (m *MockSyncUsecase) SetRecordIndexer(indexer RecordIndexer)    {}
func (m *MockSyncUsecase) SetChangeNotifier(notifier ChangeNotifier) {}

func twoUserBindings() []*syncdomain.Binding {
	return []*syncdomain.Binding{
		{UserID: "u1", NotionDatabaseID: "db1", DomainType: syncdomain.DomainTasks},
		{UserID: "u2", NotionDatabaseID: "db1", DomainType: syncdomain.DomainContacts},
	}
}

func TestHandleEvent_FansOutToEveryBinding(t *testing.T) {
	bindingRepo := &MockBindingRepository{
		FindByDatabaseIDFunc: func(databaseID string) ([]*syncdomain.Binding, error) {
			return twoUserBindings(), nil
		},
	}
	userRepo := &MockUserRepository{FindByIDFunc: func(id string) (*authdomain.User, error) {
		return &authdomain.User{ID: id, NotionToken: "token-" + id}, nil
	}}

	var fetchTokens []string
	notionClient := &MockNotionClient{
		RetrievePageFunc: func(ctx context.Context, token, pageID string) (*notion.Page, error) {
			fetchTokens = append(fetchTokens, token)
			page := titledPage(pageID, "shared page")
			return &page, nil
		},
	}

	var syncedUsers []string
	syncUC := &MockSyncUsecase{
		SyncPageFunc: func(ctx context.Context, binding *syncdomain.Binding, page *notion.Page) error {
			syncedUsers = append(syncedUsers, binding.UserID)
			return nil
		},
	}

	uc := NewWebhookUsecase(bindingRepo, &MockRecordRepository{}, userRepo, notionClient, syncUC)

	event := &syncdto.WebhookEvent{
		Type:   syncdto.EventPagePropertiesUpdated,
		Entity: syncdto.WebhookEntity{ID: "page-1", Type: "page"},
		Data:   syncdto.WebhookEventData{Parent: &notion.Parent{Type: "database_id", DatabaseID: "db1"}},
	}
	if err := uc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error: %v", err)
	}

	if len(syncedUsers) != 2 {
		t.Fatalf("synced %d bindings, want 2", len(syncedUsers))
	}
	// The page is refetched per user with that user's own token
	if len(fetchTokens) != 2 || fetchTokens[0] == fetchTokens[1] {
		t.Errorf("fetch tokens = %v, want one per user", fetchTokens)
	}
}

func TestHandleEvent_UnconnectedDatabaseIgnored(t *testing.T) {
	bindingRepo := &MockBindingRepository{
		FindByDatabaseIDFunc: func(databaseID string) ([]*syncdomain.Binding, error) {
			return nil, nil
		},
	}
	uc := NewWebhookUsecase(bindingRepo, &MockRecordRepository{}, &MockUserRepository{}, &MockNotionClient{}, &MockSyncUsecase{})

	event := &syncdto.WebhookEvent{
		Type:   syncdto.EventPageCreated,
		Entity: syncdto.WebhookEntity{ID: "page-1", Type: "page"},
		Data:   syncdto.WebhookEventData{Parent: &notion.Parent{Type: "database_id", DatabaseID: "db-unknown"}},
	}
	if err := uc.HandleEvent(context.Background(), event); err != nil {
		t.Errorf("HandleEvent() for unconnected database = %v, want nil", err)
	}
}

func TestHandleEvent_ArchivedPageDeletesRecord(t *testing.T) {
	bindingRepo := &MockBindingRepository{
		FindByDatabaseIDFunc: func(databaseID string) ([]*syncdomain.Binding, error) {
			return []*syncdomain.Binding{{UserID: "u1", NotionDatabaseID: "db1", DomainType: syncdomain.DomainTasks}}, nil
		},
	}
	userRepo := &MockUserRepository{FindByIDFunc: func(id string) (*authdomain.User, error) {
		return tokenUser(id), nil
	}}
	notionClient := &MockNotionClient{
		RetrievePageFunc: func(ctx context.Context, token, pageID string) (*notion.Page, error) {
			return &notion.Page{ID: pageID, Archived: true}, nil
		},
	}

	var deletedFrom string
	recordRepo := &MockRecordRepository{
		DeleteByPageIDFunc: func(table, userID, pageID string) error {
			deletedFrom = table
			return nil
		},
	}
	syncUC := &MockSyncUsecase{SyncPageFunc: func(ctx context.Context, binding *syncdomain.Binding, page *notion.Page) error {
		t.Error("archived page must not be upserted")
		return nil
	}}

	uc := NewWebhookUsecase(bindingRepo, recordRepo, userRepo, notionClient, syncUC)

	event := &syncdto.WebhookEvent{
		Type:   syncdto.EventPageContentUpdated,
		Entity: syncdto.WebhookEntity{ID: "page-1", Type: "page"},
		Data:   syncdto.WebhookEventData{Parent: &notion.Parent{Type: "database_id", DatabaseID: "db1"}},
	}
	if err := uc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error: %v", err)
	}
	if deletedFrom != "task_items" {
		t.Errorf("deleted from %q, want task_items", deletedFrom)
	}
}

func TestHandleEvent_DeleteWithoutParentUsesReverseLookup(t *testing.T) {
	lookupCalled := false
	var deletions []string
	recordRepo := &MockRecordRepository{
		LookupPageFunc: func(pageID string) ([]repository.PageLocation, error) {
			lookupCalled = true
			return []repository.PageLocation{
				{Table: "contacts", UserID: "u1", NotionDatabaseID: "db1"},
			}, nil
		},
		DeleteByPageIDFunc: func(table, userID, pageID string) error {
			deletions = append(deletions, table+"/"+userID)
			return nil
		},
	}
	bindingRepo := &MockBindingRepository{
		FindByDatabaseIDFunc: func(databaseID string) ([]*syncdomain.Binding, error) {
			return nil, nil
		},
	}

	uc := NewWebhookUsecase(bindingRepo, recordRepo, &MockUserRepository{}, &MockNotionClient{}, &MockSyncUsecase{})

	event := &syncdto.WebhookEvent{
		Type:   syncdto.EventPageDeleted,
		Entity: syncdto.WebhookEntity{ID: "page-9", Type: "page"},
	}
	if err := uc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error: %v", err)
	}
	if !lookupCalled {
		t.Error("delete without parent did not reverse-lookup the page")
	}
	if len(deletions) != 1 || deletions[0] != "contacts/u1" {
		t.Errorf("deletions = %v, want [contacts/u1]", deletions)
	}
}

func TestHandleEvent_PerBindingFailureDoesNotAbortFanOut(t *testing.T) {
	bindingRepo := &MockBindingRepository{
		FindByDatabaseIDFunc: func(databaseID string) ([]*syncdomain.Binding, error) {
			return twoUserBindings(), nil
		},
	}
	userRepo := &MockUserRepository{FindByIDFunc: func(id string) (*authdomain.User, error) {
		return tokenUser(id), nil
	}}
	notionClient := &MockNotionClient{
		RetrievePageFunc: func(ctx context.Context, token, pageID string) (*notion.Page, error) {
			page := titledPage(pageID, "shared")
			return &page, nil
		},
	}

	var synced []string
	syncUC := &MockSyncUsecase{
		SyncPageFunc: func(ctx context.Context, binding *syncdomain.Binding, page *notion.Page) error {
			if binding.UserID == "u1" {
				return errors.New("write failed")
			}
			synced = append(synced, binding.UserID)
			return nil
		},
	}

	uc := NewWebhookUsecase(bindingRepo, &MockRecordRepository{}, userRepo, notionClient, syncUC)

	event := &syncdto.WebhookEvent{
		Type:   syncdto.EventPagePropertiesUpdated,
		Entity: syncdto.WebhookEntity{ID: "page-1", Type: "page"},
		Data:   syncdto.WebhookEventData{Parent: &notion.Parent{Type: "database_id", DatabaseID: "db1"}},
	}
	if err := uc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent() error: %v, per-binding failures must not bubble", err)
	}
	if len(synced) != 1 || synced[0] != "u2" {
		t.Errorf("synced = %v, want the healthy binding still processed", synced)
	}
}

func TestHandleEvent_UnknownEventTypeIgnored(t *testing.T) {
	uc := NewWebhookUsecase(&MockBindingRepository{}, &MockRecordRepository{}, &MockUserRepository{}, &MockNotionClient{}, &MockSyncUsecase{})

	event := &syncdto.WebhookEvent{
		Type:   "database.schema_updated",
		Entity: syncdto.WebhookEntity{ID: "db1", Type: "database"},
	}
	if err := uc.HandleEvent(context.Background(), event); err != nil {
		t.Errorf("HandleEvent(unknown type) = %v, want nil", err)
	}
}
