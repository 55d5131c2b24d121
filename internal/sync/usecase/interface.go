package usecase

import (
	"context"

	syncdomain "lifedash-backend/internal/sync/domain"
	syncdto "lifedash-backend/internal/sync/dto"
	"lifedash-backend/pkg/notion"
)

// NotionClient is the slice of the source API the sync engine consumes
type NotionClient interface {
	RetrieveDatabase(ctx context.Context, token, databaseID string) (*notion.Database, error)
	QueryDatabase(ctx context.Context, token, databaseID, cursor string, pageSize int) (*notion.QueryResponse, error)
	RetrievePage(ctx context.Context, token, pageID string) (*notion.Page, error)
}

// RecordIndexer queues mirrored records for embedding (semantic search)
type RecordIndexer interface {
	QueueRecord(userID, recordID, domainTable, text string)
}

// ChangeNotifier pushes record-change events to the user's UI and devices
type ChangeNotifier interface {
	NotifyRecordChange(userID string, domainType syncdomain.DomainType, action, recordName string)
}

// SyncUsecase drives bindings and full/incremental syncs
type SyncUsecase interface {
	ConnectDatabase(ctx context.Context, userID string, req *syncdto.ConnectRequest) (*syncdomain.Binding, *syncdomain.SyncResult, error)
	DisconnectDatabase(ctx context.Context, userID, databaseID string, domainType syncdomain.DomainType, period string) error
	ListBindings(userID string) ([]*syncdomain.Binding, error)
	// SyncDomain resolves the user's binding for a domain and runs a full sync
	SyncDomain(ctx context.Context, userID string, domainType syncdomain.DomainType, period string) (*syncdomain.Binding, *syncdomain.SyncResult, error)
	// SyncBinding runs a full paginated refetch-and-reconcile
	SyncBinding(ctx context.Context, binding *syncdomain.Binding) (*syncdomain.SyncResult, error)
	// SyncPage upserts a single record into one binding's mirror (webhook path)
	SyncPage(ctx context.Context, binding *syncdomain.Binding, page *notion.Page) error
	ListRecords(userID string, domainType syncdomain.DomainType, period string) ([]*syncdomain.MirrorRecord, error)
	// SetRecordIndexer wires the embedding queue after creation
	SetRecordIndexer(indexer RecordIndexer)
	// SetChangeNotifier wires the notification service after creation
	SetChangeNotifier(notifier ChangeNotifier)
}

// WebhookUsecase resolves and fans out one inbound change notification
type WebhookUsecase interface {
	HandleEvent(ctx context.Context, event *syncdto.WebhookEvent) error
	// SetChangeNotifier wires the notification service after creation
	SetChangeNotifier(notifier ChangeNotifier)
}
