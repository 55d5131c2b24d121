package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	authrepo "lifedash-backend/internal/auth/repository"
	syncdomain "lifedash-backend/internal/sync/domain"
	syncdto "lifedash-backend/internal/sync/dto"
	"lifedash-backend/internal/sync/repository"
	"lifedash-backend/pkg/notion"
)

// ErrBindingNotFound is returned when a user has not connected a database for
// the requested domain. Delivery maps it to a 404.
var ErrBindingNotFound = errors.New("database not connected")

// ErrNoNotionToken is returned when the user has no workspace token stored
var ErrNoNotionToken = errors.New("notion token not configured")

// syncUsecase implements SyncUsecase interface
type syncUsecase struct {
	bindingRepo repository.BindingRepository
	recordRepo  repository.RecordRepository
	userRepo    authrepo.UserRepository
	notion      NotionClient
	indexer     RecordIndexer
	notifier    ChangeNotifier
}

// NewSyncUsecase creates a new instance of syncUsecase
func NewSyncUsecase(bindingRepo repository.BindingRepository, recordRepo repository.RecordRepository, userRepo authrepo.UserRepository, notionClient NotionClient) SyncUsecase {
	return &syncUsecase{
		bindingRepo: bindingRepo,
		recordRepo:  recordRepo,
		userRepo:    userRepo,
		notion:      notionClient,
	}
}

// SetRecordIndexer allows wiring the embedding queue after creation
func (u *syncUsecase) SetRecordIndexer(indexer RecordIndexer) {
	u.indexer = indexer
}

// SetChangeNotifier allows wiring the notification service after creation
func (u *syncUsecase) SetChangeNotifier(notifier ChangeNotifier) {
	u.notifier = notifier
}

func (u *syncUsecase) ConnectDatabase(ctx context.Context, userID string, req *syncdto.ConnectRequest) (*syncdomain.Binding, *syncdomain.SyncResult, error) {
	token, err := u.notionToken(userID)
	if err != nil {
		return nil, nil, err
	}

	db, err := u.notion.RetrieveDatabase(ctx, token, req.DatabaseID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve database: %w", err)
	}
	databaseName := notion.DatabaseTitle(db)

	// Explicit domain choice wins; the display-name inference is only a
	// default when the user did not classify the database
	domainType := syncdomain.DomainType(req.DomainType)
	if domainType == "" {
		domainType = syncdomain.InferDomainType(databaseName)
		if domainType == "" {
			return nil, nil, fmt.Errorf("could not infer a domain for %q, pass domain_type explicitly", databaseName)
		}
		log.Printf("[Sync] Inferred domain %s for database %q", domainType, databaseName)
	}
	if !domainType.Valid() {
		return nil, nil, fmt.Errorf("unknown domain type %q", req.DomainType)
	}

	syncMode := req.SyncMode
	if syncMode == "" {
		syncMode = syncdomain.SyncModeManual
	}

	binding := &syncdomain.Binding{
		UserID:           userID,
		NotionDatabaseID: req.DatabaseID,
		DomainType:       domainType,
		Period:           domainType.Period(),
		DatabaseName:     databaseName,
		SchemaProperties: schemaFromDatabase(db),
		SyncMode:         syncMode,
	}

	if err := u.bindingRepo.Upsert(binding); err != nil {
		return nil, nil, err
	}

	result, err := u.SyncBinding(ctx, binding)
	if err != nil {
		// The binding exists; the initial sync can be retried manually
		log.Printf("[Sync] Initial sync of %q failed: %v", databaseName, err)
		return binding, nil, nil
	}
	return binding, result, nil
}

func (u *syncUsecase) DisconnectDatabase(ctx context.Context, userID, databaseID string, domainType syncdomain.DomainType, period string) error {
	binding, err := u.bindingRepo.FindByUserDomain(userID, domainType, period)
	if err != nil {
		return err
	}
	if binding != nil && binding.NotionDatabaseID == databaseID {
		// Drop the mirror along with the binding
		records, err := u.recordRepo.ListForSync(domainType.TableName(), userID, databaseID)
		if err == nil && len(records) > 0 {
			ids := make([]string, 0, len(records))
			for _, r := range records {
				ids = append(ids, r.NotionPageID)
			}
			if err := u.recordRepo.DeleteByPageIDs(domainType.TableName(), userID, databaseID, ids); err != nil {
				log.Printf("[Sync] Failed to clear mirror on disconnect: %v", err)
			}
		}
	}
	return u.bindingRepo.Remove(userID, databaseID, domainType, period)
}

func (u *syncUsecase) ListBindings(userID string) ([]*syncdomain.Binding, error) {
	return u.bindingRepo.ListByUser(userID)
}

// SyncDomain resolves the binding and runs a full sync. For tasks and
// contacts a missing explicit binding falls back to a case-insensitive
// display-name match over the user's bindings (soft binding).
func (u *syncUsecase) SyncDomain(ctx context.Context, userID string, domainType syncdomain.DomainType, period string) (*syncdomain.Binding, *syncdomain.SyncResult, error) {
	binding, err := u.resolveBinding(userID, domainType, period)
	if err != nil {
		return nil, nil, err
	}
	result, err := u.SyncBinding(ctx, binding)
	return binding, result, err
}

func (u *syncUsecase) resolveBinding(userID string, domainType syncdomain.DomainType, period string) (*syncdomain.Binding, error) {
	binding, err := u.bindingRepo.FindByUserDomain(userID, domainType, period)
	if err != nil {
		return nil, err
	}
	if binding != nil {
		return binding, nil
	}

	if domainType == syncdomain.DomainTasks || domainType == syncdomain.DomainContacts {
		bindings, err := u.bindingRepo.ListByUser(userID)
		if err != nil {
			return nil, err
		}
		for _, b := range bindings {
			if syncdomain.InferDomainType(b.DatabaseName) == domainType {
				return b, nil
			}
		}
	}

	return nil, fmt.Errorf("%s %w", domainType, ErrBindingNotFound)
}

func (u *syncUsecase) SyncBinding(ctx context.Context, binding *syncdomain.Binding) (*syncdomain.SyncResult, error) {
	token, err := u.notionToken(binding.UserID)
	if err != nil {
		return nil, err
	}

	// Pick up schema changes first; a failed refresh keeps the cached copy
	u.refreshSchema(ctx, token, binding)

	pages, err := u.fetchAllPages(ctx, token, binding.NotionDatabaseID)
	if err != nil {
		return nil, fmt.Errorf("full fetch failed: %w", err)
	}

	table := binding.DomainType.TableName()
	existing, err := u.recordRepo.ListForSync(table, binding.UserID, binding.NotionDatabaseID)
	if err != nil {
		return nil, err
	}

	mirrored := make(map[string]*syncdomain.MirrorRecord, len(existing))
	for _, record := range existing {
		mirrored[record.NotionPageID] = record
	}

	result := &syncdomain.SyncResult{Synced: len(pages)}
	fetched := make(map[string]bool, len(pages))
	var toWrite []*syncdomain.MirrorRecord
	var isNew []bool

	for i := range pages {
		page := &pages[i]
		fetched[page.ID] = true

		record := BuildRecord(binding, page)
		record.Normalized = NormalizeRecord(page.Properties)

		previous, exists := mirrored[page.ID]
		if exists {
			if NormalizedEqual(previous.Normalized, record.Normalized) {
				continue // unchanged
			}
			record.ID = previous.ID
		}
		toWrite = append(toWrite, record)
		isNew = append(isNew, !exists)
	}

	if len(existing) == 0 {
		// First sync into an empty mirror: batched insert instead of
		// one statement per record
		if err := u.recordRepo.BulkInsert(table, toWrite); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("bulk insert: %v", err))
		} else {
			result.Added = len(toWrite)
			u.queueEmbeddings(binding, table, toWrite)
		}
	} else {
		for i, record := range toWrite {
			if err := u.recordRepo.Upsert(table, record); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", record.NotionPageID, err))
				continue
			}
			if isNew[i] {
				result.Added++
			} else {
				result.Modified++
			}
			u.queueEmbeddings(binding, table, []*syncdomain.MirrorRecord{record})
		}
	}

	var removed []string
	for pageID := range mirrored {
		if !fetched[pageID] {
			removed = append(removed, pageID)
		}
	}
	if len(removed) > 0 {
		if err := u.recordRepo.DeleteByPageIDs(table, binding.UserID, binding.NotionDatabaseID, removed); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("delete removed: %v", err))
		} else {
			result.Removed = len(removed)
		}
	}

	if err := u.bindingRepo.UpdateLastSync(binding); err != nil {
		log.Printf("[Sync] Failed to update last_sync for %s: %v", binding.ID, err)
	}

	log.Printf("[Sync] %s/%s: %d fetched, %d added, %d modified, %d removed, %d errors",
		binding.UserID, binding.DomainType, result.Synced, result.Added, result.Modified, result.Removed, len(result.Errors))
	return result, nil
}

// SyncPage decodes and upserts a single record, the webhook incremental path
func (u *syncUsecase) SyncPage(ctx context.Context, binding *syncdomain.Binding, page *notion.Page) error {
	record := BuildRecord(binding, page)
	record.Normalized = NormalizeRecord(page.Properties)

	table := binding.DomainType.TableName()
	if err := u.recordRepo.Upsert(table, record); err != nil {
		return err
	}

	u.queueEmbeddings(binding, table, []*syncdomain.MirrorRecord{record})

	if err := u.bindingRepo.UpdateLastSync(binding); err != nil {
		log.Printf("[Sync] Failed to update last_sync for %s: %v", binding.ID, err)
	}
	return nil
}

func (u *syncUsecase) ListRecords(userID string, domainType syncdomain.DomainType, period string) ([]*syncdomain.MirrorRecord, error) {
	return u.recordRepo.ListByUser(domainType.TableName(), userID, period)
}

// fetchAllPages walks the cursor chain sequentially; each page's cursor
// depends on the previous response
func (u *syncUsecase) fetchAllPages(ctx context.Context, token, databaseID string) ([]notion.Page, error) {
	var pages []notion.Page
	cursor := ""
	for {
		resp, err := u.notion.QueryDatabase(ctx, token, databaseID, cursor, 0)
		if err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil {
			break
		}
		cursor = *resp.NextCursor
	}
	return pages, nil
}

func (u *syncUsecase) refreshSchema(ctx context.Context, token string, binding *syncdomain.Binding) {
	db, err := u.notion.RetrieveDatabase(ctx, token, binding.NotionDatabaseID)
	if err != nil {
		log.Printf("[Sync] Schema refresh failed for %s, using cached schema: %v", binding.NotionDatabaseID, err)
		return
	}
	binding.SchemaProperties = schemaFromDatabase(db)
	if name := notion.DatabaseTitle(db); name != "" {
		binding.DatabaseName = name
	}
	if err := u.bindingRepo.UpdateSchema(binding); err != nil {
		log.Printf("[Sync] Failed to persist refreshed schema for %s: %v", binding.ID, err)
	}
}

func (u *syncUsecase) notionToken(userID string) (string, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.New("user not found")
	}
	if user.NotionToken == "" {
		return "", ErrNoNotionToken
	}
	return user.NotionToken, nil
}

func (u *syncUsecase) queueEmbeddings(binding *syncdomain.Binding, table string, records []*syncdomain.MirrorRecord) {
	if u.indexer == nil {
		return
	}
	for _, record := range records {
		u.indexer.QueueRecord(binding.UserID, record.ID, table, recordText(record))
	}
}

// recordText flattens a record into the text fed to the embedding model
func recordText(record *syncdomain.MirrorRecord) string {
	parts := []string{record.Name}
	if record.Status != "" {
		parts = append(parts, record.Status)
	}
	if record.Category != "" {
		parts = append(parts, record.Category)
	}
	for name, value := range record.Properties {
		envelope, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		if s, ok := envelope["value"].(string); ok && s != "" {
			parts = append(parts, name+": "+s)
		}
	}
	return strings.Join(parts, "\n")
}

func schemaFromDatabase(db *notion.Database) syncdomain.SchemaMap {
	schema := syncdomain.SchemaMap{}
	for name, prop := range db.Properties {
		schema[name] = syncdomain.SchemaProperty{ID: prop.ID, Type: prop.Type}
	}
	return schema
}
