package usecase

import (
	"context"

	authdomain "lifedash-backend/internal/auth/domain"
	syncdomain "lifedash-backend/internal/sync/domain"
	"lifedash-backend/internal/sync/repository"
	"lifedash-backend/pkg/notion"
)

// MockNotionClient implements NotionClient with function fields
type MockNotionClient struct {
	RetrieveDatabaseFunc func(ctx context.Context, token, databaseID string) (*notion.Database, error)
	QueryDatabaseFunc    func(ctx context.Context, token, databaseID, cursor string, pageSize int) (*notion.QueryResponse, error)
	RetrievePageFunc     func(ctx context.Context, token, pageID string) (*notion.Page, error)
}

func (m *MockNotionClient) RetrieveDatabase(ctx context.Context, token, databaseID string) (*notion.Database, error) {
	return m.RetrieveDatabaseFunc(ctx, token, databaseID)
}

func (m *MockNotionClient) QueryDatabase(ctx context.Context, token, databaseID, cursor string, pageSize int) (*notion.QueryResponse, error) {
	return m.QueryDatabaseFunc(ctx, token, databaseID, cursor, pageSize)
}

func (m *MockNotionClient) RetrievePage(ctx context.Context, token, pageID string) (*notion.Page, error) {
	return m.RetrievePageFunc(ctx, token, pageID)
}

// MockBindingRepository implements repository.BindingRepository
type MockBindingRepository struct {
	UpsertFunc           func(binding *syncdomain.Binding) error
	FindByUserDomainFunc func(userID string, domainType syncdomain.DomainType, period string) (*syncdomain.Binding, error)
	FindByDatabaseIDFunc func(databaseID string) ([]*syncdomain.Binding, error)
	ListByUserFunc       func(userID string) ([]*syncdomain.Binding, error)
	ListScheduledFunc    func() ([]*syncdomain.Binding, error)
	UpdateSchemaFunc     func(binding *syncdomain.Binding) error
	UpdateLastSyncFunc   func(binding *syncdomain.Binding) error
	RemoveFunc           func(userID, databaseID string, domainType syncdomain.DomainType, period string) error
}

func (m *MockBindingRepository) Upsert(b *syncdomain.Binding) error {
	if m.UpsertFunc == nil {
		return nil
	}
	return m.UpsertFunc(b)
}

func (m *MockBindingRepository) FindByUserDomain(userID string, d syncdomain.DomainType, period string) (*syncdomain.Binding, error) {
	return m.FindByUserDomainFunc(userID, d, period)
}

func (m *MockBindingRepository) FindByDatabaseID(databaseID string) ([]*syncdomain.Binding, error) {
	return m.FindByDatabaseIDFunc(databaseID)
}

func (m *MockBindingRepository) ListByUser(userID string) ([]*syncdomain.Binding, error) {
	if m.ListByUserFunc == nil {
		return nil, nil
	}
	return m.ListByUserFunc(userID)
}

func (m *MockBindingRepository) ListScheduled() ([]*syncdomain.Binding, error) {
	return m.ListScheduledFunc()
}

func (m *MockBindingRepository) UpdateSchema(b *syncdomain.Binding) error {
	if m.UpdateSchemaFunc == nil {
		return nil
	}
	return m.UpdateSchemaFunc(b)
}

func (m *MockBindingRepository) UpdateLastSync(b *syncdomain.Binding) error {
	if m.UpdateLastSyncFunc == nil {
		return nil
	}
	return m.UpdateLastSyncFunc(b)
}

func (m *MockBindingRepository) Remove(userID, databaseID string, d syncdomain.DomainType, period string) error {
	if m.RemoveFunc == nil {
		return nil
	}
	return m.RemoveFunc(userID, databaseID, d, period)
}

// MockRecordRepository implements repository.RecordRepository
type MockRecordRepository struct {
	UpsertFunc          func(table string, record *syncdomain.MirrorRecord) error
	BulkInsertFunc      func(table string, records []*syncdomain.MirrorRecord) error
	ListForSyncFunc     func(table, userID, databaseID string) ([]*syncdomain.MirrorRecord, error)
	FindByIDsFunc       func(table, userID string, ids []string) ([]*syncdomain.MirrorRecord, error)
	ListByUserFunc      func(table, userID, period string) ([]*syncdomain.MirrorRecord, error)
	DeleteByPageIDsFunc func(table, userID, databaseID string, pageIDs []string) error
	DeleteByPageIDFunc  func(table, userID, pageID string) error
	LookupPageFunc      func(pageID string) ([]repository.PageLocation, error)
}

func (m *MockRecordRepository) Upsert(table string, record *syncdomain.MirrorRecord) error {
	if m.UpsertFunc == nil {
		return nil
	}
	return m.UpsertFunc(table, record)
}

func (m *MockRecordRepository) BulkInsert(table string, records []*syncdomain.MirrorRecord) error {
	if m.BulkInsertFunc == nil {
		return nil
	}
	return m.BulkInsertFunc(table, records)
}

func (m *MockRecordRepository) ListForSync(table, userID, databaseID string) ([]*syncdomain.MirrorRecord, error) {
	return m.ListForSyncFunc(table, userID, databaseID)
}

func (m *MockRecordRepository) FindByIDs(table, userID string, ids []string) ([]*syncdomain.MirrorRecord, error) {
	return m.FindByIDsFunc(table, userID, ids)
}

func (m *MockRecordRepository) ListByUser(table, userID, period string) ([]*syncdomain.MirrorRecord, error) {
	return m.ListByUserFunc(table, userID, period)
}

func (m *MockRecordRepository) DeleteByPageIDs(table, userID, databaseID string, pageIDs []string) error {
	if m.DeleteByPageIDsFunc == nil {
		return nil
	}
	return m.DeleteByPageIDsFunc(table, userID, databaseID, pageIDs)
}

func (m *MockRecordRepository) DeleteByPageID(table, userID, pageID string) error {
	if m.DeleteByPageIDFunc == nil {
		return nil
	}
	return m.DeleteByPageIDFunc(table, userID, pageID)
}

func (m *MockRecordRepository) LookupPage(pageID string) ([]repository.PageLocation, error) {
	return m.LookupPageFunc(pageID)
}

// MockUserRepository implements authrepo.UserRepository for the token lookup
type MockUserRepository struct {
	FindByIDFunc func(id string) (*authdomain.User, error)
}

func (m *MockUserRepository) Create(user *authdomain.User) error { return nil }

func (m *MockUserRepository) FindByEmail(email string) (*authdomain.User, error) { return nil, nil }

func (m *MockUserRepository) FindByID(id string) (*authdomain.User, error) {
	return m.FindByIDFunc(id)
}

func (m *MockUserRepository) Update(user *authdomain.User) error { return nil }

func (m *MockUserRepository) SaveRefreshToken(token *authdomain.RefreshToken) error { return nil }

func (m *MockUserRepository) FindRefreshToken(token string) (*authdomain.RefreshToken, error) {
	return nil, nil
}

func (m *MockUserRepository) DeleteRefreshToken(token string) error { return nil }
