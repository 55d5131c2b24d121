package usecase

import (
	"context"
	"log"

	"lifedash-backend/internal/search/repository"
	syncdomain "lifedash-backend/internal/sync/domain"
	syncrepo "lifedash-backend/internal/sync/repository"
	"lifedash-backend/pkg/chroma"
)

const defaultSearchLimit = 10

// SearchHit is one semantic search result with its mirrored record
type SearchHit struct {
	Record   *syncdomain.MirrorRecord `json:"record"`
	Domain   string                   `json:"domain"`
	Distance float64                  `json:"distance"`
}

// SearchUsecase answers semantic queries over the user's mirrored records
type SearchUsecase interface {
	SemanticSearch(ctx context.Context, userID, query string, limit int) ([]SearchHit, error)
}

// searchUsecase implements SearchUsecase interface
type searchUsecase struct {
	historyRepo  repository.IndexHistoryRepository
	recordRepo   syncrepo.RecordRepository
	chromaClient *chroma.ChromaClient
}

// NewSearchUsecase creates a new instance of searchUsecase
func NewSearchUsecase(historyRepo repository.IndexHistoryRepository, recordRepo syncrepo.RecordRepository, chromaClient *chroma.ChromaClient) SearchUsecase {
	return &searchUsecase{
		historyRepo:  historyRepo,
		recordRepo:   recordRepo,
		chromaClient: chromaClient,
	}
}

// SemanticSearch queries the vector store, then hydrates the hits from the
// mirror tables. A hit whose record was deleted since indexing is dropped.
func (u *searchUsecase) SemanticSearch(ctx context.Context, userID, query string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	recordIDs, distances, err := u.chromaClient.SemanticSearch(ctx, userID, query, limit)
	if err != nil {
		return nil, err
	}
	if len(recordIDs) == 0 {
		return []SearchHit{}, nil
	}

	// The vector store only knows ids; the index history maps them back to
	// their domain tables
	histories, err := u.historyRepo.FindByRecordIDs(userID, recordIDs)
	if err != nil {
		return nil, err
	}
	tableByRecord := make(map[string]string, len(histories))
	idsByTable := make(map[string][]string)
	for _, h := range histories {
		tableByRecord[h.RecordID] = h.DomainTable
		idsByTable[h.DomainTable] = append(idsByTable[h.DomainTable], h.RecordID)
	}

	recordByID := make(map[string]*syncdomain.MirrorRecord)
	for table, ids := range idsByTable {
		records, err := u.recordRepo.FindByIDs(table, userID, ids)
		if err != nil {
			log.Printf("[Search] Error loading records from %s: %v", table, err)
			continue
		}
		for _, record := range records {
			recordByID[record.ID] = record
		}
	}

	hits := make([]SearchHit, 0, len(recordIDs))
	for i, id := range recordIDs {
		record, ok := recordByID[id]
		if !ok {
			continue
		}
		hit := SearchHit{Record: record, Domain: tableByRecord[id]}
		if i < len(distances) {
			hit.Distance = distances[i]
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
