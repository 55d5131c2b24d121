package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sync"

	"lifedash-backend/internal/search/repository"
	"lifedash-backend/pkg/chroma"
)

// IndexJob is one record queued for embedding
type IndexJob struct {
	UserID      string
	RecordID    string
	DomainTable string
	Text        string
}

// IndexerService embeds mirrored records in the background. Sync paths queue
// jobs and never wait on the embedding API.
type IndexerService struct {
	historyRepo  repository.IndexHistoryRepository
	chromaClient *chroma.ChromaClient
	jobQueue     chan IndexJob
	workerWg     sync.WaitGroup
	workerCount  int
	started      bool
	mu           sync.Mutex
}

// NewIndexerService creates a new indexer service
func NewIndexerService(historyRepo repository.IndexHistoryRepository, chromaClient *chroma.ChromaClient, workerCount int) *IndexerService {
	if workerCount <= 0 {
		workerCount = 3
	}

	return &IndexerService{
		historyRepo:  historyRepo,
		chromaClient: chromaClient,
		jobQueue:     make(chan IndexJob, 1000),
		workerCount:  workerCount,
	}
}

// Start starts the indexing workers
func (s *IndexerService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}

	for i := 0; i < s.workerCount; i++ {
		s.workerWg.Add(1)
		go s.worker(i)
	}
	s.started = true
	log.Printf("[Indexer] Started %d workers", s.workerCount)
}

// Stop stops all workers gracefully
func (s *IndexerService) Stop() {
	close(s.jobQueue)
	s.workerWg.Wait()
	log.Println("[Indexer] All workers stopped")
}

// QueueRecord enqueues a record for embedding. Drops the job when the queue
// is full; the next sync of the record queues it again.
func (s *IndexerService) QueueRecord(userID, recordID, domainTable, text string) {
	select {
	case s.jobQueue <- IndexJob{UserID: userID, RecordID: recordID, DomainTable: domainTable, Text: text}:
	default:
		log.Printf("[Indexer] Queue full, dropping record %s", recordID)
	}
}

// worker processes index jobs from the queue
func (s *IndexerService) worker(id int) {
	defer s.workerWg.Done()

	for job := range s.jobQueue {
		s.processJob(job)
	}

	log.Printf("[Indexer] Worker %d stopped", id)
}

func (s *IndexerService) processJob(job IndexJob) {
	if s.chromaClient == nil {
		return
	}

	textHash := hashText(job.Text)

	current, err := s.historyRepo.IsCurrent(job.UserID, job.RecordID, textHash)
	if err != nil {
		log.Printf("[Indexer] Error checking index history: %v", err)
		return
	}
	if current {
		return // text unchanged, embedding still valid
	}

	ctx := context.Background()
	if err := s.chromaClient.UpsertRecordEmbedding(ctx, job.RecordID, job.UserID, job.DomainTable, job.Text); err != nil {
		log.Printf("[Indexer] Error embedding record %s: %v", job.RecordID, err)
		return
	}

	if err := s.historyRepo.MarkIndexed(job.UserID, job.RecordID, job.DomainTable, textHash); err != nil {
		log.Printf("[Indexer] Error marking record %s indexed: %v", job.RecordID, err)
	}
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
