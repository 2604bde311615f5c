package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

type IndexingServiceInterface interface {
	RegisterMapping(indexName string, indexMapping mapping.IndexMapping)
	IndexDocument(indexName, id string, document interface{}) error
	BulkIndexDocuments(indexName string, documents map[string]interface{}) error
	DeleteDocument(indexName, id string) error
	SearchIndex(indexName string, q query.Query, size, from int) (*bleve.SearchResult, error)
	Close() error
}

// IndexingService owns every open bleve index of the process. Indexes are
// opened lazily and created on first use with their registered mapping.
type IndexingService struct {
	mu       sync.Mutex
	indexes  map[string]bleve.Index
	mappings map[string]mapping.IndexMapping
	logger   *zap.Logger
	basePath string
}

func NewIndexingService(logger *zap.Logger, basePath string) *IndexingService {
	return &IndexingService{
		indexes:  make(map[string]bleve.Index),
		mappings: make(map[string]mapping.IndexMapping),
		logger:   logger,
		basePath: basePath,
	}
}

// RegisterMapping sets the mapping used when the index has to be created.
// It has no effect on an index that already exists on disk.
func (s *IndexingService) RegisterMapping(indexName string, indexMapping mapping.IndexMapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[indexName] = indexMapping
}

func (s *IndexingService) getOrCreateIndex(indexName string) (bleve.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.indexes[indexName]; ok {
		return idx, nil
	}

	fullPath := filepath.Join(s.basePath, indexName+".bleve")

	idx, err := bleve.Open(fullPath)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		indexMapping, ok := s.mappings[indexName]
		if !ok {
			indexMapping = bleve.NewIndexMapping()
		}
		idx, err = bleve.New(fullPath, indexMapping)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", fullPath, err)
	}

	s.indexes[indexName] = idx
	return idx, nil
}

// SearchIndex performs a search and requests stored fields to be included
func (s *IndexingService) SearchIndex(indexName string, q query.Query, size, from int) (*bleve.SearchResult, error) {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return nil, err
	}

	searchRequest := bleve.NewSearchRequestOptions(q, size, from, false)
	searchRequest.Fields = []string{"*"}

	searchResult, err := idx.Search(searchRequest)
	if err != nil {
		s.logger.Error("Search failed", zap.String("index", indexName), zap.Error(err))
		return nil, err
	}

	return searchResult, nil
}

func (s *IndexingService) IndexDocument(indexName, id string, document interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return err
	}

	if err := idx.Index(id, document); err != nil {
		s.logger.Error("Failed to index document", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *IndexingService) BulkIndexDocuments(indexName string, documents map[string]interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return err
	}

	batch := idx.NewBatch()
	for id, doc := range documents {
		if err := batch.Index(id, doc); err != nil {
			s.logger.Error("Failed to add doc to batch", zap.String("id", id), zap.Error(err))
			return err
		}
	}

	if err := idx.Batch(batch); err != nil {
		s.logger.Error("Failed to execute batch", zap.Error(err))
		return err
	}

	s.logger.Info("Successfully bulk indexed documents",
		zap.String("index", indexName),
		zap.Int("count", len(documents)))
	return nil
}

func (s *IndexingService) DeleteDocument(indexName, id string) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return err
	}

	if err := idx.Delete(id); err != nil {
		s.logger.Error("Failed to delete document", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// Close closes every open index.
func (s *IndexingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for name, idx := range s.indexes {
		if err := idx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close index %s: %w", name, err))
		}
		delete(s.indexes, name)
	}
	return errors.Join(errs...)
}
