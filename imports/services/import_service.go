package services

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactStore is everything an import needs from contact storage.
type ContactStore interface {
	EmailLookup
	ContactInserter
}

// UploadRemover deletes a saved upload.
type UploadRemover interface {
	Remove(path string) error
}

// ImportListener is told about every finished import.
type ImportListener interface {
	ContactsImported(ctx context.Context, organizationID uuid.UUID, report *ImportReport)
}

// ImportRequest describes one upload. RawMapping is the optional JSON form
// field, passed through unparsed so the service can clean up on bad input.
type ImportRequest struct {
	UploadPath     string
	Filename       string
	RawMapping     string
	UserID         uuid.UUID
	OrganizationID uuid.UUID
}

type ImportService struct {
	crossStore *CrossStoreDeduplicator
	inserter   *BulkInserter
	uploads    UploadRemover
	listeners  []ImportListener
	logger     *zap.Logger
}

func NewImportService(store ContactStore, uploads UploadRemover, logger *zap.Logger, listeners ...ImportListener) *ImportService {
	return &ImportService{
		crossStore: NewCrossStoreDeduplicator(store),
		inserter:   NewBulkInserter(store, logger),
		uploads:    uploads,
		listeners:  listeners,
		logger:     logger,
	}
}

// importJob accumulates the streamed stages of a single import.
type importJob struct {
	mapper   *FieldMapper
	tracker  *EmailTracker
	userID   uuid.UUID
	orgID    uuid.UUID
	total    int
	valid    []CandidateContact
	rejected []RowError
}

func newImportJob(req ImportRequest, mapping map[string]string) *importJob {
	return &importJob{
		mapper:  NewFieldMapper(mapping),
		tracker: NewEmailTracker(req.Filename),
		userID:  req.UserID,
		orgID:   req.OrganizationID,
	}
}

// consume makes one forward pass over the file. Row problems are recorded;
// a read failure aborts the pass.
func (j *importJob) consume(source RowSource) error {
	for {
		row, err := source.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		j.total++

		candidate := j.mapper.Map(row, j.userID, j.orgID)
		if reason := ValidateCandidate(candidate); reason != "" {
			j.rejected = append(j.rejected, RowError{Row: candidate.Row(), Reason: reason})
			continue
		}
		if rowErr, ok := j.tracker.Admit(candidate); !ok {
			j.rejected = append(j.rejected, rowErr)
			continue
		}
		j.valid = append(j.valid, candidate)
	}
}

// Import runs the whole pipeline for one uploaded file. The upload is removed
// before Import returns, whatever the outcome.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*ImportReport, error) {
	defer s.release(req.UploadPath)

	if req.UploadPath == "" {
		return nil, ErrMissingFile
	}

	mapping, err := ParseMapping(req.RawMapping)
	if err != nil {
		return nil, err
	}

	source, err := OpenRowSource(req.UploadPath, req.Filename)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	job := newImportJob(req, mapping)
	if err := job.consume(source); err != nil {
		s.logger.Error("Import aborted while reading file",
			zap.String("filename", req.Filename),
			zap.Int("rowsRead", job.total),
			zap.Error(err))
		return nil, err
	}

	fresh, existing, err := s.crossStore.Partition(ctx, req.OrganizationID, job.valid)
	if err != nil {
		return nil, err
	}

	result, err := s.inserter.Insert(ctx, fresh)
	if err != nil {
		return nil, err
	}

	report := BuildReport(job.total, job.rejected, existing, result)

	s.logger.Info("Contact import finished",
		zap.String("organizationID", req.OrganizationID.String()),
		zap.String("filename", req.Filename),
		zap.Int("total", report.Summary.Total),
		zap.Int("inserted", report.Summary.Inserted),
		zap.Int("failed", report.Summary.Failed))

	for _, listener := range s.listeners {
		listener.ContactsImported(ctx, req.OrganizationID, report)
	}
	return report, nil
}

func (s *ImportService) release(path string) {
	if path == "" {
		return
	}
	if err := s.uploads.Remove(path); err != nil {
		s.logger.Warn("Failed to remove import upload", zap.String("path", path), zap.Error(err))
	}
}
