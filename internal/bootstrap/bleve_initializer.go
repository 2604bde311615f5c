package bootstrap

import (
	"context"

	"contacts-backend/db/models"

	"go.uber.org/zap"
)

const reindexBatchSize = 500

type contactWalker interface {
	EachContactBatch(ctx context.Context, size int, fn func([]models.Contact) error) error
}

type contactIndexer interface {
	IndexContacts(contacts []models.Contact) error
}

// IndexBleveData rebuilds the contact search index from the database. Used
// after the index directory was lost or its mapping changed.
func IndexBleveData(ctx context.Context, contacts contactWalker, index contactIndexer, logger *zap.Logger) (int, error) {
	indexed := 0
	err := contacts.EachContactBatch(ctx, reindexBatchSize, func(batch []models.Contact) error {
		if err := index.IndexContacts(batch); err != nil {
			return err
		}
		indexed += len(batch)
		return nil
	})
	if err != nil {
		logger.Error("Contact reindex stopped", zap.Int("indexed", indexed), zap.Error(err))
		return indexed, err
	}

	logger.Info("Contact reindex finished", zap.Int("indexed", indexed))
	return indexed, nil
}
