package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/common"
	"github.com/ternarybob/lexiq/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db       *BadgerDB
	document interfaces.DocumentStorage
	chunk    interfaces.ChunkStorage
	qa       interfaces.QAStorage
	kv       interfaces.KeyValueStorage
	logger   arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:       db,
		document: NewDocumentStorage(db, logger),
		chunk:    NewChunkStorage(db, logger),
		qa:       NewQAStorage(db, logger),
		kv:       NewKVStorage(db, logger),
		logger:   logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// DocumentStorage returns the Document storage interface
func (m *Manager) DocumentStorage() interfaces.DocumentStorage {
	return m.document
}

// ChunkStorage returns the Chunk storage interface
func (m *Manager) ChunkStorage() interfaces.ChunkStorage {
	return m.chunk
}

// QAStorage returns the QA storage interface
func (m *Manager) QAStorage() interfaces.QAStorage {
	return m.qa
}

// KeyValueStorage returns the KeyValue storage interface
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
