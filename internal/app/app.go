package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/common"
	"github.com/ternarybob/lexiq/internal/handlers"
	"github.com/ternarybob/lexiq/internal/interfaces"
	"github.com/ternarybob/lexiq/internal/services/analysis"
	"github.com/ternarybob/lexiq/internal/services/classifier"
	"github.com/ternarybob/lexiq/internal/services/corpus"
	"github.com/ternarybob/lexiq/internal/services/documents"
	"github.com/ternarybob/lexiq/internal/services/knowledge"
	"github.com/ternarybob/lexiq/internal/services/llm"
	"github.com/ternarybob/lexiq/internal/services/ocr"
	"github.com/ternarybob/lexiq/internal/services/pdf"
	"github.com/ternarybob/lexiq/internal/services/qa"
	"github.com/ternarybob/lexiq/internal/storage"
	"github.com/ternarybob/lexiq/internal/storage/blob"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager
	BlobStore      interfaces.BlobStorage
	ExportStore    interfaces.BlobStorage

	// LLM services (chat + embeddings)
	LLMServices *llm.Services

	// Domain services
	OCRService        interfaces.OCRService
	ClassifierService interfaces.ClassifierService
	AnalysisService   interfaces.AnalysisService
	KnowledgeService  interfaces.KnowledgeService
	CorpusService     interfaces.CorpusService
	QAService         interfaces.QAService
	DocumentService   interfaces.DocumentService

	// HTTP handlers
	APIHandler        *handlers.APIHandler
	UploadHandler     *handlers.UploadHandler
	DocumentsHandler  *handlers.DocumentsHandler
	ProcessingHandler *handlers.ProcessingHandler
	KnowledgeHandler  *handlers.KnowledgeHandler
	QAHandler         *handlers.QAHandler
	SettingsHandler   *handlers.SettingsHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	blobStore, err := blob.NewFilesystemStore(cfg.Storage.Filesystem.Uploads, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob storage: %w", err)
	}
	app.BlobStore = blobStore

	exportStore, err := blob.NewFilesystemStore(cfg.Storage.Filesystem.Exports, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize export storage: %w", err)
	}
	app.ExportStore = exportStore

	llmServices, err := llm.NewLLMServices(cfg, storageManager.KeyValueStorage(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM services: %w", err)
	}
	app.LLMServices = llmServices

	ocrService, err := ocr.NewService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OCR service: %w", err)
	}
	app.OCRService = ocrService

	app.ClassifierService = classifier.NewService(llmServices.Chat, logger)

	pdfRenderer := pdf.NewService(logger)
	app.AnalysisService = analysis.NewService(llmServices.Chat, pdfRenderer, logger)

	app.KnowledgeService = knowledge.NewService(storageManager, llmServices.Embed, logger)

	corpusService, err := corpus.NewService(&cfg.Corpus, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize corpus service: %w", err)
	}
	app.CorpusService = corpusService

	app.QAService = qa.NewService(llmServices.Chat, app.KnowledgeService, corpusService, storageManager, &cfg.QA, logger)

	app.DocumentService = documents.NewService(storageManager, blobStore, ocrService, app.ClassifierService, app.AnalysisService, &cfg.Upload, logger)

	app.APIHandler = handlers.NewAPIHandler(llmServices.Chat, llmServices.Embed, logger)
	app.UploadHandler = handlers.NewUploadHandler(app.DocumentService, cfg.Upload.MaxSizeBytes, logger)
	app.DocumentsHandler = handlers.NewDocumentsHandler(app.DocumentService, logger)
	app.ProcessingHandler = handlers.NewProcessingHandler(app.DocumentService, app.AnalysisService, exportStore, logger)
	app.KnowledgeHandler = handlers.NewKnowledgeHandler(app.DocumentService, app.KnowledgeService, corpusService, logger)
	app.QAHandler = handlers.NewQAHandler(app.DocumentService, app.QAService, logger)
	app.SettingsHandler = handlers.NewSettingsHandler(storageManager.KeyValueStorage(), logger)

	logger.Info().
		Str("llm_provider", cfg.LLM.DefaultProvider).
		Str("badger_path", cfg.Storage.Badger.Path).
		Msg("Application initialized")

	return app, nil
}

// Close releases application resources in reverse initialization order.
func (a *App) Close() error {
	var firstErr error

	if a.LLMServices != nil {
		if err := a.LLMServices.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM services")
			firstErr = err
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
