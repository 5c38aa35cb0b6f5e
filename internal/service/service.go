package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aliexpress/importer/internal/catalog"
	"aliexpress/importer/internal/client"
	"aliexpress/importer/internal/domain/task"
	"aliexpress/importer/internal/pictures"
	"aliexpress/importer/internal/queue"
	"aliexpress/importer/internal/repository"
	"aliexpress/importer/internal/state"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Service runs the import pipeline: scrape a product, reconcile its category
// path into the store tree, register its pictures and map its variants, then
// record provenance so the run can be traced back to the source listing.
type Service struct {
	store        repository.CatalogStore
	client       client.AliExpressClient
	fetcher      pictures.Fetcher
	queue        queue.Queue
	stateManager state.StateManager
	ids          catalog.KnownIDs
	groupName    string
	minIdleTime  time.Duration
}

func NewService(
	store repository.CatalogStore,
	client client.AliExpressClient,
	fetcher pictures.Fetcher,
	queue queue.Queue,
	stateManager state.StateManager,
	ids catalog.KnownIDs,
	groupName string,
	minIdleTime int,
) *Service {
	return &Service{
		store:        store,
		client:       client,
		fetcher:      fetcher,
		queue:        queue,
		stateManager: stateManager,
		ids:          ids,
		groupName:    groupName,
		minIdleTime:  time.Duration(minIdleTime) * time.Second,
	}
}

func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	s.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamPrefix+"ProductImportTask", "product")
	s.runWorkersForStream(ctx, &wg, numWorkers, queue.StreamPrefix+"CategoryImportTask", "category")

	wg.Wait()
	return nil
}

func (s *Service) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer for this stream
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, time.Now().UnixNano())
				claimedMessages, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				if len(claimedMessages) > 0 {
					log.Infof("🔄 Auto-claimed %d messages from %s stream", len(claimedMessages), workerType)
					for _, msg := range claimedMessages {
						if err := s.processMessage(ctx, &msg); err != nil {
							log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}
	}()

	// Regular workers for this stream
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
					if err != nil {
						log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
						continue
					}

					if msg != nil {
						if err := s.processMessage(ctx, msg); err != nil {
							log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

// processMessage dispatches one stream message to the matching import. A task
// whose import fails is logged and acked anyway: imports are not transactional
// and replaying one would duplicate the catalog writes that did land.
func (s *Service) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	streamName := queue.StreamPrefix + taskType

	switch taskType {
	case "ProductImportTask":
		importTask, err := task.UnmarshalTask[*task.ProductImportTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal product import task data: %w", err)
		}

		if _, err := s.ImportProduct(ctx, importTask.ProductID, importTask.CategoryIDs, importTask.Policy); err != nil {
			log.Errorf("❌ Failed to import product %d: %v", importTask.ProductID, err)
		}

	case "CategoryImportTask":
		importTask, err := task.UnmarshalTask[*task.CategoryImportTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal category import task data: %w", err)
		}

		if _, err := s.ImportByCategory(ctx, importTask.CategoryID, importTask.CategoryName, importTask.Policy); err != nil {
			log.Errorf("❌ Failed to import category %s: %v", importTask.CategoryID, err)
		}

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := s.queue.AckTask(ctx, streamName, s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}
