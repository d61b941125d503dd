package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"sidekick-ai-be/internal/dto"
	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/repository/specification"
	"sidekick-ai-be/internal/repository/unitofwork"
	"sidekick-ai-be/pkg/embedding"
	"sidekick-ai-be/pkg/events"
	"sidekick-ai-be/pkg/nats"
	"sidekick-ai-be/pkg/utils"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the document indexing topic: chunk, embed, replace
// the document's embedding rows, mark it indexed.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *nats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *nats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IndexDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal index message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Indexing document %s", payload.DocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to load document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if document == nil {
		log.Printf("[WARN] Document %s no longer exists, skipping", payload.DocumentId)
		msg.Ack()
		return
	}

	// Chunking follows the owning workspace's config; a missing workspace
	// falls back to defaults.
	chunkCfg := entity.DefaultWorkspaceConfig()
	workspace, err := uow.WorkspaceRepository().FindOne(ctx, specification.ByID{ID: document.WorkspaceId})
	if err != nil {
		log.Printf("[ERROR] Failed to load workspace %s: %v", document.WorkspaceId, err)
		msg.Nack()
		return
	}
	if workspace != nil {
		chunkCfg = workspace.Config
	}

	chunks := utils.SplitText(document.Content, chunkCfg.ChunkSize, chunkCfg.ChunkOverlap)
	log.Printf("[INFO] Document %s split into %d chunks", document.Id, len(chunks))

	newEmbeddings := make([]*entity.DocumentEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, embedding.TaskTypeDocument)
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of document %s: %v", i, document.Id, err)
			msg.Nack()
			return
		}
		newEmbeddings = append(newEmbeddings, &entity.DocumentEmbedding{
			Id:         uuid.New(),
			DocumentId: document.Id,
			ChunkIndex: i,
			ChunkText:  chunk,
			Embedding:  res.Embedding.Values,
			CreatedAt:  time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}
	if len(newEmbeddings) > 0 {
		if err := uow.DocumentEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create embeddings: %v", err)
			msg.Nack()
			return
		}
	}

	document.Indexed = true
	now := time.Now()
	document.UpdatedAt = &now
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		log.Printf("[ERROR] Failed to mark document indexed: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit indexing transaction: %v", err)
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		err := cs.eventPublisher.Publish(ctx, events.NewEvent(events.TypeDocumentIndexed, map[string]interface{}{
			"document_id":  document.Id.String(),
			"workspace_id": document.WorkspaceId.String(),
			"chunks":       len(newEmbeddings),
		}))
		if err != nil {
			log.Printf("[WARN] Failed to publish document.indexed event: %v", err)
		}
	}

	log.Printf("[INFO] Document %s indexed with %d chunks", document.Id, len(newEmbeddings))
	msg.Ack()
}
