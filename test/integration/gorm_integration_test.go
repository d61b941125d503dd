package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/repository/specification"
	"sidekick-ai-be/internal/repository/unitofwork"
	"sidekick-ai-be/pkg/database"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	require.NoError(t, database.Migrate(gormDB))

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.WorkspaceRepository())
	assert.NotNil(t, uow.ConversationTurnRepository())
	assert.NotNil(t, uow.DocumentRepository())
	assert.NotNil(t, uow.DocumentEmbeddingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	ctx := context.Background()
	userId := uuid.New()

	t.Run("Workspace round trip with config", func(t *testing.T) {
		ws := &entity.Workspace{
			Id:        uuid.New(),
			UserId:    userId,
			Name:      "integration-" + uuid.New().String(),
			Config:    entity.DefaultWorkspaceConfig(),
			CreatedAt: time.Now(),
		}
		ws.Config.RetrievalTopK = 7

		require.NoError(t, uow.WorkspaceRepository().Create(ctx, ws))

		found, err := uow.WorkspaceRepository().FindOne(ctx,
			specification.ByID{ID: ws.Id},
			specification.UserOwnedBy{UserID: userId},
		)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, 7, found.Config.RetrievalTopK)
		assert.True(t, found.Config.RetrievalEnabled)
	})

	t.Run("Conversation turn sequencing per key", func(t *testing.T) {
		wsId := uuid.New()

		seq, err := uow.ConversationTurnRepository().NextSeq(ctx, userId, &wsId)
		require.NoError(t, err)

		turns := []*entity.ConversationTurn{
			{Id: uuid.New(), UserId: userId, WorkspaceId: &wsId, Role: "user", Content: "hello", Seq: seq, CreatedAt: time.Now()},
			{Id: uuid.New(), UserId: userId, WorkspaceId: &wsId, Role: "assistant", Content: "hi", Seq: seq + 1, CreatedAt: time.Now()},
		}
		require.NoError(t, uow.ConversationTurnRepository().CreateBulk(ctx, turns))

		next, err := uow.ConversationTurnRepository().NextSeq(ctx, userId, &wsId)
		require.NoError(t, err)
		assert.Equal(t, seq+2, next)

		// The no-workspace history of the same user is untouched.
		loaded, err := uow.ConversationTurnRepository().FindAll(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByWorkspaceID{WorkspaceID: nil},
		)
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("Transaction rollback leaves no rows", func(t *testing.T) {
		txUow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, txUow.Begin(ctx))

		wsId := uuid.New()
		turn := &entity.ConversationTurn{
			Id: uuid.New(), UserId: userId, WorkspaceId: &wsId,
			Role: "user", Content: "rolled back", Seq: 0, CreatedAt: time.Now(),
		}
		require.NoError(t, txUow.ConversationTurnRepository().Create(ctx, turn))
		require.NoError(t, txUow.Rollback())

		count, err := uow.ConversationTurnRepository().Count(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByWorkspaceID{WorkspaceID: &wsId},
		)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
