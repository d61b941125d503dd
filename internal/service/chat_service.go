package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"sidekick-ai-be/internal/config"
	"sidekick-ai-be/internal/dto"
	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/repository/memory"
	"sidekick-ai-be/internal/repository/specification"
	"sidekick-ai-be/internal/repository/unitofwork"
	"sidekick-ai-be/pkg/agent/dispatch"
	"sidekick-ai-be/pkg/agent/loop"
	"sidekick-ai-be/pkg/agent/prompt"
	"sidekick-ai-be/pkg/agent/registry"
	"sidekick-ai-be/pkg/agent/tool"
	"sidekick-ai-be/pkg/agent/tools"
	"sidekick-ai-be/pkg/events"
	"sidekick-ai-be/pkg/nats"
)

// ErrWorkspaceNotFound is returned when the requested workspace does not
// exist or belongs to another user. The two cases are indistinguishable on
// purpose.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// IChatService runs agent exchanges and serves conversation history.
type IChatService interface {
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, workspaceId *uuid.UUID) ([]*dto.TurnDTO, error)
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	registryBuild  *registry.Builder
	searcher       tools.PassageSearcher
	agentLoop      *loop.Loop
	guard          *memory.ExchangeGuard
	eventPublisher *nats.Publisher
	agentCfg       config.AgentConfig
	logger         *log.Logger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	registryBuilder *registry.Builder,
	searcher tools.PassageSearcher,
	step loop.DecisionStep,
	turnStore loop.Store,
	guard *memory.ExchangeGuard,
	eventPublisher *nats.Publisher,
	agentCfg config.AgentConfig,
	logger *log.Logger,
) IChatService {
	dispatcher := dispatch.NewDispatcher(agentCfg.ToolTimeout, agentCfg.MaxToolCallsPerTurn, agentCfg.ConcurrentDispatch, logger)
	agentLoop := loop.NewLoop(step, dispatcher, turnStore, loop.Config{
		MaxIterations:       agentCfg.MaxIterations,
		MaxToolCallsPerChat: agentCfg.MaxToolCallsPerChat,
	}, logger)

	return &chatService{
		uowFactory:     uowFactory,
		registryBuild:  registryBuilder,
		searcher:       searcher,
		agentLoop:      agentLoop,
		guard:          guard,
		eventPublisher: eventPublisher,
		agentCfg:       agentCfg,
		logger:         logger,
	}
}

// SendChat runs one full exchange. Exchanges on the same (user, workspace)
// pair are serialized by the guard; different pairs run concurrently.
func (c *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	release := c.guard.Acquire(userId, request.WorkspaceId)
	defer release()

	// Workspace config is read once here; config changes made mid-exchange
	// apply from the next exchange on.
	var workspace *entity.Workspace
	if request.WorkspaceId != nil {
		uow := c.uowFactory.NewUnitOfWork(ctx)
		found, err := uow.WorkspaceRepository().FindOne(ctx,
			specification.ByID{ID: *request.WorkspaceId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, ErrWorkspaceNotFound
		}
		workspace = found
	}

	view, system := c.buildExchange(userId, workspace)

	key := loop.Key{UserID: userId, WorkspaceID: request.WorkspaceId}
	outcome, err := c.agentLoop.Respond(ctx, key, view, system, request.Message)
	if err != nil && !errors.Is(err, loop.ErrPersistFailed) {
		return nil, err
	}

	response := &dto.SendChatResponse{
		WorkspaceId:  request.WorkspaceId,
		Answer:       outcome.Answer,
		LimitReached: outcome.LimitHit,
		Iterations:   outcome.Iterations,
		Turns:        turnsToDTOs(outcome.Turns),
	}
	if err != nil {
		// The answer was computed; the user gets it even though the
		// exchange could not be recorded.
		c.logger.Printf("persisting exchange for user %s failed: %v", userId, err)
		response.PersistenceError = "the exchange could not be saved; this conversation may not remember it"
	}

	c.publishExchangeEvent(ctx, userId, request.WorkspaceId, outcome)
	return response, nil
}

// buildExchange assembles the tool view and system prompt for one exchange.
// Retrieval only exists in the view when a workspace is selected and has
// retrieval enabled, so no-workspace exchanges cannot retrieve anything.
func (c *chatService) buildExchange(userId uuid.UUID, workspace *entity.Workspace) (*registry.View, string) {
	opts := registry.ViewOptions{}
	workspaceName := ""
	retrievalEnabled := false

	if workspace != nil {
		workspaceName = workspace.Name
		opts.EnabledTools = workspace.Config.EnabledTools
		if workspace.Config.RetrievalEnabled {
			retrievalEnabled = true
			opts.Retrieval = tools.NewRetrievalTool(c.searcher, userId, workspace.Id, workspace.Config.RetrievalTopK)
		}
	}

	view := c.registryBuild.Build(opts)
	system := prompt.BuildSystem(prompt.Options{
		WorkspaceName:    workspaceName,
		ToolNames:        view.Names(),
		RetrievalEnabled: retrievalEnabled,
	})
	return view, system
}

func (c *chatService) GetHistory(ctx context.Context, userId uuid.UUID, workspaceId *uuid.UUID) ([]*dto.TurnDTO, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	turns, err := uow.ConversationTurnRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByWorkspaceID{WorkspaceID: workspaceId},
		specification.OrderBy{Field: "seq", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.TurnDTO, 0, len(turns))
	for _, t := range turns {
		result = append(result, &dto.TurnDTO{
			Id:          t.Id,
			Role:        t.Role,
			Content:     t.Content,
			ToolCalls:   entityCallsToDTOs(t.ToolCalls),
			ToolResults: entityResultsToDTOs(t.ToolResults),
			CreatedAt:   t.CreatedAt,
		})
	}
	return result, nil
}

func (c *chatService) publishExchangeEvent(ctx context.Context, userId uuid.UUID, workspaceId *uuid.UUID, outcome *loop.Outcome) {
	if c.eventPublisher == nil {
		return
	}
	payload := map[string]interface{}{
		"user_id":       userId.String(),
		"iterations":    outcome.Iterations,
		"limit_reached": outcome.LimitHit,
		"turns":         len(outcome.Turns),
	}
	if workspaceId != nil {
		payload["workspace_id"] = workspaceId.String()
	}
	if err := c.eventPublisher.Publish(ctx, events.NewEvent(events.TypeChatCompleted, payload)); err != nil {
		c.logger.Printf("failed to publish chat event: %v", err)
	}
}

func turnsToDTOs(turns []loop.Turn) []dto.TurnDTO {
	result := make([]dto.TurnDTO, 0, len(turns))
	for _, t := range turns {
		result = append(result, dto.TurnDTO{
			Id:          t.ID,
			Role:        t.Role,
			Content:     t.Content,
			ToolCalls:   requestDTOs(t.Requests),
			ToolResults: resultDTOs(t.Results),
			CreatedAt:   t.CreatedAt,
		})
	}
	return result
}

func requestDTOs(requests []tool.Request) []dto.ToolCallDTO {
	if len(requests) == 0 {
		return nil
	}
	calls := make([]dto.ToolCallDTO, 0, len(requests))
	for _, req := range requests {
		calls = append(calls, dto.ToolCallDTO{Id: req.ID, Name: req.Name, Args: req.Args})
	}
	return calls
}

func resultDTOs(results []tool.Result) []dto.ToolResultDTO {
	if len(results) == 0 {
		return nil
	}
	dtos := make([]dto.ToolResultDTO, 0, len(results))
	for _, res := range results {
		dtos = append(dtos, dto.ToolResultDTO{
			RequestId: res.RequestID,
			Name:      res.Name,
			Ok:        res.OK,
			Output:    res.Output,
			Error:     res.Error,
		})
	}
	return dtos
}

func entityCallsToDTOs(calls []entity.TurnToolCall) []dto.ToolCallDTO {
	if len(calls) == 0 {
		return nil
	}
	dtos := make([]dto.ToolCallDTO, 0, len(calls))
	for _, call := range calls {
		dtos = append(dtos, dto.ToolCallDTO{Id: call.Id, Name: call.Name, Args: call.Args})
	}
	return dtos
}

func entityResultsToDTOs(results []entity.TurnToolResult) []dto.ToolResultDTO {
	if len(results) == 0 {
		return nil
	}
	dtos := make([]dto.ToolResultDTO, 0, len(results))
	for _, res := range results {
		dtos = append(dtos, dto.ToolResultDTO{
			RequestId: res.RequestId,
			Name:      res.Name,
			Ok:        res.Ok,
			Output:    res.Output,
			Error:     res.Error,
		})
	}
	return dtos
}
