package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sidekick-ai-be/internal/entity"
	"sidekick-ai-be/internal/repository/specification"
	"sidekick-ai-be/internal/repository/unitofwork"
	"sidekick-ai-be/pkg/agent/loop"
	"sidekick-ai-be/pkg/agent/tool"
)

// turnStore adapts the conversation turn repository to the control loop's
// Store contract. Append is transactional: either the whole exchange is
// recorded or none of it is.
type turnStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewTurnStore(uowFactory unitofwork.RepositoryFactory) loop.Store {
	return &turnStore{uowFactory: uowFactory}
}

func (s *turnStore) Load(ctx context.Context, key loop.Key) ([]loop.Turn, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	turns, err := uow.ConversationTurnRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: key.UserID},
		specification.ByWorkspaceID{WorkspaceID: key.WorkspaceID},
		specification.OrderBy{Field: "seq", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]loop.Turn, 0, len(turns))
	for _, t := range turns {
		result = append(result, loop.Turn{
			ID:        t.Id,
			Role:      t.Role,
			Content:   t.Content,
			Requests:  callsToRequests(t.ToolCalls),
			Results:   recordsToResults(t.ToolResults),
			CreatedAt: t.CreatedAt,
		})
	}
	return result, nil
}

func (s *turnStore) Append(ctx context.Context, key loop.Key, turns []loop.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	seq, err := uow.ConversationTurnRepository().NextSeq(ctx, key.UserID, key.WorkspaceID)
	if err != nil {
		return err
	}

	entities := make([]*entity.ConversationTurn, 0, len(turns))
	for i, t := range turns {
		entities = append(entities, &entity.ConversationTurn{
			Id:          uuid.New(),
			UserId:      key.UserID,
			WorkspaceId: key.WorkspaceID,
			Role:        t.Role,
			Content:     t.Content,
			ToolCalls:   requestsToCalls(t.Requests),
			ToolResults: resultsToRecords(t.Results),
			Seq:         seq + i,
			CreatedAt:   time.Now(),
		})
	}

	if err := uow.ConversationTurnRepository().CreateBulk(ctx, entities); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	// Stamp the persisted identity back so callers see the same ids the
	// history endpoint will serve.
	for i := range turns {
		turns[i].ID = entities[i].Id
		turns[i].CreatedAt = entities[i].CreatedAt
	}
	return nil
}

func requestsToCalls(requests []tool.Request) []entity.TurnToolCall {
	if len(requests) == 0 {
		return nil
	}
	calls := make([]entity.TurnToolCall, 0, len(requests))
	for _, req := range requests {
		calls = append(calls, entity.TurnToolCall{Id: req.ID, Name: req.Name, Args: req.Args})
	}
	return calls
}

func callsToRequests(calls []entity.TurnToolCall) []tool.Request {
	if len(calls) == 0 {
		return nil
	}
	requests := make([]tool.Request, 0, len(calls))
	for _, call := range calls {
		requests = append(requests, tool.Request{ID: call.Id, Name: call.Name, Args: call.Args})
	}
	return requests
}

func resultsToRecords(results []tool.Result) []entity.TurnToolResult {
	if len(results) == 0 {
		return nil
	}
	records := make([]entity.TurnToolResult, 0, len(results))
	for _, res := range results {
		records = append(records, entity.TurnToolResult{
			RequestId: res.RequestID,
			Name:      res.Name,
			Ok:        res.OK,
			Output:    res.Output,
			Error:     res.Error,
		})
	}
	return records
}

func recordsToResults(records []entity.TurnToolResult) []tool.Result {
	if len(records) == 0 {
		return nil
	}
	results := make([]tool.Result, 0, len(records))
	for _, rec := range records {
		results = append(results, tool.Result{
			RequestID: rec.RequestId,
			Name:      rec.Name,
			OK:        rec.Ok,
			Output:    rec.Output,
			Error:     rec.Error,
		})
	}
	return results
}
