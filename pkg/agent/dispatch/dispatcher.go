package dispatch

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"sidekick-ai-be/pkg/agent/registry"
	"sidekick-ai-be/pkg/agent/tool"
)

const (
	reasonUnknownTool = "tool is not available in this conversation"
	reasonTurnCap     = "per-turn tool call limit exceeded"
	reasonBudgetSpent = "conversation tool call budget exhausted"
	reasonTimedOut    = "tool execution timed out"
	reasonPanicked    = "tool execution aborted"
)

// Budget counts tool calls across all turns of one exchange. It is not safe
// for concurrent use; the loop consumes it sequentially between turns.
type Budget struct {
	remaining int
}

func NewBudget(max int) *Budget {
	return &Budget{remaining: max}
}

func (b *Budget) take() bool {
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// Dispatcher executes tool requests against a registry View. Every failure
// mode (unknown tool, error, timeout, panic, exceeded bound) becomes a
// failed Result; Dispatch never returns an error to the loop.
type Dispatcher struct {
	toolTimeout time.Duration
	maxPerTurn  int
	concurrent  bool
	logger      *log.Logger
}

func NewDispatcher(toolTimeout time.Duration, maxPerTurn int, concurrent bool, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		toolTimeout: toolTimeout,
		maxPerTurn:  maxPerTurn,
		concurrent:  concurrent,
		logger:      logger,
	}
}

// Dispatch runs the requested tools and returns one Result per request, in
// request order regardless of completion order.
func (d *Dispatcher) Dispatch(ctx context.Context, view *registry.View, requests []tool.Request, budget *Budget) []tool.Result {
	results := make([]tool.Result, len(requests))

	type job struct {
		index int
		req   tool.Request
		t     tool.Tool
	}
	jobs := make([]job, 0, len(requests))

	for i, req := range requests {
		if d.maxPerTurn > 0 && i >= d.maxPerTurn {
			results[i] = tool.Failure(req, reasonTurnCap)
			continue
		}
		t, ok := view.Lookup(req.Name)
		if !ok {
			results[i] = tool.Failure(req, reasonUnknownTool)
			continue
		}
		if budget != nil && !budget.take() {
			results[i] = tool.Failure(req, reasonBudgetSpent)
			continue
		}
		jobs = append(jobs, job{index: i, req: req, t: t})
	}

	run := func(j job) {
		results[j.index] = d.invoke(ctx, j.t, j.req)
	}

	if d.concurrent && len(jobs) > 1 {
		var wg sync.WaitGroup
		for _, j := range jobs {
			wg.Add(1)
			go func(j job) {
				defer wg.Done()
				run(j)
			}(j)
		}
		wg.Wait()
	} else {
		for _, j := range jobs {
			run(j)
		}
	}
	return results
}

func (d *Dispatcher) invoke(ctx context.Context, t tool.Tool, req tool.Request) (res tool.Result) {
	defer func() {
		if r := recover(); r != nil {
			if d.logger != nil {
				d.logger.Printf("tool %s panicked: %v", req.Name, r)
			}
			res = tool.Failure(req, reasonPanicked)
		}
	}()

	invokeCtx := ctx
	if d.toolTimeout > 0 {
		var cancel context.CancelFunc
		invokeCtx, cancel = context.WithTimeout(ctx, d.toolTimeout)
		defer cancel()
	}

	output, err := t.Invoke(invokeCtx, req.Args)
	if err != nil {
		if invokeCtx.Err() == context.DeadlineExceeded {
			return tool.Failure(req, reasonTimedOut)
		}
		return tool.Failure(req, fmt.Sprintf("tool error: %v", err))
	}
	return tool.Success(req, output)
}
