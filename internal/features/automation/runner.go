package automation

import (
	"context"
	"time"

	"go-hrms/internal/features/approval"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"
)

// Script execution is bounded; a runaway script must not stall dispatch.
const scriptTimeout = 5 * time.Second

// Runner executes the enabled hook scripts registered for an event type.
// Each script sees the event fields as globals and may set `result`, which
// is logged.
type Runner interface {
	Run(ctx context.Context, event approval.Event) error
}

type RunnerImpl struct {
	repo   ScriptRepository
	logger *zap.Logger
}

func NewRunner(repo ScriptRepository, logger *zap.Logger) Runner {
	return &RunnerImpl{repo: repo, logger: logger}
}

func (r *RunnerImpl) Run(ctx context.Context, event approval.Event) error {
	scripts, err := r.repo.ListEnabledByEvent(ctx, string(event.Type))
	if err != nil {
		return err
	}

	for _, hook := range scripts {
		if err := r.runOne(ctx, hook, event); err != nil {
			r.logger.Error("hook script failed",
				zap.String("script", hook.Name),
				zap.String("event", string(event.Type)),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (r *RunnerImpl) runOne(ctx context.Context, hook HookScript, event approval.Event) error {
	script := tengo.NewScript([]byte(hook.Source))
	script.SetImports(stdlib.GetModuleMap("fmt", "text", "math", "times"))

	_ = script.Add("event_type", string(event.Type))
	_ = script.Add("request_kind", event.Request.Kind)
	_ = script.Add("request_id", int64(event.Request.ID))
	_ = script.Add("level", int64(event.Level))
	_ = script.Add("new_level", int64(event.NewLevel))
	_ = script.Add("actor_id", int64(event.ActorID))
	_ = script.Add("actor_name", event.ActorName)
	_ = script.Add("reason", event.Reason)
	_ = script.Add("result", "")

	runCtx, cancel := context.WithTimeout(ctx, scriptTimeout)
	defer cancel()

	compiled, err := script.RunContext(runCtx)
	if err != nil {
		return err
	}

	if result := compiled.Get("result").String(); result != "" {
		r.logger.Info("hook script result",
			zap.String("script", hook.Name),
			zap.String("event", string(event.Type)),
			zap.String("result", result),
		)
	}
	return nil
}
