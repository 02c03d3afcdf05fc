// Package orchestrator runs the autonomous session loop: it resolves the
// next task, drives the assistant through the actuator, and applies every
// session-level stopping condition. All engines are injected so a session
// carries no hidden global state.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/CodexForgeBR/agent-pilot/internal/actuator"
	"github.com/CodexForgeBR/agent-pilot/internal/banner"
	"github.com/CodexForgeBR/agent-pilot/internal/breaker"
	"github.com/CodexForgeBR/agent-pilot/internal/config"
	"github.com/CodexForgeBR/agent-pilot/internal/exitcode"
	"github.com/CodexForgeBR/agent-pilot/internal/exitdetect"
	"github.com/CodexForgeBR/agent-pilot/internal/journal"
	"github.com/CodexForgeBR/agent-pilot/internal/logging"
	"github.com/CodexForgeBR/agent-pilot/internal/model"
	"github.com/CodexForgeBR/agent-pilot/internal/notification"
	"github.com/CodexForgeBR/agent-pilot/internal/prompt"
	"github.com/CodexForgeBR/agent-pilot/internal/ratelimit"
	"github.com/CodexForgeBR/agent-pilot/internal/recovery"
	"github.com/CodexForgeBR/agent-pilot/internal/selector"
	"github.com/CodexForgeBR/agent-pilot/internal/state"
	"github.com/CodexForgeBR/agent-pilot/internal/tasklist"
	"github.com/CodexForgeBR/agent-pilot/internal/vcs"
)

// journalFile is the per-session journal name inside the state directory.
const journalFile = "journal.md"

// Status is the read-only session snapshot consumed by any UI shell.
// Published through OnStatus after every state change and persisted to the
// state directory for --status.
type Status struct {
	Running      bool     `json:"running"`
	LoopCount    int      `json:"loopCount"`
	CurrentTask  string   `json:"currentTask"`
	CurrentModel model.ID `json:"currentModel"`
	CircuitState string   `json:"circuitState"`
	Message      string   `json:"message"`
}

// Session is one autonomous run. Construct with New, drive with Run.
// A Session is not reusable: Run may be called once.
type Session struct {
	Config    *config.Config
	Workspace string
	Actuator  actuator.Actuator
	Store     *state.Store

	// OnStatus, when set, receives a snapshot after every state change.
	OnStatus func(Status)

	limiter  *ratelimit.Limiter
	hourly   *ratelimit.HourlyLimiter
	fallback *ratelimit.Fallback
	detector *exitdetect.Detector
	breaker  *breaker.Breaker
	recovery *recovery.Manager

	running      bool
	loopCount    int
	currentTask  string
	currentModel model.ID
	message      string

	// stopCh is closed by Stop; it cancels the session context so a stop
	// request unblocks sleeps and response waits, not just the loop
	// boundary. Safe to call from any goroutine.
	stopOnce sync.Once
	stopCh   chan struct{}

	pendingNudge  string
	lastTasksHash string
	modelSwitches int
	startTime     time.Time
}

// New wires a Session from its configuration, state store, and actuator.
func New(cfg *config.Config, store *state.Store, act actuator.Actuator) *Session {
	window := time.Duration(cfg.RateWindowHours) * time.Hour
	if window <= 0 {
		window = ratelimit.DefaultWindow
	}
	return &Session{
		Config:   cfg,
		Actuator: act,
		Store:    store,
		limiter:  ratelimit.NewLimiter(store, window),
		hourly:   ratelimit.NewHourlyLimiter(cfg.HourlyCap),
		fallback: ratelimit.NewFallback(),
		detector: exitdetect.New(store, cfg.FailureThreshold),
		breaker:  breaker.New(),
		recovery: recovery.NewManager(recovery.DefaultMaxAttempts),
		stopCh:   make(chan struct{}),
	}
}

// Status returns the current snapshot.
func (s *Session) Status() Status {
	return Status{
		Running:      s.running,
		LoopCount:    s.loopCount,
		CurrentTask:  s.currentTask,
		CurrentModel: s.currentModel,
		CircuitState: string(s.breaker.State()),
		Message:      s.message,
	}
}

// publish records a status message, persists the snapshot, and invokes the
// callback. Persistence failures are logged only.
func (s *Session) publish(message string) {
	s.message = message
	snap := s.Status()
	if err := s.Store.SaveJSON(state.StatusFile, snap); err != nil {
		logging.Warnf("Failed to save session status: %v", err)
	}
	if s.OnStatus != nil {
		s.OnStatus(snap)
	}
}

// stop is the single exit path. It zeroes the running flag, publishes the
// final snapshot with the reason, and sends the terminal notification.
func (s *Session) stop(reason string, code int) int {
	s.running = false
	s.publish(reason)
	logging.Infof("Session stopped: %s", reason)

	event := eventForCode(code)
	msg := notification.FormatEvent(event, s.Workspace, s.loopCount, reason)
	notification.Send(s.Config.NotifyWebhook, s.Config.NotifyChannel, s.Config.NotifyChatID, msg)

	duration := int(time.Since(s.startTime).Seconds())
	switch code {
	case exitcode.Completed:
		banner.PrintCompletionBanner(s.loopCount, duration)
	case exitcode.MaxLoops:
		banner.PrintMaxLoopsBanner(s.loopCount, s.Config.MaxLoops)
	case exitcode.BreakerOpen:
		banner.PrintBreakerBanner(reason)
	case exitcode.Interrupted:
		banner.PrintInterruptedBanner(s.loopCount, s.currentTask)
	default:
		banner.PrintStoppedBanner(s.loopCount, reason)
	}
	return code
}

func eventForCode(code int) string {
	switch code {
	case exitcode.Completed:
		return notification.EventCompleted
	case exitcode.MaxLoops:
		return notification.EventMaxLoops
	case exitcode.BreakerOpen:
		return notification.EventBreakerOpen
	case exitcode.ModelsExhausted:
		return notification.EventModelsExhausted
	case exitcode.Interrupted:
		return notification.EventInterrupted
	default:
		return notification.EventStopped
	}
}

// Run executes the session loop until a stopping condition fires and
// returns the process exit code. Starting while already running is
// rejected.
func (s *Session) Run(ctx context.Context) int {
	if s.running {
		logging.Warn("A session is already running in this workspace")
		return exitcode.Error
	}

	// A stop request cancels the session context so every suspension
	// point (sleeps, response waits, the hourly countdown) unblocks.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	if s.Workspace == "" {
		s.Workspace = workspaceName(s.Config.TasksFile)
	}
	s.running = true
	s.startTime = time.Now()
	s.breaker.Reset("session start")
	s.currentModel = s.initialModel()
	s.lastTasksHash = s.tasksHash()

	if err := s.Store.Init(); err != nil {
		return s.stop(fmt.Sprintf("cannot create state directory: %v", err), exitcode.Error)
	}
	journalPath := filepath.Join(s.Store.Dir, journalFile)
	if err := journal.Init(journalPath); err != nil {
		logging.Warnf("Failed to init journal: %v", err)
	}

	banner.PrintStartupBanner(s.Workspace, string(s.currentModel), s.Config.TasksFile, s.Config.DebugURL, s.Config.MaxLoops)
	s.publish("session started")

	for {
		if s.stopRequested() {
			return s.stop("stop requested", exitcode.Stopped)
		}
		if ctx.Err() != nil {
			return s.stop("interrupted", exitcode.Interrupted)
		}

		if !s.breaker.CanExecute() {
			return s.stop(s.breaker.Reason(), exitcode.BreakerOpen)
		}

		if s.hourly.Tripped() {
			wait := int(s.hourly.TimeUntilReset().Seconds())
			banner.PrintRateLimitBanner(wait)
			s.publish("waiting out the hourly call cap")
			if err := s.hourly.Wait(ctx); err != nil {
				if s.stopRequested() {
					return s.stop("stop requested", exitcode.Stopped)
				}
				return s.stop("interrupted during rate-limit wait", exitcode.Interrupted)
			}
		}

		if s.loopCount >= s.Config.MaxLoops {
			return s.stop("max loops reached", exitcode.MaxLoops)
		}
		s.loopCount++
		loop := s.loopCount
		logging.Loop(loop, s.Config.MaxLoops)

		task, ok := s.resolveTask(loop)
		if !ok {
			return s.stop("all tasks completed", exitcode.Completed)
		}
		s.currentTask = task
		s.publish("working")

		if s.Config.AutoSwitch {
			s.autoSwitch(ctx, task)
		}

		response, failed, code := s.executeLoop(ctx, loop, task)
		if code >= 0 {
			return code
		}

		if failed {
			if d := s.detector.ReportFailure(); d.ShouldExit {
				return s.stop(d.Reason, exitcode.Error)
			}
		} else {
			s.detector.ReportSuccess()

			if d := s.detector.CheckResponse(response); d.ShouldExit {
				// Completion phrases report success; lower-confidence
				// stagnation exits report a plain stop.
				code := exitcode.Completed
				if d.Confidence < 0.9 {
					code = exitcode.Stopped
				}
				return s.stop(d.Reason, code)
			}
			if s.Config.TasksFile != "" && s.detector.CheckTaskListComplete(s.Config.TasksFile) {
				return s.stop("all tasks completed", exitcode.Completed)
			}
			s.detector.RecordLoop(loop, response)
			if s.detector.TestOnlySaturated(s.Config.TestLoopThreshold, loop) {
				return s.stop(fmt.Sprintf("%d consecutive test-only loops", s.Config.TestLoopThreshold), exitcode.Completed)
			}

			if n, err := s.Actuator.ClickPendingAcceptance(ctx); err == nil && n > 0 {
				logging.Debugf("Accepted %d pending changes", n)
			}
		}

		filesChanged := s.observeProgress(response)
		retried := s.recordOutcome(ctx, loop, filesChanged, failed, response)
		if retried < 0 {
			return s.stop(s.breaker.Reason(), exitcode.BreakerOpen)
		}

		outcome := "ok"
		if failed {
			outcome = "failed"
		}
		if err := journal.Append(journalPath, loop, task, outcome, response); err != nil {
			logging.Warnf("Failed to append journal: %v", err)
		}

		if retried == 0 && s.Config.CommitEvery > 0 && loop%s.Config.CommitEvery == 0 {
			if err := vcs.CommitProgress(ctx, ".", loop); err != nil {
				logging.Warnf("Progress commit failed: %v", err)
			}
		}

		if err := sleepInterval(ctx, time.Duration(s.Config.LoopInterval)*time.Second); err != nil {
			return s.cancelExit()
		}
	}
}

// Stop requests a clean stop from any goroutine. The request cancels the
// session context, so blocked sleeps and response waits end immediately
// and the session exits Stopped rather than Interrupted.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// stopRequested reports whether Stop has been called.
func (s *Session) stopRequested() bool {
	select {
	case <-s.stopCh:
		return true
	default:
		return false
	}
}

// cancelExit maps a context cancellation to its exit: an operator stop
// request exits Stopped, an external interrupt exits Interrupted.
func (s *Session) cancelExit() int {
	if s.stopRequested() {
		return s.stop("stop requested", exitcode.Stopped)
	}
	return s.stop("interrupted", exitcode.Interrupted)
}

// initialModel picks the session's starting model: the reasoning
// preference when valid, else the default.
func (s *Session) initialModel() model.ID {
	if model.IsKnown(s.Config.ReasoningModel) {
		return s.Config.ReasoningModel
	}
	return model.Default
}

// resolveTask returns the work item for this loop: the first open task
// list item when a checklist is configured, else the operator's goal.
// With a checklist the goal only seeds loop 1 and checklist exhaustion
// ends the session; without one the goal stays the work item and the
// exit detector, breaker, or loop cap terminate the session.
func (s *Session) resolveTask(loop int) (string, bool) {
	if s.Config.TasksFile != "" {
		task, ok, err := tasklist.NextOpen(s.Config.TasksFile)
		if err != nil {
			logging.Warnf("Failed to read task list: %v", err)
		}
		if ok {
			return task, true
		}
	}
	if loop == 1 && s.Config.Goal != "" {
		return s.Config.Goal, true
	}
	// Loop 1 carried the goal; later loops keep working it until an exit
	// signal fires.
	if s.Config.TasksFile == "" && s.Config.Goal != "" {
		return s.Config.Goal, true
	}
	return "", false
}

// autoSwitch classifies the task and switches models only when the choice
// differs from the current one.
func (s *Session) autoSwitch(ctx context.Context, task string) {
	category := selector.Classify(task)
	prefs := selector.Preferences{
		Reasoning: s.Config.ReasoningModel,
		Frontend:  s.Config.FrontendModel,
		Quick:     s.Config.QuickModel,
	}
	want := selector.PickPreferred(category, prefs)
	if want == s.currentModel || !model.IsKnown(want) {
		return
	}
	if !s.limiter.CanCall(want) {
		excluded := s.excludedModels()
		alt, ok := selector.PickByCapability(category, excluded)
		if !ok {
			return
		}
		want = alt
	}
	if err := s.Actuator.SwitchModel(ctx, want); err != nil {
		logging.Warnf("Model switch to %s failed: %v", want, err)
		return
	}
	s.modelSwitches++
	logging.Infof("Switched model: %s -> %s (%s task)", s.currentModel, want, category)
	s.currentModel = want
}

// excludedModels merges the rate limiter's unavailable set with the
// fallback engine's exhausted set.
func (s *Session) excludedModels() map[model.ID]bool {
	excluded := s.limiter.Unavailable()
	for id := range s.fallback.Exhausted() {
		excluded[id] = true
	}
	return excluded
}

// executeLoop runs steps 7 and 8 of one iteration: connect, inject, await,
// and inspect the response for rate-limit signals. It returns the response
// text, whether the iteration failed, and an exit code (>= 0 means stop).
func (s *Session) executeLoop(ctx context.Context, loop int, task string) (response string, failed bool, code int) {
	if !s.Actuator.IsConnected() {
		if err := s.Actuator.Connect(ctx); err != nil {
			logging.Warnf("Actuator connect failed: %v", err)
			return "", true, -1
		}
	}

	if !s.limiter.CanCall(s.currentModel) {
		s.fallback.MarkExhausted(s.currentModel)
		if !s.fallbackSwitch(ctx) {
			return "", true, s.stop("all models rate limited", exitcode.ModelsExhausted)
		}
	}

	text := s.buildPrompt(loop, task)
	if err := s.Actuator.Inject(ctx, text); err != nil {
		logging.Warnf("Prompt injection failed: %v", err)
		return "", true, -1
	}
	s.limiter.RecordCall(s.currentModel)
	s.hourly.Record()

	timeout := time.Duration(s.Config.ExecTimeout) * time.Second
	response, err := s.Actuator.WaitForResponse(ctx, timeout)
	if err != nil {
		if ctx.Err() != nil {
			return response, true, s.cancelExit()
		}
		logging.Warnf("Response wait failed: %v", err)
		return response, true, -1
	}

	if pattern, limited := ratelimit.Detect(response); limited {
		logging.Warnf("Rate limit signal from %s: %s", s.currentModel, pattern)
		s.fallback.MarkExhausted(s.currentModel)
		if !s.fallbackSwitch(ctx) {
			return response, true, s.stop("all models rate limited", exitcode.ModelsExhausted)
		}
		return response, true, -1
	}

	return response, false, -1
}

// fallbackSwitch walks the fallback order for a callable model and
// switches to it. Returns false when the list is exhausted.
func (s *Session) fallbackSwitch(ctx context.Context) bool {
	for {
		next, ok := s.fallback.NextModel()
		if !ok {
			return false
		}
		if next == s.currentModel || !s.limiter.CanCall(next) {
			s.fallback.MarkExhausted(next)
			continue
		}
		if err := s.Actuator.SwitchModel(ctx, next); err != nil {
			logging.Warnf("Fallback switch to %s failed: %v", next, err)
			s.fallback.MarkExhausted(next)
			continue
		}
		logging.Infof("Fell back to model %s", next)
		s.currentModel = next
		s.modelSwitches++
		return true
	}
}

// buildPrompt assembles the injected text. A pending recovery nudge takes
// precedence for exactly one loop.
func (s *Session) buildPrompt(loop int, task string) string {
	if s.pendingNudge != "" {
		nudge := s.pendingNudge
		s.pendingNudge = ""
		return prompt.BuildNudge(nudge, task)
	}
	if loop == 1 {
		return prompt.BuildFirst(s.Config.Goal, task)
	}
	return prompt.BuildContinue(task, loop)
}

// observeProgress derives this loop's filesChanged count from the response
// transcript and from task list edits.
func (s *Session) observeProgress(response string) int {
	changed := ScanFilesChanged(response)
	if hash := s.tasksHash(); hash != "" && hash != s.lastTasksHash {
		s.lastTasksHash = hash
		changed++
	}
	return changed
}

func (s *Session) tasksHash() string {
	if s.Config.TasksFile == "" {
		return ""
	}
	hash, err := tasklist.HashFile(s.Config.TasksFile)
	if err != nil {
		return ""
	}
	return hash
}

// recordOutcome feeds the breaker and, when it trips, runs one recovery
// strategy and retries the same loop number. Returns 1 when the loop will
// be retried, 0 on normal continuation, and -1 when no recovery is left.
func (s *Session) recordOutcome(ctx context.Context, loop, filesChanged int, failed bool, response string) int {
	result := breaker.Result{
		LoopNumber:     loop,
		FilesChanged:   filesChanged,
		HasErrors:      failed,
		ResponseLength: len(response),
		ResponseHash:   hashResponse(response),
	}
	if s.breaker.RecordResult(result) {
		if filesChanged > 0 {
			s.recovery.Reset()
		}
		return 0
	}

	action, ok := s.recovery.NextAction()
	if !ok {
		return -1
	}
	logging.Warnf("Breaker tripped (%s); applying recovery strategy %s", s.breaker.Reason(), action.Strategy)
	if action.SwitchTo != "" {
		if err := s.Actuator.SwitchModel(ctx, action.SwitchTo); err != nil {
			logging.Warnf("Recovery model switch failed: %v", err)
		} else {
			s.currentModel = action.SwitchTo
			s.modelSwitches++
		}
	} else {
		s.pendingNudge = action.InjectPrompt
	}
	s.breaker.Reset(fmt.Sprintf("recovery: %s", action.Strategy))
	// Retry the same loop number.
	s.loopCount--
	return 1
}

// workspaceName derives a display name for notifications from the tasks
// file location, falling back to the current directory.
func workspaceName(tasksFile string) string {
	dir := "."
	if tasksFile != "" {
		dir = filepath.Dir(tasksFile)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "agent-pilot"
	}
	name := filepath.Base(abs)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "agent-pilot"
	}
	return name
}

// sleepInterval waits out the inter-loop delay, returning early when the
// context is canceled.
func sleepInterval(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
