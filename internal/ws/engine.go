package ws

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/hiveserver/hiveserver/internal/bot"
	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/config"
	"github.com/hiveserver/hiveserver/internal/match"
	"github.com/hiveserver/hiveserver/internal/seating"
)

// Broadcaster is the connection layer's half of the boundary: the Engine
// hands it fully-built messages and never touches a websocket connection
// itself.
type Broadcaster interface {
	Broadcast(Msg)
	SendTo(sessionID string, msg Msg)
}

type eventKind int

const (
	evJoinAsHuman eventKind = iota
	evJoinVsBot
	evGameAction
	evForfeit
	evDisconnect
	evClockTick
	evBotMoveReady
	evRotationPauseElapsed
	evSnapshotRequest
)

type engineEvent struct {
	kind          eventKind
	sessionID     string
	nickname      string
	action        match.Action
	actionPayload map[string]interface{}
}

// Engine is the single serialized executor described in §5: every mutation
// to match state, board, hands, seating, queue, and clocks passes through
// the goroutine draining events, the same shape as the teacher's Hub.Run()
// broadcast-draining loop and yagoggame-gomaster's GamersPool.
type Engine struct {
	cfg         config.Config
	state       *match.State
	seats       *seating.Controller
	events      chan engineEvent
	broadcaster Broadcaster
	logger      zerolog.Logger
	rng         *rand.Rand
	botSched    *bot.Scheduler

	// rotationPending is set while a match has ended and the post-rotation
	// pause is armed, and cleared once the next match activates. It guards
	// against a second rotation firing for the same terminal match — e.g. a
	// seated player disconnecting during the pause window — which would
	// double-count Wins and arm a second evRotationPauseElapsed timer.
	rotationPending bool
}

// NewEngine constructs an idle Engine in the Waiting phase.
func NewEngine(cfg config.Config, broadcaster Broadcaster, logger zerolog.Logger) *Engine {
	rng := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	return &Engine{
		cfg:         cfg,
		state:       match.NewState(),
		seats:       seating.New(),
		events:      make(chan engineEvent, 256),
		broadcaster: broadcaster,
		logger:      logger,
		rng:         rng,
		botSched:    bot.NewScheduler(bot.DelayBounds{Min: cfg.BotDelayMin, Max: cfg.BotDelayMax}, rng),
	}
}

// Run drains events until stop is closed. It owns exclusive access to
// state/seats/botSched: nothing outside this goroutine may touch them.
func (e *Engine) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			e.handleClockTick(now)
		case ev := <-e.events:
			e.dispatch(ev, time.Now())
		}
	}
}

// submit enqueues an event, matching the teacher's fire-and-forget send on
// its broadcast channel (bounded, best-effort under extreme load).
func (e *Engine) submit(ev engineEvent) {
	select {
	case e.events <- ev:
	default:
		e.logger.Warn().Msg("engine event queue full; dropping event")
	}
}

func (e *Engine) JoinAsHuman(sessionID, nickname string) {
	e.submit(engineEvent{kind: evJoinAsHuman, sessionID: sessionID, nickname: nickname})
}

func (e *Engine) JoinVsBot(sessionID, nickname string) {
	e.submit(engineEvent{kind: evJoinVsBot, sessionID: sessionID, nickname: nickname})
}

func (e *Engine) SubmitAction(sessionID string, payload map[string]interface{}) {
	e.submit(engineEvent{kind: evGameAction, sessionID: sessionID, actionPayload: payload})
}

func (e *Engine) Forfeit(sessionID string) {
	e.submit(engineEvent{kind: evForfeit, sessionID: sessionID})
}

func (e *Engine) Disconnect(sessionID string) {
	e.submit(engineEvent{kind: evDisconnect, sessionID: sessionID})
}

// SetBroadcaster wires the connection layer after construction, breaking
// the Hub/Engine construction cycle (the Hub needs an *Engine, the Engine
// needs a Broadcaster the Hub implements).
func (e *Engine) SetBroadcaster(b Broadcaster) {
	e.broadcaster = b
}

// RequestSnapshot lets a newly (re)connecting session get caught up
// immediately, generalizing the teacher's sendStateToRoom re-send-on-join.
// Per §5's single-serialized-executor invariant, the snapshot is built
// inside the engine's own goroutine like every other read of match/seating
// state, not by the caller reaching into them directly.
func (e *Engine) RequestSnapshot(sessionID string) {
	e.submit(engineEvent{kind: evSnapshotRequest, sessionID: sessionID})
}

func (e *Engine) dispatch(ev engineEvent, now time.Time) {
	switch ev.kind {
	case evJoinAsHuman:
		e.handleJoinAsHuman(ev, now)
	case evJoinVsBot:
		e.handleJoinVsBot(ev, now)
	case evGameAction:
		e.handleGameAction(ev, now)
	case evForfeit:
		e.handleForfeit(ev, now)
	case evDisconnect:
		e.handleDisconnect(ev, now)
	case evBotMoveReady:
		e.handleBotMoveReady(now)
	case evRotationPauseElapsed:
		e.handleRotationPauseElapsed(now)
	case evSnapshotRequest:
		e.handleSnapshotRequest(ev, now)
	}
}

// handleSnapshotRequest answers a single session's catch-up request,
// building the snapshot from the same goroutine-owned state every mutation
// reads and writes.
func (e *Engine) handleSnapshotRequest(ev engineEvent, now time.Time) {
	snap := BuildSnapshot(e.state, e.seats, now, e.cfg.MoveClockBudget)
	e.broadcaster.SendTo(ev.sessionID, snap.toMsg())
}

func (e *Engine) botMatchActive() bool {
	return (e.seats.White != nil && e.seats.White.Identity.IsBot) ||
		(e.seats.Black != nil && e.seats.Black.Identity.IsBot)
}

func (e *Engine) handleJoinAsHuman(ev engineEvent, now time.Time) {
	outcome := e.seats.JoinAsHuman(seating.Identity{SessionID: ev.sessionID, Nickname: ev.nickname}, e.botMatchActive())
	if outcome.InterruptsBot || outcome.MatchReady {
		e.botSched.Cancel()
		e.rotationPending = false
		e.state.ResetForNewMatch()
		e.state.Activate(now)
		e.scheduleBotIfDue(now, true)
	}
	e.broadcast(now)
}

func (e *Engine) handleJoinVsBot(ev engineEvent, now time.Time) {
	if !e.seats.BotMatchAllowed() {
		e.broadcaster.SendTo(ev.sessionID, Msg{T: msgError, M: map[string]interface{}{"reason": "bot match unavailable"}})
		return
	}
	if _, seated := e.seats.SeatOf(ev.sessionID); !seated {
		e.seats.JoinAsHuman(seating.Identity{SessionID: ev.sessionID, Nickname: ev.nickname}, false)
	}
	if !e.seats.BotMatchAllowed() {
		e.broadcast(now)
		return
	}
	_, movesFirst := e.seats.StartBotMatch(seating.Identity{SessionID: "bot-" + ev.sessionID, Nickname: "Hive Bot"}, e.rng)
	e.rotationPending = false
	e.state.ResetForNewMatch()
	e.state.Activate(now)
	e.scheduleBotIfDue(now, movesFirst)
	e.broadcast(now)
}

// handleGameAction decodes ev.actionPayload (a raw game_action payload from
// the wire) against the sender's seated colour and validates the result.
// Tests that dispatch a pre-built ev.action directly, bypassing the wire,
// leave actionPayload nil and skip the decode step.
func (e *Engine) handleGameAction(ev engineEvent, now time.Time) {
	colour, seated := e.seats.SeatOf(ev.sessionID)
	if !seated {
		e.broadcaster.SendTo(ev.sessionID, Msg{T: msgError, M: map[string]interface{}{"reason": "not seated"}})
		return
	}

	action := ev.action
	if ev.actionPayload != nil {
		decoded, err := decodeAction(ev.actionPayload, colour)
		if err != nil {
			e.broadcaster.SendTo(ev.sessionID, Msg{T: msgError, M: map[string]interface{}{"reason": "malformed action"}})
			return
		}
		action = decoded
	}

	if err := e.state.Validate(now, colour, action); err != nil {
		if errors.Is(err, match.ErrInvariantViolation) {
			e.logger.Error().Err(err).Str("session", ev.sessionID).Msg("hive invariant violated; match declared a draw")
			e.afterCommit(now)
			return
		}
		e.broadcaster.SendTo(ev.sessionID, Msg{T: msgError, M: map[string]interface{}{"reason": "illegal action"}})
		return
	}
	e.afterCommit(now)
}

func (e *Engine) handleForfeit(ev engineEvent, now time.Time) {
	colour, seated := e.seats.SeatOf(ev.sessionID)
	if !seated {
		return
	}
	_ = e.state.Validate(now, colour, match.Action{Type: match.ActionForfeit})
	e.afterCommit(now)
}

func (e *Engine) handleDisconnect(ev engineEvent, now time.Time) {
	colour, seated := e.seats.SeatOf(ev.sessionID)
	if !seated {
		e.seats.Disconnect(ev.sessionID)
		return
	}
	opponentIsBot := e.seatIsBot(colour.Opponent())
	if e.state.Phase == match.Active {
		_ = e.state.Validate(now, colour, match.Action{Type: match.ActionForfeit})
	}
	e.botSched.Cancel()
	if opponentIsBot {
		e.seats.TearDownBotMatch()
		e.state.ResetForNewMatch()
		e.rotationPending = false
		e.broadcast(now)
		return
	}
	e.seats.Disconnect(ev.sessionID)
	if e.state.Phase == match.Terminal && !e.rotationPending {
		e.rotateAndSchedule(now)
		return
	}
	e.broadcast(now)
}

func (e *Engine) seatIsBot(colour board.Colour) bool {
	if colour == board.White {
		return e.seats.White != nil && e.seats.White.Identity.IsBot
	}
	return e.seats.Black != nil && e.seats.Black.Identity.IsBot
}

func (e *Engine) handleClockTick(now time.Time) {
	if e.state.TickTimeout(now, e.cfg.MoveClockBudget) {
		e.afterCommit(now)
	}
}

func (e *Engine) handleBotMoveReady(now time.Time) {
	if e.state.Phase != match.Active {
		return
	}
	botColour := e.state.Current
	if !e.seatIsBot(botColour) {
		return
	}
	pos := bot.Position{Board: e.state.Board, Hands: e.state.Hands, QueenPlaced: e.state.QueenPlaced}
	result := bot.Play(e.logger, pos, botColour, e.state.TurnNumber, e.cfg.BotSearchDepth)
	if !result.Found {
		e.logger.Warn().Str("colour", string(botColour)).Msg("bot has no legal move; leaving turn to the clock")
		return
	}
	action := candidateToAction(result.Candidate)
	if err := e.state.Validate(now, botColour, action); err != nil {
		if errors.Is(err, match.ErrInvariantViolation) {
			e.logger.Error().Err(err).Str("colour", string(botColour)).Msg("hive invariant violated; match declared a draw")
			e.afterCommit(now)
			return
		}
		e.logger.Warn().Err(err).Msg("bot search produced an action the validator rejected")
		return
	}
	e.afterCommit(now)
}

func candidateToAction(c bot.Candidate) match.Action {
	if c.Kind == bot.KindPlace {
		return match.Action{Type: match.ActionPlace, Species: c.Species, Hex: c.Hex}
	}
	return match.Action{Type: match.ActionMove, From: c.From, To: c.To}
}

// handleRotationPauseElapsed activates the next match once the post-rotation
// pause armed by rotateAndSchedule has elapsed. A firing with rotationPending
// already false is stale — the match it was armed for already resolved
// through some other path (a mid-pause rejoin, a bot-match teardown) — and is
// ignored rather than re-activating over whatever is running now.
func (e *Engine) handleRotationPauseElapsed(now time.Time) {
	if !e.rotationPending {
		return
	}
	e.rotationPending = false
	if e.seats.White == nil || e.seats.Black == nil {
		return
	}
	e.state.ResetForNewMatch()
	e.state.Activate(now)
	e.scheduleBotIfDue(now, e.seatIsBot(board.White))
	e.broadcast(now)
}

// afterCommit runs the shared post-mutation housekeeping: cancel or arm the
// bot scheduler, and on Terminal, rotate seats and schedule the next match.
func (e *Engine) afterCommit(now time.Time) {
	if e.state.Phase == match.Terminal {
		e.rotateAndSchedule(now)
		return
	}
	e.scheduleBotIfDue(now, false)
	e.broadcast(now)
}

func (e *Engine) rotateAndSchedule(now time.Time) {
	e.botSched.Cancel()
	switch e.state.Winner {
	case match.WinsWhite:
		e.seats.Rotate(board.White)
	case match.WinsBlack:
		e.seats.Rotate(board.Black)
	}
	e.rotationPending = true
	e.broadcast(now)
	pause := e.cfg.RotationPause()
	time.AfterFunc(pause, func() {
		e.submit(engineEvent{kind: evRotationPauseElapsed})
	})
}

// scheduleBotIfDue arms the bot scheduler if it is currently the bot's turn.
// immediate skips the random delay, for the "bot moves right away" case at
// the start of a fresh bot match where the bot is seated White (§4.6).
func (e *Engine) scheduleBotIfDue(now time.Time, immediate bool) {
	if e.state.Phase != match.Active || !e.seatIsBot(e.state.Current) {
		return
	}
	if immediate {
		e.submit(engineEvent{kind: evBotMoveReady})
		return
	}
	e.botSched.Arm(func() { e.submit(engineEvent{kind: evBotMoveReady}) })
}

func (e *Engine) broadcast(now time.Time) {
	snap := BuildSnapshot(e.state, e.seats, now, e.cfg.MoveClockBudget)
	e.broadcaster.Broadcast(snap.toMsg())
}
