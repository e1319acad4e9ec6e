// Package session drives one game's turn order, termination detection, and
// resign/draw flows (C5, §4.5). A Session exclusively owns one
// *board.Position and is safe for concurrent use: every public method takes
// the instance mutex for its whole body, the way pkg/engine.Engine guards
// its board with a single sync.Mutex.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/herohde/klikschaak/pkg/board"
	"github.com/herohde/klikschaak/pkg/board/fen"
	"github.com/herohde/klikschaak/pkg/klog"
	"github.com/herohde/klikschaak/pkg/movegen"
	"github.com/herohde/klikschaak/pkg/rules"
	"github.com/seekerror/build"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Phase is the coarse game-lifecycle state (§4.5's state machine diagram).
type Phase uint8

const (
	Setup Phase = iota
	Active
	Terminal
)

// Outcome tags the reason a Terminal session ended, mirroring §4.5's
// `None | Checkmate(winner) | Stalemate | Resigned(winner) | DrawAgreed |
// TimeoutOrDisconnect(winner)` sum type. Winner is meaningless for Stalemate
// and DrawAgreed.
type Outcome uint8

const (
	NoOutcome Outcome = iota
	Checkmate
	Stalemate
	Resigned
	DrawAgreed
	TimeoutOrDisconnect
)

func (o Outcome) String() string {
	switch o {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Resigned:
		return "resigned"
	case DrawAgreed:
		return "draw agreed"
	case TimeoutOrDisconnect:
		return "timeout/disconnect"
	default:
		return "none"
	}
}

// Status is a Session's current lifecycle state. Winner is valid only when
// Phase is Terminal and Outcome names a decisive result.
type Status struct {
	Phase   Phase
	Outcome Outcome
	Winner  lang.Optional[board.Color]
}

// VariantConfig governs rule variations the core itself implements, in the
// functional-options style of pkg/engine.Option (WithTable, WithOptions,
// WithZobrist).
type VariantConfig struct {
	autoPromoteToQueen bool
	clock              Clock
}

// Clock is an empty seam: the core never calls it. It exists so a transport
// layer can attach wall-clock accounting without the session needing to know
// about it, per spec's explicit Non-goal on clocks/increment accounting.
type Clock interface{}

// Option configures a VariantConfig.
type Option func(*VariantConfig)

// WithAutoPromoteToQueen makes Submit resolve a pending promotion to Queen
// immediately instead of returning it to the caller (§4.4).
func WithAutoPromoteToQueen() Option {
	return func(c *VariantConfig) {
		c.autoPromoteToQueen = true
	}
}

// WithClock attaches a Clock the core never reads, reserved for transport.
func WithClock(clock Clock) Option {
	return func(c *VariantConfig) {
		c.clock = clock
	}
}

// Slot identifies a player seat.
type Slot uint8

const (
	SlotWhite Slot = iota
	SlotBlack
)

// Session owns one Position plus the bookkeeping §4.5 requires: a move log,
// two player slots and the terminal-state field. Grounded on pkg/engine's
// Engine, generalized from engine-vs-GUI to two human player IDs.
type Session struct {
	mu sync.Mutex

	cfg VariantConfig
	pos *board.Position

	players [2]string // player ID per Slot, empty if unfilled
	status  Status

	drawOffer lang.Optional[board.Color]
}

// New creates a Session in Setup phase from the standard starting position.
func New(ctx context.Context, opts ...Option) *Session {
	var cfg VariantConfig
	for _, fn := range opts {
		fn(&cfg)
	}
	s := &Session{
		cfg:    cfg,
		pos:    board.NewInitialSetup(),
		status: Status{Phase: Setup},
	}
	klog.Infof(ctx, "session %v created", version)
	return s
}

// Resume recreates an already-Active Session from a previously captured
// position string (§6) and its two seated players, the way Engine.Reset
// rebuilds a board from FEN for a GUI reconnecting mid-game.
func Resume(ctx context.Context, position, white, black string, opts ...Option) (*Session, error) {
	pos, _, _, err := fen.Decode(position)
	if err != nil {
		return nil, err
	}
	var cfg VariantConfig
	for _, fn := range opts {
		fn(&cfg)
	}
	s := &Session{
		cfg:     cfg,
		pos:     pos,
		players: [2]string{white, black},
		status:  Status{Phase: Active},
	}
	klog.Infof(ctx, "session %v resumed from %v", version, position)
	return s, nil
}

// Join fills slot with playerID. It returns ErrSlotTaken if the slot is
// already filled by a different player.
func (s *Session) Join(slot Slot, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.players[slot] != "" && s.players[slot] != playerID {
		return ErrSlotTaken
	}
	s.players[slot] = playerID
	return nil
}

// Start transitions Setup to Active once both slots are filled.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Phase == Active {
		return ErrAlreadyStarted
	}
	if s.status.Phase == Terminal {
		return rules.ErrGameOver
	}
	if s.players[SlotWhite] == "" || s.players[SlotBlack] == "" {
		return ErrNotReady
	}
	s.status = Status{Phase: Active}
	klog.Infof(ctx, "session started: white=%v black=%v", s.players[SlotWhite], s.players[SlotBlack])
	return nil
}

// Submit resolves playerID's candidate move against the current position.
// On success it returns the notation token committed; on a promotion rank
// without a chosen piece (and no auto-promote configured) it returns a
// PendingPromotion error the caller resolves by resubmitting with promo set.
func (s *Session) Submit(ctx context.Context, playerID string, c movegen.Candidate, unclick lang.Optional[int], promo lang.Optional[board.PieceKind]) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Phase == Setup {
		return "", rules.ErrGameNotStarted
	}
	if s.status.Phase == Terminal {
		return "", rules.ErrGameOver
	}

	mover, err := s.colorOf(playerID)
	if err != nil {
		return "", err
	}

	res, err := rules.Execute(s.pos, mover, c, unclick, promo)
	if err != nil {
		klog.Warningf(ctx, "rejected move from %v: %v", playerID, err)
		return "", err
	}

	if pending, ok := res.Promotion.V(); ok {
		if !s.cfg.autoPromoteToQueen {
			return "", &PendingPromotionError{Square: pending.Square, Side: pending.Side}
		}
		res, err = rules.Execute(s.pos, mover, c, unclick, lang.Some(board.Queen))
		if err != nil {
			return "", err
		}
	}

	s.pos = res.Position
	s.drawOffer = lang.None[board.Color]()
	klog.Infof(ctx, "%v played %v", playerID, res.Notation)

	s.detectTermination(ctx)
	return res.Notation, nil
}

// Resign ends the session in favor of playerID's opponent.
func (s *Session) Resign(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Phase != Active {
		return ErrNotActive
	}
	color, err := s.colorOf(playerID)
	if err != nil {
		return err
	}
	s.status = Status{Phase: Terminal, Outcome: Resigned, Winner: lang.Some(color.Opponent())}
	klog.Infof(ctx, "%v resigned", playerID)
	return nil
}

// OfferDraw records playerID's draw offer, pending the opponent's response.
func (s *Session) OfferDraw(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Phase != Active {
		return ErrNotActive
	}
	color, err := s.colorOf(playerID)
	if err != nil {
		return err
	}
	s.drawOffer = lang.Some(color)
	return nil
}

// RespondDraw resolves an outstanding draw offer. accept=false simply clears
// the offer; accept=true ends the session in DrawAgreed.
func (s *Session) RespondDraw(ctx context.Context, playerID string, accept bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Phase != Active {
		return ErrNotActive
	}
	offeredBy, ok := s.drawOffer.V()
	if !ok {
		return ErrNoDrawOffer
	}
	color, err := s.colorOf(playerID)
	if err != nil {
		return err
	}
	if color == offeredBy {
		return ErrNoDrawOffer
	}
	s.drawOffer = lang.None[board.Color]()
	if accept {
		s.status = Status{Phase: Terminal, Outcome: DrawAgreed}
		klog.Infof(ctx, "draw agreed")
	}
	return nil
}

// Timeout ends the session as TimeoutOrDisconnect in favor of the side that
// did not time out. The transport layer calls this instead of Resign when it
// prefers that label (§5, "Cancellation").
func (s *Session) Timeout(ctx context.Context, timedOutSide board.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Phase != Active {
		return ErrNotActive
	}
	s.status = Status{Phase: Terminal, Outcome: TimeoutOrDisconnect, Winner: lang.Some(timedOutSide.Opponent())}
	klog.Infof(ctx, "%v timed out", timedOutSide)
	return nil
}

// Status returns the session's current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot returns the live position plus its move log, for a reconnecting
// observer (§4.5's "opaque deep copy"). A Position is never mutated after
// construction — every move produces a new one via Apply — so handing out
// the live pointer is already safe without the caller holding s.mu.
func (s *Session) Snapshot() (*board.Position, []board.MoveLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos, s.pos.History()
}

// PositionString renders the live position as a position string (§6),
// a convenience wrapper around Snapshot for transports that want FEN text
// directly, mirroring the teacher's Engine.Position().
func (s *Session) PositionString() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fen.Encode(s.pos, 0, 1)
}

// detectTermination enumerates every legal move for the side now to move
// (whole-square and per-piece, per §4.5's warning against whole-square-only
// detection) and settles Checkmate/Stalemate if none exist. Must be called
// with s.mu held.
func (s *Session) detectTermination(ctx context.Context) {
	mover := s.pos.Turn()
	if rules.HasLegalMove(s.pos, mover) {
		return
	}
	if s.pos.IsInCheck(mover) {
		s.status = Status{Phase: Terminal, Outcome: Checkmate, Winner: lang.Some(mover.Opponent())}
		klog.Infof(ctx, "checkmate, %v wins", mover.Opponent())
		return
	}
	s.status = Status{Phase: Terminal, Outcome: Stalemate}
	klog.Infof(ctx, "stalemate")
}

func (s *Session) colorOf(playerID string) (board.Color, error) {
	switch playerID {
	case s.players[SlotWhite]:
		return board.White, nil
	case s.players[SlotBlack]:
		return board.Black, nil
	default:
		return 0, ErrUnknownPlayer
	}
}

// PendingPromotionError is returned by Submit when a pawn has reached its
// promotion rank and no promotion piece was supplied.
type PendingPromotionError struct {
	Square board.Square
	Side   board.Color
}

func (e *PendingPromotionError) Error() string {
	return fmt.Sprintf("session: pending promotion on %v for %v", e.Square, e.Side)
}
