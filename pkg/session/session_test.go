package session_test

import (
	"context"
	"testing"

	"github.com/herohde/klikschaak/pkg/board"
	"github.com/herohde/klikschaak/pkg/movegen"
	"github.com/herohde/klikschaak/pkg/session"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReadySession(t *testing.T) *session.Session {
	t.Helper()
	ctx := context.Background()
	s := session.New(ctx)
	require.NoError(t, s.Join(session.SlotWhite, "alice"))
	require.NoError(t, s.Join(session.SlotBlack, "bob"))
	require.NoError(t, s.Start(ctx))
	return s
}

func noPromo() lang.Optional[board.PieceKind] { return lang.None[board.PieceKind]() }
func noIdx() lang.Optional[int]                { return lang.None[int]() }

// TestScenarioOneOpeningSequence plays the trivial three-move sequence from
// scenario 1: both sides push their e-pawn and White develops the g1
// knight, turn order alternates and every Submit succeeds.
func TestScenarioOneOpeningSequence(t *testing.T) {
	ctx := context.Background()
	s := newReadySession(t)

	moves := []struct {
		player string
		from   board.Square
		to     board.Square
		typ    board.MoveType
	}{
		{"alice", board.NewSquare(board.FileE, board.Rank2), board.NewSquare(board.FileE, board.Rank4), board.Normal},
		{"bob", board.NewSquare(board.FileE, board.Rank7), board.NewSquare(board.FileE, board.Rank5), board.Normal},
		{"alice", board.NewSquare(board.FileG, board.Rank1), board.NewSquare(board.FileF, board.Rank3), board.Normal},
	}
	for _, m := range moves {
		c := movegen.Candidate{From: m.from, To: m.to, Type: m.typ}
		_, err := s.Submit(ctx, m.player, c, noIdx(), noPromo())
		require.NoError(t, err)
	}
	assert.Equal(t, session.Active, s.Status().Phase)
}

func TestSubmitRejectsOutOfTurnPlayer(t *testing.T) {
	ctx := context.Background()
	s := newReadySession(t)

	c := movegen.Candidate{From: board.NewSquare(board.FileE, board.Rank7), To: board.NewSquare(board.FileE, board.Rank5), Type: board.Normal}
	_, err := s.Submit(ctx, "bob", c, noIdx(), noPromo())
	assert.Error(t, err)
}

func TestSubmitBeforeStartIsRejected(t *testing.T) {
	ctx := context.Background()
	s := session.New(ctx)
	require.NoError(t, s.Join(session.SlotWhite, "alice"))
	require.NoError(t, s.Join(session.SlotBlack, "bob"))

	c := movegen.Candidate{From: board.NewSquare(board.FileE, board.Rank2), To: board.NewSquare(board.FileE, board.Rank4), Type: board.Normal}
	_, err := s.Submit(ctx, "alice", c, noIdx(), noPromo())
	assert.Error(t, err)
}

func TestResignEndsSessionForOpponent(t *testing.T) {
	ctx := context.Background()
	s := newReadySession(t)

	require.NoError(t, s.Resign(ctx, "alice"))
	st := s.Status()
	assert.Equal(t, session.Terminal, st.Phase)
	assert.Equal(t, session.Resigned, st.Outcome)
	winner, ok := st.Winner.V()
	require.True(t, ok)
	assert.Equal(t, board.Black, winner)

	c := movegen.Candidate{From: board.NewSquare(board.FileE, board.Rank7), To: board.NewSquare(board.FileE, board.Rank5), Type: board.Normal}
	_, err := s.Submit(ctx, "bob", c, noIdx(), noPromo())
	assert.Error(t, err)
}

func TestDrawOfferAcceptedEndsSessionInDraw(t *testing.T) {
	ctx := context.Background()
	s := newReadySession(t)

	require.NoError(t, s.OfferDraw("alice"))
	require.NoError(t, s.RespondDraw(ctx, "bob", true))

	st := s.Status()
	assert.Equal(t, session.Terminal, st.Phase)
	assert.Equal(t, session.DrawAgreed, st.Outcome)
}

func TestDrawOfferDeclinedLeavesSessionActive(t *testing.T) {
	ctx := context.Background()
	s := newReadySession(t)

	require.NoError(t, s.OfferDraw("alice"))
	require.NoError(t, s.RespondDraw(ctx, "bob", false))
	assert.Equal(t, session.Active, s.Status().Phase)

	// the offer was consumed, so a second accept with no fresh offer fails.
	err := s.RespondDraw(ctx, "bob", true)
	assert.ErrorIs(t, err, session.ErrNoDrawOffer)
}

func TestOfferingPlayerCannotAcceptTheirOwnDraw(t *testing.T) {
	ctx := context.Background()
	s := newReadySession(t)

	require.NoError(t, s.OfferDraw("alice"))
	err := s.RespondDraw(ctx, "alice", true)
	assert.ErrorIs(t, err, session.ErrNoDrawOffer)
}

// TestPendingPromotionSurfacesThenAutoResolvesWithQueen resumes a position
// one push from promotion and covers the auto-promote variant option: Submit
// commits immediately with a queen instead of returning a
// PendingPromotionError.
func TestPendingPromotionSurfacesThenAutoResolvesWithQueen(t *testing.T) {
	ctx := context.Background()
	// White king h1, black king a8 (clear of the promotion square), white
	// rook+pawn(id4) stacked on e7; the pawn unkliks to e8 and promotes.
	const pos = "k7/4(RP)3/8/8/8/8/8/7K w - - 0 1 e7:4 w:4;b:"
	s, err := session.Resume(ctx, pos, "alice", "bob", session.WithAutoPromoteToQueen())
	require.NoError(t, err)

	stacked := board.NewSquare(board.FileE, board.Rank7)
	dest := board.NewSquare(board.FileE, board.Rank8)
	c := movegen.Candidate{From: stacked, To: dest, Type: board.Unklik, UnclickIndex: lang.Some(1)}

	notationToken, err := s.Submit(ctx, "alice", c, noIdx(), noPromo())
	require.NoError(t, err)
	assert.NotEmpty(t, notationToken)
	// The new queen on e8 and the rook left on e7 mate the black king on a8.
	assert.Equal(t, session.Terminal, s.Status().Phase)

	assert.Contains(t, s.PositionString(), "Q")
}

// TestStalemateDeclaredTerminal resumes a position one ply from stalemate:
// black's queen walks from h3 to b3, covering every square around the lone
// white king at a1 (a2, b1, b2) without itself giving check, and the session
// must settle itself into Terminal/Stalemate with no winner once white's
// turn comes up empty, matching scenario 5.
func TestStalemateDeclaredTerminal(t *testing.T) {
	ctx := context.Background()
	const pos = "8/8/8/8/8/7q/8/K1k5 b - - 0 1 - -"
	s, err := session.Resume(ctx, pos, "alice", "bob")
	require.NoError(t, err)

	c := movegen.Candidate{From: board.NewSquare(board.FileH, board.Rank3), To: board.NewSquare(board.FileB, board.Rank3), Type: board.Normal}
	_, err = s.Submit(ctx, "bob", c, noIdx(), noPromo())
	require.NoError(t, err)

	st := s.Status()
	assert.Equal(t, session.Terminal, st.Phase)
	assert.Equal(t, session.Stalemate, st.Outcome)
	_, hasWinner := st.Winner.V()
	assert.False(t, hasWinner)
}
