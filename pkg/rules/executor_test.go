package rules_test

import (
	"testing"

	"github.com/herohde/klikschaak/pkg/board"
	"github.com/herohde/klikschaak/pkg/movegen"
	"github.com/herohde/klikschaak/pkg/rules"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sq(f board.File, r board.Rank) board.Square {
	return board.NewSquare(f, r)
}

func kings(white, black board.Square) []board.Placement {
	return []board.Placement{
		{Square: white, Piece: board.Piece{Kind: board.King, Color: board.White, Pawn: board.NoPawn}},
		{Square: black, Piece: board.Piece{Kind: board.King, Color: board.Black, Pawn: board.NoPawn}},
	}
}

// TestSubmitIsDeterministic covers P1: the same position and candidate
// always yield the same notation and an equal resulting position.
func TestSubmitIsDeterministic(t *testing.T) {
	pos := board.NewInitialSetup()
	c := movegen.Candidate{From: sq(board.FileE, board.Rank2), To: sq(board.FileE, board.Rank4), Type: board.Normal}

	r1, err := rules.Execute(pos, board.White, c, lang.None[int](), lang.None[board.PieceKind]())
	require.NoError(t, err)
	r2, err := rules.Execute(pos, board.White, c, lang.None[int](), lang.None[board.PieceKind]())
	require.NoError(t, err)

	assert.Equal(t, r1.Notation, r2.Notation)
	assert.Equal(t, r1.Position.String(), r2.Position.String())
}

// TestCommittedMoverNotInCheck covers P3: every legal candidate leaves the
// mover's own king safe.
func TestCommittedMoverNotInCheck(t *testing.T) {
	pos := board.NewInitialSetup()
	c := movegen.Candidate{From: sq(board.FileE, board.Rank2), To: sq(board.FileE, board.Rank4), Type: board.Normal}

	res, err := rules.Execute(pos, board.White, c, lang.None[int](), lang.None[board.PieceKind]())
	require.NoError(t, err)
	assert.False(t, res.Position.IsInCheck(board.White))
}

// TestPinnedRookCannotExposeKing covers P4: a pseudo-legal move that would
// expose the mover's own king to check is rejected with ErrIllegalMove.
func TestPinnedRookCannotExposeKing(t *testing.T) {
	wk := sq(board.FileE, board.Rank1)
	bk := sq(board.FileE, board.Rank8)
	rook := sq(board.FileE, board.Rank2)
	pinner := sq(board.FileE, board.Rank7)

	placements := append(kings(wk, bk),
		board.Placement{Square: rook, Piece: board.Piece{Kind: board.Rook, Color: board.White, Pawn: board.NoPawn}},
		board.Placement{Square: pinner, Piece: board.Piece{Kind: board.Rook, Color: board.Black, Pawn: board.NoPawn}},
	)
	var moved [board.NumColors][board.NumPawnIDs]bool
	pos, err := board.NewPosition(placements, board.White, 0, lang.None[board.Square](), moved)
	require.NoError(t, err)

	c := movegen.Candidate{From: rook, To: sq(board.FileD, board.Rank2), Type: board.Normal}
	_, err = rules.Execute(pos, board.White, c, lang.None[int](), lang.None[board.PieceKind]())
	assert.ErrorIs(t, err, rules.ErrIllegalMove)
}

func TestRejectsWrongTurn(t *testing.T) {
	pos := board.NewInitialSetup()
	c := movegen.Candidate{From: sq(board.FileE, board.Rank7), To: sq(board.FileE, board.Rank5), Type: board.Normal}
	_, err := rules.Execute(pos, board.Black, c, lang.None[int](), lang.None[board.PieceKind]())
	assert.ErrorIs(t, err, rules.ErrNotYourTurn)
}

func TestRejectsEmptySource(t *testing.T) {
	pos := board.NewInitialSetup()
	c := movegen.Candidate{From: sq(board.FileE, board.Rank4), To: sq(board.FileE, board.Rank5), Type: board.Normal}
	_, err := rules.Execute(pos, board.White, c, lang.None[int](), lang.None[board.PieceKind]())
	assert.ErrorIs(t, err, rules.ErrNoPieceOnSource)
}

func TestRejectsGeometricallyInvalidTarget(t *testing.T) {
	pos := board.NewInitialSetup()
	c := movegen.Candidate{From: sq(board.FileE, board.Rank2), To: sq(board.FileE, board.Rank5), Type: board.Normal}
	_, err := rules.Execute(pos, board.White, c, lang.None[int](), lang.None[board.PieceKind]())
	assert.ErrorIs(t, err, rules.ErrIllegalMove)
}

// TestUnklikPromotion reconstructs scenario 3: a stacked (Rook, Pawn) on e7
// unkliks the pawn alone onto e8, promoting it while the rook stays behind.
func TestUnklikPromotion(t *testing.T) {
	wk := sq(board.FileE, board.Rank1)
	bk := sq(board.FileA, board.Rank8)
	stacked := sq(board.FileE, board.Rank7)
	dest := sq(board.FileE, board.Rank8)

	placements := append(kings(wk, bk),
		board.Placement{Square: stacked, Piece: board.Piece{Kind: board.Rook, Color: board.White, Pawn: board.NoPawn}},
		board.Placement{Square: stacked, Piece: board.Piece{Kind: board.Pawn, Color: board.White, Pawn: 4}},
	)
	var moved [board.NumColors][board.NumPawnIDs]bool
	moved[board.White][4] = true
	pos, err := board.NewPosition(placements, board.White, 0, lang.None[board.Square](), moved)
	require.NoError(t, err)

	cands := movegen.GenerateFromPiece(pos, stacked, 1) // pawn is the top piece (pushed second)
	require.True(t, hasUnklikTo(cands, dest))

	c := movegen.Candidate{From: stacked, To: dest, Type: board.Unklik, UnclickIndex: lang.Some(1)}
	res, err := rules.Execute(pos, board.White, c, lang.None[int](), lang.None[board.PieceKind]())
	require.NoError(t, err)
	pending, ok := res.Promotion.V()
	require.True(t, ok)
	assert.Equal(t, dest, pending.Square)
	assert.Nil(t, res.Position) // not committed until the promotion choice arrives

	res2, err := rules.Execute(pos, board.White, c, lang.None[int](), lang.Some(board.Queen))
	require.NoError(t, err)

	assert.True(t, res2.Position.At(stacked).Len() == 1)
	assert.Equal(t, board.Rook, res2.Position.At(stacked).At(0).Kind)
	assert.Equal(t, 1, res2.Position.At(dest).Len())
	assert.Equal(t, board.Queen, res2.Position.At(dest).At(0).Kind)
	assert.Equal(t, board.Black, res2.Position.Turn())
	assert.False(t, res2.Position.IsInCheck(board.White))
}

func hasUnklikTo(cands []movegen.Candidate, to board.Square) bool {
	for _, c := range cands {
		if c.To == to && (c.Type == board.Unklik || c.Type == board.EnPassantUnklik) {
			return true
		}
	}
	return false
}

// TestEnPassantChoiceResolvesDifferently reconstructs scenario 4: a stacked
// (Queen, Pawn) on c5 can reach the en-passant target b6 either via the
// queen's ordinary diagonal move or via the pawn's en-passant diagonal, so
// movegen collapses both into a single EnPassantChoice (§4.3). Submitting
// its two resolutions through Execute must commit visibly different
// results: Normal leaves the black victim pawn on the board, EnPassant
// removes it (§4.4, P8).
func TestEnPassantChoiceResolvesDifferently(t *testing.T) {
	wk := sq(board.FileA, board.Rank1)
	bk := sq(board.FileH, board.Rank8)
	stacked := sq(board.FileC, board.Rank5)
	ep := sq(board.FileB, board.Rank6)
	victim := sq(board.FileB, board.Rank5)

	placements := append(kings(wk, bk),
		board.Placement{Square: stacked, Piece: board.Piece{Kind: board.Queen, Color: board.White, Pawn: board.NoPawn}},
		board.Placement{Square: stacked, Piece: board.Piece{Kind: board.Pawn, Color: board.White, Pawn: 2}},
		board.Placement{Square: victim, Piece: board.Piece{Kind: board.Pawn, Color: board.Black, Pawn: 1}},
	)
	var moved [board.NumColors][board.NumPawnIDs]bool
	moved[board.White][2] = true
	moved[board.Black][1] = true
	pos, err := board.NewPosition(placements, board.White, 0, lang.Some(ep), moved)
	require.NoError(t, err)

	cands := movegen.Generate(pos, stacked)
	found := false
	for _, c := range cands {
		if c.To == ep {
			assert.Equal(t, board.EnPassantChoice, c.Type)
			found = true
		}
	}
	require.True(t, found)

	normal := movegen.Candidate{From: stacked, To: ep, Type: board.Normal}
	quiet, err := rules.Execute(pos, board.White, normal, lang.None[int](), lang.None[board.PieceKind]())
	require.NoError(t, err)
	assert.Equal(t, 2, quiet.Position.At(ep).Len())
	assert.False(t, quiet.Position.At(victim).IsEmpty())

	ep2 := movegen.Candidate{From: stacked, To: ep, Type: board.EnPassant}
	capture, err := rules.Execute(pos, board.White, ep2, lang.None[int](), lang.None[board.PieceKind]())
	require.NoError(t, err)
	assert.Equal(t, 2, capture.Position.At(ep).Len())
	assert.True(t, capture.Position.At(victim).IsEmpty())
}

// TestStalemateHasNoLegalMove is in the spirit of scenario 5: a lone White
// king has every adjacent square covered by the Black queen, and the king
// itself is not in check, so the side to move has no legal move at all.
func TestStalemateHasNoLegalMove(t *testing.T) {
	wk := sq(board.FileA, board.Rank1)
	bk := sq(board.FileC, board.Rank1)
	bq := sq(board.FileB, board.Rank3)

	placements := append(kings(wk, bk),
		board.Placement{Square: bq, Piece: board.Piece{Kind: board.Queen, Color: board.Black, Pawn: board.NoPawn}},
	)
	var moved [board.NumColors][board.NumPawnIDs]bool
	pos, err := board.NewPosition(placements, board.White, 0, lang.None[board.Square](), moved)
	require.NoError(t, err)

	assert.False(t, pos.IsInCheck(board.White))
	assert.False(t, rules.HasLegalMove(pos, board.White))
}
