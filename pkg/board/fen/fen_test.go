package fen_test

import (
	"testing"

	"github.com/herohde/klikschaak/pkg/board"
	"github.com/herohde/klikschaak/pkg/board/fen"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []string{
		fen.Initial,
		"4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1 d3:3,e4:4,f4:5,e5:6,c7:2,d7:3,e7:4,f7:5 -",
	}

	for _, tt := range tests {
		p, half, full, err := fen.Decode(tt)
		require.NoError(t, err)

		assert.Equal(t, tt, fen.Encode(p, half, full))
	}
}

func TestDecodeInitialSetup(t *testing.T) {
	p, half, full, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	assert.Equal(t, 0, half)
	assert.Equal(t, 1, full)
	assert.Equal(t, board.White, p.Turn())
	assert.Equal(t, board.FullCastingRights, p.Castling())
	assert.False(t, p.HasPawnMoved(board.White, 0))
}

func TestDecodeRejectsMissingPawnIdentity(t *testing.T) {
	_, _, _, err := fen.Decode("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 - -")
	assert.Error(t, err)
}

func TestDecodeRejectsWrongFieldCount(t *testing.T) {
	_, _, _, err := fen.Decode("8/8/8/8/8/8/8/8 w - - 0 1")
	assert.Error(t, err)
}

// TestStackedSquareRoundTrip builds a position with a clicked pawn pair by
// hand and checks that Encode/Decode preserves both the stack and the
// moved-pawn set, which cannot be derived from the board alone (P2, P6).
func TestStackedSquareRoundTrip(t *testing.T) {
	wk := board.NewSquare(board.FileE, board.Rank1)
	bk := board.NewSquare(board.FileE, board.Rank8)
	stacked := board.NewSquare(board.FileD, board.Rank4)

	placements := []board.Placement{
		{Square: wk, Piece: board.Piece{Kind: board.King, Color: board.White, Pawn: board.NoPawn}},
		{Square: bk, Piece: board.Piece{Kind: board.King, Color: board.Black, Pawn: board.NoPawn}},
		{Square: stacked, Piece: board.Piece{Kind: board.Pawn, Color: board.White, Pawn: 3}},
	}
	stackedPiece := board.Piece{Kind: board.Pawn, Color: board.White, Pawn: 4}
	placements = append(placements, board.Placement{Square: stacked, Piece: stackedPiece})

	var moved [board.NumColors][board.NumPawnIDs]bool
	moved[board.White][3] = true
	moved[board.White][4] = true

	pos, err := board.NewPosition(placements, board.White, 0, lang.None[board.Square](), moved)
	require.NoError(t, err)
	require.True(t, pos.At(stacked).IsStacked())

	s := fen.Encode(pos, 0, 1)

	decoded, half, full, err := fen.Decode(s)
	require.NoError(t, err)
	assert.Equal(t, 0, half)
	assert.Equal(t, 1, full)
	assert.True(t, decoded.At(stacked).IsStacked())
	assert.True(t, decoded.HasPawnMoved(board.White, 3))
	assert.True(t, decoded.HasPawnMoved(board.White, 4))
	assert.False(t, decoded.HasPawnMoved(board.White, 0))
	assert.Equal(t, s, fen.Encode(decoded, half, full))
}
