package board

// RookDirections, BishopDirections, KnightOffsets and KingOffsets are the
// geometry tables for sliding and leaping pieces, shared with pkg/movegen so
// the pseudo-move generator and the attack oracle agree on piece geometry by
// construction.
var (
	RookDirections   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	BishopDirections = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	KnightOffsets    = [8][2]int{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	KingOffsets = [8][2]int{
		{1, 0}, {1, 1}, {0, 1}, {-1, 1},
		{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	}
)

// IsAttacked returns true iff any piece of color `by`, anywhere on the
// board, can pseudo-capture sq. Stacked pieces attack as if every contained
// piece radiated its own geometry independently; any one match suffices.
// Pins are irrelevant here, per §4.2.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	forward := 1
	if by == Black {
		forward = -1
	}
	for _, df := range [2]int{-1, 1} {
		if from, ok := sq.Offset(df, -forward); ok {
			if pc, found := p.pieceAt(from, by, Pawn); found && pc.Kind == Pawn {
				return true
			}
		}
	}

	for _, o := range KnightOffsets {
		if from, ok := sq.Offset(o[0], o[1]); ok {
			if pc, found := p.pieceAt(from, by, Knight); found && pc.Kind == Knight {
				return true
			}
		}
	}

	for _, o := range KingOffsets {
		if from, ok := sq.Offset(o[0], o[1]); ok {
			if pc, found := p.pieceAt(from, by, King); found && pc.Kind == King {
				return true
			}
		}
	}

	if p.rayAttacked(sq, by, RookDirections[:], Rook) {
		return true
	}
	if p.rayAttacked(sq, by, BishopDirections[:], Bishop) {
		return true
	}
	return false
}

// rayAttacked casts from sq along each direction and reports whether the
// first occupant found in that direction is a `by`-colored piece of kind
// straightKind or Queen. Any square along the way, of either color, blocks
// further travel — a stack blocks exactly like a singleton.
func (p *Position) rayAttacked(sq Square, by Color, dirs [][2]int, straightKind PieceKind) bool {
	for _, d := range dirs {
		cur := sq
		for {
			next, ok := cur.Offset(d[0], d[1])
			if !ok {
				break
			}
			cur = next
			s := p.board[cur]
			if s.IsEmpty() {
				continue
			}
			if c, _ := s.Color(); c == by {
				for i := 0; i < s.Len(); i++ {
					k := s.At(i).Kind
					if k == straightKind || k == Queen {
						return true
					}
				}
			}
			break
		}
	}
	return false
}

// pieceAt returns a `by`-colored occupant of sq of the given kind, if any.
// Every occupant of a stacked square is examined, so a piece is found even
// when it is not the bottom one.
func (p *Position) pieceAt(sq Square, by Color, kind PieceKind) (Piece, bool) {
	s := p.board[sq]
	for i := 0; i < s.Len(); i++ {
		if s.At(i).Color == by && s.At(i).Kind == kind {
			return s.At(i), true
		}
	}
	return Piece{}, false
}

// IsInCheck returns true iff color c's king is attacked by the opponent.
func (p *Position) IsInCheck(c Color) bool {
	sq, ok := p.KingSquare(c)
	if !ok {
		return false
	}
	return p.IsAttacked(sq, c.Opponent())
}
