package movegen

import "github.com/herohde/klikschaak/pkg/board"

// castlingCandidates returns the castling candidates available to the king
// on `from`, per the preconditions and the rook-landing table of §4.3. `from`
// must hold the color's king; castlingCandidates is a no-op if it is not on
// its home square.
func castlingCandidates(pos *board.Position, from board.Square, mover board.Color) []Candidate {
	homeFrom, _, _, _ := board.CastleSquares(mover, true)
	if from != homeFrom {
		return nil
	}

	var out []Candidate
	for _, kingside := range []bool{true, false} {
		if c, ok := castlingCandidate(pos, mover, kingside); ok {
			out = append(out, c)
		}
	}
	return out
}

func castlingCandidate(pos *board.Position, mover board.Color, kingside bool) (Candidate, bool) {
	right := board.Right(mover, kingside)
	if !pos.Castling().IsAllowed(right) {
		return Candidate{}, false
	}

	kingFrom, kingTo, rookFrom, rookTo := board.CastleSquares(mover, kingside)

	between := walkedSquares(kingFrom, kingTo)
	for _, sq := range between {
		if sq != kingTo && !pos.At(sq).IsEmpty() {
			return Candidate{}, false
		}
	}
	if !kingside {
		// Queenside also requires the b-file square to be empty for the
		// rook's travel, even though the king never stands on it.
		if b, ok := rookFrom.Offset(1, 0); ok && !pos.At(b).IsEmpty() {
			return Candidate{}, false
		}
	}
	if !pos.At(kingTo).IsEmpty() {
		return Candidate{}, false
	}

	opp := mover.Opponent()
	if pos.IsAttacked(kingFrom, opp) {
		return Candidate{}, false
	}
	for _, sq := range between {
		if pos.IsAttacked(sq, opp) {
			return Candidate{}, false
		}
	}

	rookStack := pos.At(rookFrom)
	hasRook := false
	hasCompanion := false
	for i := 0; i < rookStack.Len(); i++ {
		switch {
		case rookStack.At(i).Kind == board.Rook && rookStack.At(i).Color == mover:
			hasRook = true
		default:
			hasCompanion = true
		}
	}
	if !hasRook {
		return Candidate{}, false
	}

	dest := pos.At(rookTo)
	destEmpty := dest.IsEmpty()
	destOwnSingleton := !destEmpty && dest.Len() == 1 && func() bool { c, _ := dest.Color(); return c == mover }() && !dest.HasKing()
	if !destEmpty && !destOwnSingleton {
		return Candidate{}, false
	}

	var t board.MoveType
	switch {
	case !hasCompanion && destEmpty:
		t = kindOf(kingside, board.CastleK, board.CastleQ)
	case !hasCompanion && destOwnSingleton:
		t = kindOf(kingside, board.CastleKKlik, board.CastleQKlik)
	case hasCompanion && destEmpty:
		t = kindOf(kingside, board.CastleKChoice, board.CastleQChoice)
	default: // hasCompanion && destOwnSingleton
		t = kindOf(kingside, board.CastleKUnklikKlik, board.CastleQUnklikKlik)
	}

	return Candidate{From: kingFrom, To: kingTo, Type: t}, true
}

func kindOf(kingside bool, k, q board.MoveType) board.MoveType {
	if kingside {
		return k
	}
	return q
}

// walkedSquares returns every square strictly between from and to, plus to
// itself, in travel order.
func walkedSquares(from, to board.Square) []board.Square {
	df := to.FileIndex() - from.FileIndex()
	step := 1
	if df < 0 {
		step = -1
	}
	var out []board.Square
	cur := from
	for cur != to {
		next, ok := cur.Offset(step, 0)
		if !ok {
			break
		}
		out = append(out, next)
		cur = next
	}
	return out
}
