package board

import (
	"github.com/seekerror/stdlib/pkg/lang"
)

// MoveRecord is a fully-resolved move: a Candidate plus whatever choice
// context the caller supplied (which stacked piece moves, which piece a
// promoting pawn becomes). Apply is total over a MoveRecord — it never
// rejects one, because legality (§4.4) has already been checked by the time
// pkg/rules builds one.
type MoveRecord struct {
	From, To     Square
	Type         MoveType
	UnclickIndex lang.Optional[int]
	Promotion    PieceKind // NoPieceKind unless a pawn promotes on this move
}

// CastleSquares returns the king's origin/destination and the corner rook's
// origin/destination for a castle of the given color and side.
func CastleSquares(c Color, kingside bool) (kingFrom, kingTo, rookFrom, rookTo Square) {
	rank := Rank1
	if c == Black {
		rank = Rank8
	}
	if kingside {
		kingFrom, _ = SquareAt(int(FileA-FileE), int(rank)) // e-file
		kingTo, _ = SquareAt(int(FileA-FileG), int(rank))   // g-file
		rookFrom, _ = SquareAt(int(FileA-FileH), int(rank)) // h-file
		rookTo, _ = SquareAt(int(FileA-FileF), int(rank))   // f-file
		return
	}
	kingFrom, _ = SquareAt(int(FileA-FileE), int(rank)) // e-file
	kingTo, _ = SquareAt(int(FileA-FileC), int(rank))   // c-file
	rookFrom, _ = SquareAt(int(FileA-FileA), int(rank)) // a-file
	rookTo, _ = SquareAt(int(FileA-FileD), int(rank))   // d-file
	return
}

// Apply mechanically performs rec against p and returns a new Position; p is
// left untouched. This is the single place side-to-move flips, en-passant is
// rewritten, castling rights are cleared and pawn identities are marked
// moved (§4.4 "post-application bookkeeping"). note is the notation token
// pkg/rules already computed for this record; it is appended to history.
func (p *Position) Apply(rec MoveRecord, note string) *Position {
	next := p.Copy()
	next.history = append(next.history, MoveLogEntry{Color: p.turn, Notation: note})

	mover := p.turn
	var moved []Piece // pieces that changed square this move, for pawn-identity bookkeeping

	switch rec.Type {
	case Normal, EnPassant:
		src := p.board[rec.From]
		next.board[rec.From] = Stack{}
		next.board[rec.To] = promoteStack(src, rec, mover)
		moved = append(moved, src.Pieces()...)
		if rec.Type == EnPassant {
			next.captureBehind(rec.To, mover)
		}

	case Klik:
		src := p.board[rec.From]
		dest := p.board[rec.To]
		stacked := NewStack(dest.At(0), src.At(0))
		next.board[rec.To] = promoteStack(stacked, rec, mover)
		next.board[rec.From] = Stack{}
		moved = append(moved, src.At(0))

	case Unklik, EnPassantUnklik:
		src := p.board[rec.From]
		idx, _ := rec.UnclickIndex.V()
		moving := src.At(idx)
		remaining := src.Other(idx)
		next.board[rec.To] = promoteStack(NewStack(moving), rec, mover)
		next.board[rec.From] = NewStack(remaining)
		moved = append(moved, moving)
		if rec.Type == EnPassantUnklik {
			next.captureBehind(rec.To, mover)
		}

	case UnklikKlik:
		src := p.board[rec.From]
		idx, _ := rec.UnclickIndex.V()
		moving := src.At(idx)
		remaining := src.Other(idx)
		dest := p.board[rec.To]
		next.board[rec.To] = promoteStack(NewStack(dest.At(0), moving), rec, mover)
		next.board[rec.From] = NewStack(remaining)
		moved = append(moved, moving)

	default:
		if rec.Type.IsCastle() {
			moved = next.applyCastle(p, rec.Type, mover)
		}
	}

	for _, m := range moved {
		if m.Kind == Pawn && m.Pawn != NoPawn {
			next.moved[mover][m.Pawn] = true
		}
	}

	next.turn = mover.Opponent()
	next.enpassant = lang.None[Square]()
	if isDoublePush(p, rec, mover) {
		between, _ := rec.From.Offset(0, signOf(rec.To.RankIndex()-rec.From.RankIndex()))
		next.enpassant = lang.Some(between)
	}

	next.sweepCastlingRights(mover, rec)
	return next
}

// applyCastle performs a castling move and returns the pieces that changed
// square for pawn-identity bookkeeping; it always returns nil. The eight
// concrete variants place the rook per the rook-landing table; for
// CastleKChoice/CastleQChoice only the king moves and the rook square is
// left as it was.
func (n *Position) applyCastle(old *Position, t MoveType, mover Color) []Piece {
	kingside := t.IsKingside()
	kingFrom, kingTo, rookFrom, rookTo := CastleSquares(mover, kingside)

	king := old.board[kingFrom].At(0)
	n.board[kingFrom] = Stack{}
	n.board[kingTo] = NewStack(king)

	rookStack := old.board[rookFrom]
	var rook, companion Piece
	hasCompanion := false
	for i := 0; i < rookStack.Len(); i++ {
		if rookStack.At(i).Kind == Rook {
			rook = rookStack.At(i)
		} else {
			companion = rookStack.At(i)
			hasCompanion = true
		}
	}

	switch t {
	case CastleK, CastleQ:
		if hasCompanion {
			n.board[rookFrom] = NewStack(companion)
		} else {
			n.board[rookFrom] = Stack{}
		}
		n.board[rookTo] = NewStack(rook)

	case CastleKKlik, CastleQKlik:
		resident := old.board[rookTo].At(0)
		n.board[rookFrom] = Stack{}
		n.board[rookTo] = NewStack(resident, rook)

	case CastleKUnklikKlik, CastleQUnklikKlik:
		resident := old.board[rookTo].At(0)
		n.board[rookFrom] = NewStack(companion)
		n.board[rookTo] = NewStack(resident, rook)

	case CastleKBoth, CastleQBoth:
		n.board[rookFrom] = Stack{}
		n.board[rookTo] = rookStack
	}

	return nil
}

// captureBehind removes the en-passant victim: the enemy pawn standing
// directly behind (from mover's perspective) the destination square. If the
// victim is part of a stack only the pawn is removed; its companion stays.
func (n *Position) captureBehind(dest Square, mover Color) {
	dr := -1
	if mover == Black {
		dr = 1
	}
	victimSq, ok := dest.Offset(0, dr)
	if !ok {
		return
	}
	s := n.board[victimSq]
	switch s.Len() {
	case 1:
		n.board[victimSq] = Stack{}
	case 2:
		for i := 0; i < 2; i++ {
			if s.At(i).Kind == Pawn && s.At(i).Color != mover {
				n.board[victimSq] = NewStack(s.Other(i))
				return
			}
		}
	}
}

// promoteStack replaces the mover's pawn within s with rec.Promotion when s
// lands on the promotion rank with a promotion requested. A non-pawn
// companion carried along is never replaced (§4.4, P7).
func promoteStack(s Stack, rec MoveRecord, mover Color) Stack {
	if rec.Promotion == NoPieceKind {
		return s
	}
	if rec.To.Rank() != PromotionRank(mover) {
		return s
	}
	var out []Piece
	for i := 0; i < s.Len(); i++ {
		pc := s.At(i)
		if pc.Kind == Pawn && pc.Color == mover {
			pc.Kind = rec.Promotion
			pc.Pawn = NoPawn
		}
		out = append(out, pc)
	}
	return NewStack(out...)
}

// isDoublePush reports whether rec is a straight, same-file, two-square pawn
// push onto a previously empty square (§4.4 bookkeeping) — the trigger for
// setting an en-passant target. Unklik is included: a pawn carried to its
// starting rank inside a stack and then unklicked straight ahead two squares
// is just as much a double push as one made directly from a singleton.
func isDoublePush(old *Position, rec MoveRecord, mover Color) bool {
	switch rec.Type {
	case Normal, Klik, Unklik:
	default:
		return false
	}
	if rec.From.File() != rec.To.File() {
		return false
	}
	dr := rec.To.RankIndex() - rec.From.RankIndex()
	if dr != 2 && dr != -2 {
		return false
	}
	if !old.board[rec.To].IsEmpty() {
		return false
	}

	src := old.board[rec.From]
	if rec.Type == Unklik {
		idx, ok := rec.UnclickIndex.V()
		if !ok {
			return false
		}
		moving := src.At(idx)
		return moving.Kind == Pawn && moving.Color == mover
	}
	for i := 0; i < src.Len(); i++ {
		if src.At(i).Kind == Pawn && src.At(i).Color == mover {
			return true
		}
	}
	return false
}

func signOf(i int) int {
	if i < 0 {
		return -1
	}
	return 1
}

// sweepCastlingRights clears any right whose king or corner rook is no
// longer in place, whether because it moved, was captured, or was displaced
// by a stack mutation (§4.4: "cleared for any right whose king or corner
// rook was either the mover or captured/displaced").
func (n *Position) sweepCastlingRights(mover Color, rec MoveRecord) {
	if rec.Type.IsCastle() {
		n.castling = n.castling.Clear(mover)
	}

	corners := []struct {
		c        Color
		kingside bool
		sq       Square
	}{
		{White, true, mustSquare(FileH, Rank1)},
		{White, false, mustSquare(FileA, Rank1)},
		{Black, true, mustSquare(FileH, Rank8)},
		{Black, false, mustSquare(FileA, Rank8)},
	}
	for _, cr := range corners {
		right := Right(cr.c, cr.kingside)
		if !n.castling.IsAllowed(right) {
			continue
		}
		s := n.board[cr.sq]
		hasRook := false
		for i := 0; i < s.Len(); i++ {
			if s.At(i).Kind == Rook && s.At(i).Color == cr.c {
				hasRook = true
			}
		}
		if !hasRook {
			n.castling &^= right
		}
	}

	kingHome, _, _, _ := CastleSquares(mover, true)
	if king, ok := n.KingSquare(mover); ok && king != kingHome {
		n.castling = n.castling.Clear(mover)
	}
}

func mustSquare(f File, r Rank) Square {
	return NewSquare(f, r)
}
