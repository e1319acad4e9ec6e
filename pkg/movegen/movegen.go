// Package movegen produces tagged pseudo-move candidates from a Klikschaak
// position (§4.3). It knows nothing about check: pkg/rules filters its
// output for self-check before a candidate may be committed.
package movegen

import (
	"github.com/herohde/klikschaak/pkg/board"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Candidate is a single pseudo-legal move: a source/destination pair tagged
// with the move type that explains how the stacks involved are mutated, and
// which stacked piece moves when the source is a two-piece stack.
type Candidate struct {
	From, To     board.Square
	Type         board.MoveType
	UnclickIndex lang.Optional[int]
}

// Generate produces whole-square candidates from square `from`: the
// occupying stack is treated as a single moving unit (§4.3 "whole-square
// generation"). This is the default selection a caller offers the player
// before any unclick choice is made.
func Generate(pos *board.Position, from board.Square) []Candidate {
	s := pos.At(from)
	if s.IsEmpty() {
		return nil
	}
	mover, _ := s.Color()
	if mover != pos.Turn() {
		return nil
	}

	var out []Candidate
	if s.HasKing() {
		out = append(out, castlingCandidates(pos, from, mover)...)
	}
	if s.Len() == 1 {
		out = append(out, singletonCandidates(pos, from, s.At(0), mover)...)
	} else {
		out = append(out, stackedWholeSquareCandidates(pos, from, s, mover)...)
	}
	return mergeEnPassant(out)
}

// singletonCandidates handles a one-piece square, where Klik is possible:
// the destination may be an empty/enemy square (Normal, or EnPassant for a
// pawn's diagonal onto the ep target) or a friendly singleton (Klik).
func singletonCandidates(pos *board.Position, from board.Square, pc board.Piece, mover board.Color) []Candidate {
	var out []Candidate

	// addMoveOrKlik classifies a target square that, by the piece's own
	// geometry, is either an ordinary move/capture or a click onto a
	// friendly singleton. It must not be used for a pawn's diagonal, which
	// can only capture or en passant — never move to an empty square.
	addMoveOrKlik := func(to board.Square) {
		dest := pos.At(to)
		if dest.IsEmpty() {
			out = append(out, Candidate{From: from, To: to, Type: board.Normal})
			return
		}
		if destColor, _ := dest.Color(); destColor != mover {
			out = append(out, Candidate{From: from, To: to, Type: board.Normal})
			return
		}
		if dest.Len() == 1 && !dest.HasKing() && pc.Kind != board.King {
			out = append(out, Candidate{From: from, To: to, Type: board.Klik})
		}
	}

	if pc.Kind == board.Pawn {
		for _, to := range pawnPushTargets(pos, from, mover, pc.Pawn) {
			dest := pos.At(to)
			if dest.IsEmpty() {
				out = append(out, Candidate{From: from, To: to, Type: board.Normal})
				continue
			}
			if destColor, _ := dest.Color(); destColor == mover && dest.Len() == 1 && !dest.HasKing() {
				out = append(out, Candidate{From: from, To: to, Type: board.Klik})
			}
			// enemy-occupied or friendly-stacked/king push target: blocked, no candidate.
		}
		for _, to := range pawnDiagTargets(pos, from, mover) {
			dest := pos.At(to)
			if !dest.IsEmpty() {
				if destColor, _ := dest.Color(); destColor != mover {
					out = append(out, Candidate{From: from, To: to, Type: board.Normal})
				}
				continue
			}
			if ep, ok := pos.EnPassant(); ok && to == ep {
				out = append(out, Candidate{From: from, To: to, Type: board.EnPassant})
			}
		}
		return out
	}

	for _, to := range pieceTargets(pos, from, pc, mover) {
		addMoveOrKlik(to)
	}
	return out
}

// stackedWholeSquareCandidates handles a two-piece square: Klik is
// impossible (the source is already stacked), so every target collapses to
// Normal or EnPassant, reached by the union of both occupants' geometry. The
// promotion-carriage rule (§4.3, P7) discards a target on the promotion rank
// that only the non-pawn occupant's geometry reaches.
func stackedWholeSquareCandidates(pos *board.Position, from board.Square, s board.Stack, mover board.Color) []Candidate {
	hasPawn, hasNonPawn := false, false
	for i := 0; i < s.Len(); i++ {
		if s.At(i).Kind == board.Pawn {
			hasPawn = true
		} else {
			hasNonPawn = true
		}
	}

	type reach struct {
		viaPawn, viaNonPawn bool
		ep                  bool
	}
	byTo := map[board.Square]*reach{}
	var order []board.Square
	mark := func(to board.Square, isPawn, ep bool) {
		r, ok := byTo[to]
		if !ok {
			r = &reach{}
			byTo[to] = r
			order = append(order, to)
		}
		if isPawn {
			r.viaPawn = true
		} else {
			r.viaNonPawn = true
		}
		r.ep = r.ep || ep
	}

	for i := 0; i < s.Len(); i++ {
		pc := s.At(i)
		if pc.Kind == board.Pawn {
			for _, to := range pawnPushTargets(pos, from, mover, pc.Pawn) {
				if pos.At(to).IsEmpty() {
					mark(to, true, false)
				}
			}
			for _, to := range pawnDiagTargets(pos, from, mover) {
				dest := pos.At(to)
				if !dest.IsEmpty() {
					if c, _ := dest.Color(); c != mover {
						mark(to, true, false)
					}
					continue
				}
				if ep, ok := pos.EnPassant(); ok && to == ep {
					mark(to, true, true)
				}
			}
			continue
		}
		for _, to := range pieceTargets(pos, from, pc, mover) {
			dest := pos.At(to)
			if dest.IsEmpty() {
				mark(to, false, false)
				continue
			}
			if c, _ := dest.Color(); c != mover {
				mark(to, false, false)
			}
			// own-color destination: unreachable for a stacked source (no Klik).
		}
	}

	var out []Candidate
	for _, to := range order {
		r := byTo[to]
		if hasPawn && hasNonPawn && to.Rank() == board.PromotionRank(mover) && !r.viaPawn {
			continue // only the non-pawn's geometry reaches the promotion rank here
		}
		if r.ep {
			out = append(out, Candidate{From: from, To: to, Type: board.EnPassant})
			if !r.viaNonPawn {
				continue // no competing ordinary move to this square
			}
		}
		if !r.ep || r.viaNonPawn {
			out = append(out, Candidate{From: from, To: to, Type: board.Normal})
		}
	}
	return out
}

// GenerateFromPiece produces per-piece candidates from a two-piece stack at
// `from`, naming one of the two occupants by index (§4.3 "per-piece
// generation"). It is meaningless and returns nil for a singleton or empty
// square.
func GenerateFromPiece(pos *board.Position, from board.Square, index int) []Candidate {
	s := pos.At(from)
	if !s.IsStacked() || index < 0 || index > 1 {
		return nil
	}
	moving := s.At(index)
	if moving.Color != pos.Turn() {
		return nil
	}

	var targets []board.Square
	if moving.Kind == board.Pawn {
		targets = append(targets, pawnPushTargets(pos, from, moving.Color, moving.Pawn)...)
		targets = append(targets, pawnDiagTargets(pos, from, moving.Color)...)
	} else {
		targets = pieceTargets(pos, from, moving, moving.Color)
	}

	var out []Candidate
	for _, to := range targets {
		dest := pos.At(to)

		if moving.Kind == board.Pawn {
			diagonal := from.FileIndex() != to.FileIndex()

			if dest.IsEmpty() {
				switch {
				case diagonal:
					if ep, ok := pos.EnPassant(); ok && to == ep {
						out = append(out, Candidate{From: from, To: to, Type: board.EnPassantUnklik, UnclickIndex: lang.Some(index)})
					}
				default:
					out = append(out, Candidate{From: from, To: to, Type: board.Unklik, UnclickIndex: lang.Some(index)})
				}
				continue
			}

			destColor, _ := dest.Color()
			switch {
			case destColor != moving.Color && diagonal:
				out = append(out, Candidate{From: from, To: to, Type: board.Unklik, UnclickIndex: lang.Some(index)})
			case destColor == moving.Color && !diagonal && dest.Len() == 1 && !dest.HasKing():
				out = append(out, Candidate{From: from, To: to, Type: board.UnklikKlik, UnclickIndex: lang.Some(index)})
			}
			continue
		}

		if dest.IsEmpty() {
			out = append(out, Candidate{From: from, To: to, Type: board.Unklik, UnclickIndex: lang.Some(index)})
			continue
		}
		destColor, _ := dest.Color()
		if destColor != moving.Color {
			out = append(out, Candidate{From: from, To: to, Type: board.Unklik, UnclickIndex: lang.Some(index)})
			continue
		}
		if dest.Len() == 1 && !dest.HasKing() && moving.Kind != board.King {
			out = append(out, Candidate{From: from, To: to, Type: board.UnklikKlik, UnclickIndex: lang.Some(index)})
		}
	}
	return out
}

// pieceTargets returns every square a non-pawn piece could pseudo-reach by
// its own geometry, including a square blocked by a friendly occupant (the
// caller decides whether that makes it a Klik candidate, or discards it).
func pieceTargets(pos *board.Position, from board.Square, pc board.Piece, mover board.Color) []board.Square {
	switch pc.Kind {
	case board.Knight:
		return leaperTargets(from, board.KnightOffsets[:])
	case board.King:
		return leaperTargets(from, board.KingOffsets[:])
	case board.Bishop:
		return sliderTargets(pos, from, board.BishopDirections[:])
	case board.Rook:
		return sliderTargets(pos, from, board.RookDirections[:])
	case board.Queen:
		out := sliderTargets(pos, from, board.BishopDirections[:])
		return append(out, sliderTargets(pos, from, board.RookDirections[:])...)
	default:
		return nil
	}
}

func leaperTargets(from board.Square, offsets [][2]int) []board.Square {
	var out []board.Square
	for _, o := range offsets {
		if to, ok := from.Offset(o[0], o[1]); ok {
			out = append(out, to)
		}
	}
	return out
}

// sliderTargets casts a ray from `from` in each direction, stopping after
// (and including) the first occupied square, friendly or enemy.
func sliderTargets(pos *board.Position, from board.Square, dirs [][2]int) []board.Square {
	var out []board.Square
	for _, d := range dirs {
		cur := from
		for {
			next, ok := cur.Offset(d[0], d[1])
			if !ok {
				break
			}
			out = append(out, next)
			if !pos.At(next).IsEmpty() {
				break
			}
			cur = next
		}
	}
	return out
}

// pawnPushTargets returns the pawn's straight-ahead push targets: always the
// single square, plus the double-push square when `from` is the starting
// rank and the pawn's identity has never moved. Identity, not rank, is what
// the double-push right tracks (§3, glossary "pawn identity"): a pawn
// carried back to its starting rank by a click/unclick round trip does not
// regain the right (P6).
func pawnPushTargets(pos *board.Position, from board.Square, mover board.Color, id board.PawnID) []board.Square {
	forward := 1
	if mover == board.Black {
		forward = -1
	}

	var out []board.Square
	one, ok := from.Offset(0, forward)
	if !ok {
		return nil
	}
	out = append(out, one)
	if from.Rank() == board.StartingPawnRank(mover) && pos.At(one).IsEmpty() && !pos.HasPawnMoved(mover, id) {
		if two, ok := from.Offset(0, 2*forward); ok {
			out = append(out, two)
		}
	}
	return out
}

// pawnDiagTargets returns the two forward-diagonal squares a pawn may
// capture on, or land on en passant.
func pawnDiagTargets(pos *board.Position, from board.Square, mover board.Color) []board.Square {
	forward := 1
	if mover == board.Black {
		forward = -1
	}
	var out []board.Square
	for _, df := range [2]int{-1, 1} {
		if to, ok := from.Offset(df, forward); ok {
			out = append(out, to)
		}
	}
	return out
}

// mergeEnPassant collapses a Normal and an EnPassant candidate that share
// the same (from, to) into a single EnPassantChoice, per §4.3: this happens
// when a non-pawn member of the moving unit can reach the ep target as an
// ordinary capture-free move in the same ply as a pawn's ep capture.
func mergeEnPassant(cands []Candidate) []Candidate {
	type key struct {
		from, to board.Square
	}
	groups := map[key][]Candidate{}
	var order []key
	for _, c := range cands {
		k := key{c.From, c.To}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], c)
	}

	var out []Candidate
	for _, k := range order {
		g := groups[k]
		if len(g) != 2 {
			out = append(out, g...)
			continue
		}
		hasNormal, hasEP := false, false
		for _, c := range g {
			hasNormal = hasNormal || c.Type == board.Normal
			hasEP = hasEP || c.Type == board.EnPassant
		}
		if hasNormal && hasEP {
			out = append(out, Candidate{From: k.from, To: k.to, Type: board.EnPassantChoice})
		} else {
			out = append(out, g...)
		}
	}
	return out
}
