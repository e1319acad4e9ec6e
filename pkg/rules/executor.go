// Package rules implements the legality filter and executor (C4): it turns a
// pseudo-legal movegen.Candidate into a committed board.Position, rejecting
// anything that would leave the mover's own king in check, and surfaces
// pending promotions as a return value rather than mutable session state
// (§4.4, §9 "Pending promotions").
package rules

import (
	"github.com/herohde/klikschaak/pkg/board"
	"github.com/herohde/klikschaak/pkg/movegen"
	"github.com/herohde/klikschaak/pkg/notation"
	"github.com/seekerror/stdlib/pkg/lang"
)

// PendingPromotion is returned by Execute when a pawn has reached its
// promotion rank and no promotion piece was supplied. The move is not
// committed; the caller resubmits the same candidate with promo set.
type PendingPromotion struct {
	Square board.Square
	Side   board.Color
}

// Result is the outcome of a successfully processed Execute call: either a
// committed position plus its notation token, or a pending promotion with
// nothing committed yet.
type Result struct {
	Position  *board.Position
	Notation  string
	Promotion lang.Optional[PendingPromotion]
}

// Execute validates and applies candidate c as mover's move against pos. The
// candidate must already be one of the concrete (non-choice) types movegen
// or a prior choice resolution produced; a caller holding a Candidate whose
// Type.IsChoice() is true must resolve it to one of Type.Resolutions() first.
//
// unclick fills in c.UnclickIndex when the caller built c from a decoded
// wire token that carried the index separately from the candidate (see
// pkg/notation.Parsed); it is ignored when c.UnclickIndex already has a
// value. promo supplies the chosen promotion piece; it is ignored unless the
// move actually lands a mover's pawn on its promotion rank.
func Execute(pos *board.Position, mover board.Color, c movegen.Candidate, unclick lang.Optional[int], promo lang.Optional[board.PieceKind]) (Result, error) {
	if _, ok := c.UnclickIndex.V(); !ok {
		if idx, ok2 := unclick.V(); ok2 {
			c.UnclickIndex = lang.Some(idx)
		}
	}

	if pos.Turn() != mover {
		return Result{}, ErrNotYourTurn
	}
	src := pos.At(c.From)
	if src.IsEmpty() {
		return Result{}, ErrNoPieceOnSource
	}
	if color, _ := src.Color(); color != mover {
		return Result{}, ErrNotYourPiece
	}
	if c.Type.IsChoice() {
		return Result{}, ErrIllegalMove
	}
	if c.Type.UsesUnclickIndex() {
		idx, ok := c.UnclickIndex.V()
		if !ok || idx < 0 || idx > 1 || !src.IsStacked() {
			return Result{}, ErrBadUnclickIndex
		}
	}

	if !isOffered(pos, c) {
		return Result{}, ErrIllegalMove
	}

	rec := board.MoveRecord{From: c.From, To: c.To, Type: c.Type, UnclickIndex: c.UnclickIndex}
	scratch := pos.Apply(rec, "")
	if scratch.IsInCheck(mover) {
		return Result{}, ErrIllegalMove
	}

	if pawn, ok := promotingPawn(scratch, rec, mover); ok {
		chosen, ok := promo.V()
		if !ok {
			return Result{Promotion: lang.Some(PendingPromotion{Square: pawn, Side: mover})}, nil
		}
		if !chosen.IsPromotable() {
			return Result{}, ErrIllegalMove
		}
		rec.Promotion = chosen
	}

	note := notation.Describe(pos, rec)
	final := pos.Apply(rec, note)
	return Result{Position: final, Notation: note}, nil
}

// promotingPawn reports the destination square and true iff rec lands a
// pawn of mover's color on its promotion rank. It inspects the
// already-applied scratch position rather than rec's move type directly, so
// whole-square, per-piece and en-passant variants are all handled by the
// same check.
func promotingPawn(scratch *board.Position, rec board.MoveRecord, mover board.Color) (board.Square, bool) {
	if rec.To.Rank() != board.PromotionRank(mover) {
		return 0, false
	}
	s := scratch.At(rec.To)
	for i := 0; i < s.Len(); i++ {
		pc := s.At(i)
		if pc.Kind == board.Pawn && pc.Color == mover {
			return rec.To, true
		}
	}
	return 0, false
}

// isOffered reports whether c is exactly one of the pseudo-legal candidates
// movegen produces for its source (whole-square generation when c carries no
// unclick index, per-piece generation otherwise), or the concrete resolution
// of a choice candidate movegen offered.
func isOffered(pos *board.Position, c movegen.Candidate) bool {
	for _, cand := range candidatesFor(pos, c.From, c.UnclickIndex) {
		if cand.To != c.To {
			continue
		}
		if cand.Type == c.Type {
			return true
		}
		if cand.Type.IsChoice() {
			for _, r := range cand.Type.Resolutions() {
				if r == c.Type {
					return true
				}
			}
		}
	}
	return false
}

func candidatesFor(pos *board.Position, from board.Square, unclick lang.Optional[int]) []movegen.Candidate {
	if idx, ok := unclick.V(); ok {
		return movegen.GenerateFromPiece(pos, from, idx)
	}
	return movegen.Generate(pos, from)
}
