package rules

import (
	"github.com/herohde/klikschaak/pkg/board"
	"github.com/herohde/klikschaak/pkg/movegen"
)

// HasLegalMove reports whether mover has at least one move that survives
// self-check filtering, scanning whole-square and per-piece candidates for
// every occupied square of mover's color. It stops at the first legal move
// found rather than enumerating all of them, since §4.5 only needs a
// yes/no answer for termination detection.
//
// Detection must consider per-piece (unklik, unklik-klik) candidates as well
// as whole-square ones — a stalemate is easy to declare falsely by checking
// whole-square moves alone (§4.5).
func HasLegalMove(pos *board.Position, mover board.Color) bool {
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		s := pos.At(sq)
		if s.IsEmpty() {
			continue
		}
		if c, _ := s.Color(); c != mover {
			continue
		}
		if anyLegal(pos, mover, expand(movegen.Generate(pos, sq))) {
			return true
		}
		if s.IsStacked() {
			if anyLegal(pos, mover, expand(movegen.GenerateFromPiece(pos, sq, 0))) {
				return true
			}
			if anyLegal(pos, mover, expand(movegen.GenerateFromPiece(pos, sq, 1))) {
				return true
			}
		}
	}
	return false
}

// LegalCandidatesForSquare returns every concrete, self-check-safe candidate
// available from sq, expanding whole-square and (for a stacked square)
// per-piece generation and resolving any choice type to its concrete
// resolutions. Intended for a caller that needs to present the full legal
// set for one square, e.g. a UI highlighting reachable destinations.
func LegalCandidatesForSquare(pos *board.Position, mover board.Color, sq board.Square) []movegen.Candidate {
	var out []movegen.Candidate
	out = append(out, legalOf(pos, mover, expand(movegen.Generate(pos, sq)))...)
	if pos.At(sq).IsStacked() {
		out = append(out, legalOf(pos, mover, expand(movegen.GenerateFromPiece(pos, sq, 0)))...)
		out = append(out, legalOf(pos, mover, expand(movegen.GenerateFromPiece(pos, sq, 1)))...)
	}
	return out
}

func anyLegal(pos *board.Position, mover board.Color, cands []movegen.Candidate) bool {
	for _, c := range cands {
		if isSelfCheckSafe(pos, mover, c) {
			return true
		}
	}
	return false
}

func legalOf(pos *board.Position, mover board.Color, cands []movegen.Candidate) []movegen.Candidate {
	var out []movegen.Candidate
	for _, c := range cands {
		if isSelfCheckSafe(pos, mover, c) {
			out = append(out, c)
		}
	}
	return out
}

// expand resolves every choice candidate into its concrete resolutions,
// leaving ordinary candidates untouched.
func expand(cands []movegen.Candidate) []movegen.Candidate {
	var out []movegen.Candidate
	for _, c := range cands {
		if !c.Type.IsChoice() {
			out = append(out, c)
			continue
		}
		for _, r := range c.Type.Resolutions() {
			cc := c
			cc.Type = r
			out = append(out, cc)
		}
	}
	return out
}

func isSelfCheckSafe(pos *board.Position, mover board.Color, c movegen.Candidate) bool {
	rec := board.MoveRecord{From: c.From, To: c.To, Type: c.Type, UnclickIndex: c.UnclickIndex}
	next := pos.Apply(rec, "")
	return !next.IsInCheck(mover)
}
