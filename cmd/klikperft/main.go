// klikperft is a movegen and executor debugging tool, counting leaf nodes
// reached at a given search depth. See:
// https://www.chessprogramming.org/Perft_Results. Unlike ordinary chess
// perft, a Klikschaak leaf count also reflects every click/unklik/choice
// branch the stacking rules introduce.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/herohde/klikschaak/pkg/board"
	"github.com/herohde/klikschaak/pkg/board/fen"
	"github.com/herohde/klikschaak/pkg/klog"
	"github.com/herohde/klikschaak/pkg/rules"
	"github.com/seekerror/stdlib/pkg/lang"
)

var (
	depth    = flag.Int("depth", 4, "search depth")
	position = flag.String("position", "", "start position (default to standard)")
	divide   = flag.Bool("divide", false, "divide counts by initial move, at the deepest ply")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = fen.Initial
	}

	pos, _, _, err := fen.Decode(*position)
	if err != nil {
		klog.Exitf(ctx, "invalid position %q: %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := search(pos, i, *divide && i == *depth)
		duration := time.Since(start)

		fmt.Printf("perft,%v,%v,%v,%v\n", *position, i, nodes, duration.Microseconds())
	}
}

func search(pos *board.Position, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	mover := pos.Turn()
	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		s := pos.At(sq)
		if s.IsEmpty() {
			continue
		}
		if c, _ := s.Color(); c != mover {
			continue
		}
		for _, next := range childrenOf(pos, mover, sq) {
			count := search(next.pos, depth-1, false)
			if d {
				fmt.Printf("%v: %v\n", next.notation, count)
			}
			nodes += count
		}
	}
	return nodes
}

type child struct {
	pos      *board.Position
	notation string
}

// childrenOf applies every legal candidate from sq, branching over every
// promotable piece kind when a candidate lands on the promotion rank, since
// perft counts each promotion choice as a distinct move.
func childrenOf(pos *board.Position, mover board.Color, sq board.Square) []child {
	var out []child
	for _, c := range rules.LegalCandidatesForSquare(pos, mover, sq) {
		res, err := rules.Execute(pos, mover, c, lang.None[int](), lang.None[board.PieceKind]())
		if err != nil {
			continue
		}
		if pending, ok := res.Promotion.V(); ok {
			for _, kind := range []board.PieceKind{board.Queen, board.Rook, board.Bishop, board.Knight} {
				promoted, err := rules.Execute(pos, mover, c, lang.None[int](), lang.Some(kind))
				if err != nil {
					continue
				}
				out = append(out, child{pos: promoted.Position, notation: promoted.Notation})
			}
			_ = pending
			continue
		}
		out = append(out, child{pos: res.Position, notation: res.Notation})
	}
	return out
}
