// klikconsole is a line-oriented console driver over a single pkg/session
// Session, in the spirit of the teacher's pkg/engine/console driver: a
// synchronous read-eval-print loop rather than an async channel pump, since
// a session has no background search to report.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/herohde/klikschaak/pkg/board"
	"github.com/herohde/klikschaak/pkg/klog"
	"github.com/herohde/klikschaak/pkg/movegen"
	"github.com/herohde/klikschaak/pkg/notation"
	"github.com/herohde/klikschaak/pkg/rules"
	"github.com/herohde/klikschaak/pkg/session"
	"github.com/seekerror/stdlib/pkg/lang"
)

const (
	files      = "    a   b   c   d   e   f   g   h"
	horizontal = "  ---------------------------------"
	vertical   = " | "
)

func main() {
	ctx := context.Background()
	s := session.New(ctx)

	fmt.Println("klikconsole: join w <name>, join b <name>, start, <name> <move>, resign <name>, draw offer|accept|decline <name>, print, quit")
	printBoard(s)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "join":
			handleJoin(s, args)

		case "start":
			if err := s.Start(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			klog.Infof(ctx, "console: session started")
			printBoard(s)

		case "resign":
			if len(args) < 1 {
				fmt.Println("usage: resign <name>")
				continue
			}
			if err := s.Resign(ctx, args[0]); err != nil {
				fmt.Println("error:", err)
				continue
			}
			printStatus(s)

		case "draw":
			handleDraw(ctx, s, args)

		case "print", "p":
			printBoard(s)

		case "quit", "exit", "q":
			return

		default:
			// Assume the line names a mover and a move token: "<name> <token>".
			if len(args) != 1 {
				fmt.Printf("invalid command or move: %q\n", line)
				continue
			}
			handleMove(ctx, s, cmd, args[0])
		}
	}
}

func handleJoin(s *session.Session, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: join <w|b> <name>")
		return
	}
	var slot session.Slot
	switch strings.ToLower(args[0]) {
	case "w", "white":
		slot = session.SlotWhite
	case "b", "black":
		slot = session.SlotBlack
	default:
		fmt.Println("slot must be w or b")
		return
	}
	if err := s.Join(slot, args[1]); err != nil {
		fmt.Println("error:", err)
	}
}

func handleDraw(ctx context.Context, s *session.Session, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: draw offer|accept|decline <name>")
		return
	}
	switch strings.ToLower(args[0]) {
	case "offer":
		if err := s.OfferDraw(args[1]); err != nil {
			fmt.Println("error:", err)
		}
	case "accept":
		if err := s.RespondDraw(ctx, args[1], true); err != nil {
			fmt.Println("error:", err)
			return
		}
		printStatus(s)
	case "decline":
		if err := s.RespondDraw(ctx, args[1], false); err != nil {
			fmt.Println("error:", err)
		}
	default:
		fmt.Println("usage: draw offer|accept|decline <name>")
	}
}

// handleMove decodes token, reconciles it against the legal candidates
// currently available from its source square, and submits the resolved
// candidate as playerID's move.
func handleMove(ctx context.Context, s *session.Session, playerID, token string) {
	p, err := notation.Decode(token)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	pos, _ := s.Snapshot()
	mover := pos.Turn()

	c, promo, err := resolve(pos, mover, p)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	committed, err := s.Submit(ctx, playerID, c, lang.None[int](), promo)
	if err != nil {
		if pp, ok := err.(*session.PendingPromotionError); ok {
			fmt.Printf("pending promotion on %v, resubmit as %v<piece>\n", pp.Square, token)
			return
		}
		fmt.Println("error:", err)
		return
	}
	fmt.Println(committed)
	printBoard(s)
}

// resolve matches a decoded token against the position's legal candidates
// for its source square, choosing among an expanded choice type's concrete
// resolutions using the token's klik/unklik/qualifier hints.
func resolve(pos *board.Position, mover board.Color, p notation.Parsed) (movegen.Candidate, lang.Optional[board.PieceKind], error) {
	promo := lang.None[board.PieceKind]()
	if p.Promotion != board.NoPieceKind {
		promo = lang.Some(p.Promotion)
	}

	for _, c := range rules.LegalCandidatesForSquare(pos, mover, p.From) {
		if c.To != p.To {
			continue
		}
		if idx, ok := p.UnclickIndex.V(); ok {
			if ci, cok := c.UnclickIndex.V(); !cok || ci != idx {
				continue
			}
		}
		if matchesHints(c.Type, p) {
			return c, promo, nil
		}
	}
	return movegen.Candidate{}, promo, fmt.Errorf("no legal move %v%v matches the given qualifiers", p.From, p.To)
}

func matchesHints(t board.MoveType, p notation.Parsed) bool {
	switch t {
	case board.Klik:
		return p.Klik
	case board.UnklikKlik:
		return p.UnklikKlik
	default:
		if q := notation.TokenQualifier(t); q != "" {
			return p.Qualifier == q
		}
		return !p.Klik && !p.UnklikKlik && p.Qualifier == ""
	}
}

func printStatus(s *session.Session) {
	st := s.Status()
	fmt.Printf("phase: %v, outcome: %v\n", st.Phase, st.Outcome)
}

func printBoard(s *session.Session) {
	pos, _ := s.Snapshot()
	fenStr := s.PositionString()

	fmt.Println()
	fmt.Println(files)
	fmt.Println(horizontal)
	for r := board.Rank8; ; r-- {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%v", r.String()))
		sb.WriteString(vertical)
		for f := board.FileA; ; f-- {
			sq := board.NewSquare(f, r)
			st := pos.At(sq)
			if st.IsEmpty() {
				sb.WriteString(" ")
			} else if st.IsStacked() {
				sb.WriteString(printPiece(st.At(0)) + printPiece(st.At(1)))
			} else {
				sb.WriteString(printPiece(st.At(0)))
			}
			sb.WriteString(vertical)
			if f == board.FileH {
				break
			}
		}
		fmt.Println(sb.String())
		fmt.Println(horizontal)
		if r == board.Rank1 {
			break
		}
	}
	fmt.Println(files)
	fmt.Println()
	fmt.Println("position:", fenStr)
	printStatus(s)
}

func printPiece(p board.Piece) string {
	k := notation.PieceGlyph(p.Kind)
	if k == "" {
		k = "p"
	}
	if p.Color == board.White {
		return strings.ToUpper(k)
	}
	return strings.ToLower(k)
}
