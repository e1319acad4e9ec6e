// Package fen reads and writes Klikschaak position strings: the standard
// FEN six fields, plus two trailing extension fields that round-trip pawn
// identity and the moved-pawn set (§6, P2). A position string produced by
// Encode and fed back through Decode always yields an identical Position,
// including side-to-move, castling, en-passant and the moved-pawn set.
package fen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/herohde/klikschaak/pkg/board"
	"github.com/seekerror/stdlib/pkg/lang"
)

// ErrParse is wrapped by every error Decode returns, so a caller can tell a
// malformed position string apart from other failures (e.g. NewPosition's
// invariant errors, which propagate unwrapped) with a single errors.Is check.
var ErrParse = errors.New("fen: malformed position string")

// Initial is the standard Klikschaak starting position string.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 " +
	"a2:0,b2:1,c2:2,d2:3,e2:4,f2:5,g2:6,h2:7,a7:0,b7:1,c7:2,d7:3,e7:4,f7:5,g7:6,h7:7 -"

// Decode parses a Klikschaak position string into a Position plus the
// halfmove clock and fullmove counter, which the core accepts and
// round-trips but does not otherwise use (§6).
func Decode(s string) (*board.Position, int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), " ")
	if len(parts) != 8 {
		return nil, 0, 0, fmt.Errorf("fen: want 8 fields (6 standard + 2 extensions), got %v: %q: %w", len(parts), s, ErrParse)
	}

	placements, err := decodeBoardField(parts[0], parts[6])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("fen: %w", err)
	}

	turn, ok := board.ParseColor(parts[1])
	if !ok {
		return nil, 0, 0, fmt.Errorf("fen: invalid side to move: %q: %w", parts[1], ErrParse)
	}

	castling, err := decodeCastling(parts[2])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("fen: %w", err)
	}

	ep := lang.None[board.Square]()
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, 0, 0, fmt.Errorf("fen: invalid en passant square: %w: %w", err, ErrParse)
		}
		ep = lang.Some(sq)
	}

	halfmove, err := strconv.Atoi(parts[4])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("fen: invalid halfmove clock: %q: %w", parts[4], ErrParse)
	}
	fullmove, err := strconv.Atoi(parts[5])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("fen: invalid fullmove number: %q: %w", parts[5], ErrParse)
	}

	moved, err := decodeMoved(parts[7])
	if err != nil {
		return nil, 0, 0, fmt.Errorf("fen: %w", err)
	}

	pos, err := board.NewPosition(placements, turn, castling, ep, moved)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("fen: %w", err)
	}
	return pos, halfmove, fullmove, nil
}

// Encode renders pos, the halfmove clock and fullmove counter as a
// Klikschaak position string.
func Encode(pos *board.Position, halfmove, fullmove int) string {
	var sb strings.Builder
	sb.WriteString(encodeBoard(pos))
	sb.WriteByte(' ')
	sb.WriteString(pos.Turn().String())
	sb.WriteByte(' ')
	sb.WriteString(pos.Castling().String())
	sb.WriteByte(' ')
	if sq, ok := pos.EnPassant(); ok {
		sb.WriteString(sq.String())
	} else {
		sb.WriteByte('-')
	}
	fmt.Fprintf(&sb, " %v %v ", halfmove, fullmove)
	sb.WriteString(encodePawnIDs(pos))
	sb.WriteByte(' ')
	sb.WriteString(encodeMoved(pos))
	return sb.String()
}

func decodeBoardField(field, ids string) ([]board.Placement, error) {
	idOf, err := parsePawnIDs(ids)
	if err != nil {
		return nil, err
	}

	var placements []board.Placement
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid number of ranks: %q: %w", field, ErrParse)
	}

	for i, rankStr := range ranks {
		rank := board.Rank8 - board.Rank(i)
		file := 0

		runes := []rune(rankStr)
		for j := 0; j < len(runes); j++ {
			r := runes[j]
			switch {
			case r >= '1' && r <= '8':
				file += int(r - '0')

			case r == '(':
				close := strings.IndexRune(string(runes[j:]), ')')
				if close < 0 {
					return nil, fmt.Errorf("unterminated stack in rank %q: %w", rankStr, ErrParse)
				}
				group := runes[j+1 : j+close]
				if len(group) != 2 {
					return nil, fmt.Errorf("invalid stack group %q: %w", string(group), ErrParse)
				}
				sq, _ := board.SquareAt(file, int(rank))
				for _, g := range group {
					pc, err := pieceFromRune(g, sq, idOf)
					if err != nil {
						return nil, err
					}
					placements = append(placements, board.Placement{Square: sq, Piece: pc})
				}
				file++
				j += close

			default:
				sq, _ := board.SquareAt(file, int(rank))
				pc, err := pieceFromRune(r, sq, idOf)
				if err != nil {
					return nil, err
				}
				placements = append(placements, board.Placement{Square: sq, Piece: pc})
				file++
			}
		}
		if file != 8 {
			return nil, fmt.Errorf("rank %q does not span 8 files: %w", rankStr, ErrParse)
		}
	}
	return placements, nil
}

func pieceFromRune(r rune, sq board.Square, idOf map[board.Square][]board.PawnID) (board.Piece, error) {
	kind, ok := board.ParsePieceKind(r)
	if !ok {
		return board.Piece{}, fmt.Errorf("invalid piece %q: %w", string(r), ErrParse)
	}
	color := board.Black
	if r >= 'A' && r <= 'Z' {
		color = board.White
	}
	id := board.NoPawn
	if kind == board.Pawn {
		if got := idOf[sq]; len(got) > 0 {
			id = got[0]
			idOf[sq] = got[1:]
		} else {
			return board.Piece{}, fmt.Errorf("pawn at %v missing identity tag: %w", sq, ErrParse)
		}
	}
	return board.Piece{Kind: kind, Color: color, Pawn: id}, nil
}

func encodeBoard(pos *board.Position) string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			sq, _ := board.SquareAt(f, r)
			s := pos.At(sq)
			if s.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			if s.IsStacked() {
				sb.WriteByte('(')
				sb.WriteString(s.At(0).String())
				sb.WriteString(s.At(1).String())
				sb.WriteByte(')')
			} else {
				sb.WriteString(s.At(0).String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

func decodeCastling(s string) (board.Castling, error) {
	if s == "-" {
		return 0, nil
	}
	var c board.Castling
	for _, r := range s {
		switch r {
		case 'K':
			c |= board.WhiteKingSideCastle
		case 'Q':
			c |= board.WhiteQueenSideCastle
		case 'k':
			c |= board.BlackKingSideCastle
		case 'q':
			c |= board.BlackQueenSideCastle
		default:
			return 0, fmt.Errorf("invalid castling rights: %q: %w", s, ErrParse)
		}
	}
	return c, nil
}

// parsePawnIDs parses the 7th field: a comma-separated list of
// "<square>:<id>" pairs, one per pawn currently on the board. A stacked
// square lists its pawns bottom first, and its ids are handed out in that
// order.
func parsePawnIDs(s string) (map[board.Square][]board.PawnID, error) {
	out := map[board.Square][]board.PawnID{}
	if s == "-" {
		return out, nil
	}
	for _, tok := range strings.Split(s, ",") {
		kv := strings.SplitN(tok, ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid pawn identity token %q: %w", tok, ErrParse)
		}
		sq, err := board.ParseSquareStr(kv[0])
		if err != nil {
			return nil, fmt.Errorf("invalid pawn identity square %q: %w: %w", kv[0], err, ErrParse)
		}
		id, err := strconv.Atoi(kv[1])
		if err != nil || id < 0 || id >= board.NumPawnIDs {
			return nil, fmt.Errorf("invalid pawn identity %q: %w", tok, ErrParse)
		}
		out[sq] = append(out[sq], board.PawnID(id))
	}
	return out, nil
}

func encodePawnIDs(pos *board.Position) string {
	var parts []string
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sq, _ := board.SquareAt(f, r)
			s := pos.At(sq)
			for i := 0; i < s.Len(); i++ {
				pc := s.At(i)
				if pc.Kind == board.Pawn {
					parts = append(parts, fmt.Sprintf("%v:%v", sq, int(pc.Pawn)))
				}
			}
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

// decodeMoved parses the 8th field: "w:<ids>;b:<ids>" where <ids> is a
// comma-separated list of moved pawn identities for that color, or "-" for
// no moved pawns at all.
func decodeMoved(s string) ([board.NumColors][board.NumPawnIDs]bool, error) {
	var out [board.NumColors][board.NumPawnIDs]bool
	if s == "-" {
		return out, nil
	}
	for _, group := range strings.Split(s, ";") {
		kv := strings.SplitN(group, ":", 2)
		if len(kv) != 2 {
			return out, fmt.Errorf("invalid moved-pawn group %q: %w", group, ErrParse)
		}
		color, ok := board.ParseColor(kv[0])
		if !ok {
			return out, fmt.Errorf("invalid moved-pawn color %q: %w", kv[0], ErrParse)
		}
		if kv[1] == "" {
			continue
		}
		for _, idStr := range strings.Split(kv[1], ",") {
			id, err := strconv.Atoi(idStr)
			if err != nil || id < 0 || id >= board.NumPawnIDs {
				return out, fmt.Errorf("invalid moved-pawn id %q: %w", idStr, ErrParse)
			}
			out[color][id] = true
		}
	}
	return out, nil
}

func encodeMoved(pos *board.Position) string {
	var groups []string
	for _, c := range []board.Color{board.White, board.Black} {
		var ids []string
		for id := 0; id < board.NumPawnIDs; id++ {
			if pos.HasPawnMoved(c, board.PawnID(id)) {
				ids = append(ids, strconv.Itoa(id))
			}
		}
		groups = append(groups, fmt.Sprintf("%v:%v", c, strings.Join(ids, ",")))
	}
	joined := strings.Join(groups, ";")
	if joined == "w:;b:" {
		return "-"
	}
	return joined
}
