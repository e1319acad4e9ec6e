// Package notation renders and parses Klikschaak move tokens: a short
// human-readable form for move history and audit (§4.4, "Notation"), and the
// compact engine/session wire grammar (§6, "Move grammar"). Neither grammar
// is meant to be parsed back into full semantics without the candidate
// context it was produced from. In the compact grammar the no-suffix case is
// ambiguous between Normal and plain castling, and Unklik and
// EnPassantUnklik share the same u0/u1 suffix, until matched against the
// legal candidates of the position it applies to.
package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/herohde/klikschaak/pkg/board"
	"github.com/seekerror/stdlib/pkg/lang"
)

// ErrParse is wrapped by every error Decode returns, so a caller can tell a
// malformed wire token apart from other failures with a single errors.Is
// check.
var ErrParse = errors.New("notation: malformed token")

// PieceGlyph returns the piece-kind letter used in human-readable tokens.
// Pawns carry no glyph, matching standard algebraic notation.
func PieceGlyph(k board.PieceKind) string {
	return glyph(k)
}

// glyph returns the piece-kind letter used in human-readable tokens. Pawns
// carry no glyph, matching standard algebraic notation.
func glyph(k board.PieceKind) string {
	switch k {
	case board.King:
		return "K"
	case board.Queen:
		return "Q"
	case board.Rook:
		return "R"
	case board.Bishop:
		return "B"
	case board.Knight:
		return "N"
	default:
		return ""
	}
}

// Describe renders the human-readable audit token for rec, as applied to
// pos (the position *before* the move). It is grounded on the teacher's
// Move.String() (pkg/board/move.go), extended with the click/unclick
// qualifiers and castle variants §4.4 requires.
func Describe(pos *board.Position, rec board.MoveRecord) string {
	if rec.Type.IsCastle() {
		return describeCastle(rec.Type)
	}

	src := pos.At(rec.From)
	var mover board.Piece
	if rec.Type.UsesUnclickIndex() {
		idx, _ := rec.UnclickIndex.V()
		mover = src.At(idx)
	} else {
		mover = src.At(0)
	}

	dest := pos.At(rec.To)
	sep := "-"
	if !dest.IsEmpty() && !rec.Type.IsEnPassant() {
		sep = "x"
	}
	if rec.Type.IsEnPassant() {
		sep = "x"
	}

	var sb strings.Builder
	sb.WriteString(glyph(mover.Kind))
	sb.WriteString(rec.From.String())
	sb.WriteString(sep)
	sb.WriteString(rec.To.String())

	switch rec.Type {
	case board.Klik:
		sb.WriteString("(klik)")
	case board.Unklik, board.EnPassantUnklik:
		sb.WriteString("(unklik)")
	case board.UnklikKlik:
		sb.WriteString("(unklik-klik)")
	}

	if rec.Type.IsEnPassant() {
		sb.WriteString(" e.p.")
	}
	if rec.Promotion != board.NoPieceKind {
		sb.WriteString("=")
		sb.WriteString(glyph(rec.Promotion))
	}
	return sb.String()
}

func describeCastle(t board.MoveType) string {
	base := "O-O"
	if !t.IsKingside() {
		base = "O-O-O"
	}
	switch t {
	case board.CastleK, board.CastleQ:
		return base
	case board.CastleKKlik, board.CastleQKlik:
		return base + "(klik)"
	case board.CastleKUnklikKlik, board.CastleQUnklikKlik:
		return base + "(unklik-klik)"
	case board.CastleKChoice, board.CastleQChoice:
		return base + "(choice)"
	case board.CastleKBoth, board.CastleQBoth:
		return base + "(both)"
	default:
		return base
	}
}

// Encode renders rec as the compact wire token of §6:
// <from><to> + optional promotion letter + optional k/u0/u1/U0/U1 suffix +
// optional ":castle-k-choice"-style qualifier for a resolved choice type.
func Encode(rec board.MoveRecord) string {
	var sb strings.Builder
	sb.WriteString(rec.From.String())
	sb.WriteString(rec.To.String())

	if rec.Promotion != board.NoPieceKind {
		sb.WriteString(strings.ToLower(glyph(rec.Promotion)))
	}

	idx, hasIdx := rec.UnclickIndex.V()
	switch rec.Type {
	case board.Klik:
		sb.WriteString("k")
	case board.Unklik, board.EnPassantUnklik:
		if hasIdx {
			fmt.Fprintf(&sb, "u%d", idx)
		}
	case board.UnklikKlik:
		if hasIdx {
			fmt.Fprintf(&sb, "U%d", idx)
		}
	}

	if qualifier := tokenQualifier(rec.Type); qualifier != "" {
		sb.WriteString(":")
		sb.WriteString(qualifier)
	}
	return sb.String()
}

// TokenQualifier returns the colon-suffix a resolved move type needs in the
// compact wire grammar, or "" if the type needs none. Exposed so a caller
// matching a decoded Parsed token back against movegen's candidates (e.g.
// cmd/klikconsole) can compare against the same mapping Encode uses,
// instead of re-deriving it.
func TokenQualifier(t board.MoveType) string {
	return tokenQualifier(t)
}

// tokenQualifier disambiguates a resolved choice candidate from the token
// its sibling resolution would otherwise render identically to: an
// EnPassant capture renders the same <from><to> body as the Normal
// resolution of the same EnPassantChoice, and each castle choice/both
// variant renders the same body as its plain castle counterpart, so both
// need an explicit tag for the grammar to round-trip.
func tokenQualifier(t board.MoveType) string {
	switch t {
	case board.EnPassant:
		return "ep"
	case board.CastleKChoice:
		return "castle-k-choice"
	case board.CastleQChoice:
		return "castle-q-choice"
	case board.CastleKBoth:
		return "castle-k-both"
	case board.CastleQBoth:
		return "castle-q-both"
	case board.CastleKKlik:
		return "castle-k-klik"
	case board.CastleQKlik:
		return "castle-q-klik"
	case board.CastleKUnklikKlik:
		return "castle-k-unklik-klik"
	case board.CastleQUnklikKlik:
		return "castle-q-unklik-klik"
	default:
		return ""
	}
}

// Parsed is the literal content of a compact move token, before it has been
// matched against a position's legal candidates. The from/to/suffix bits are
// unambiguous; Type is only a hint (ordinary vs explicit castle/unclick
// qualifier) that the caller must still reconcile against movegen's output,
// per §6's note that the no-suffix case disambiguates "by state".
type Parsed struct {
	From, To     board.Square
	Promotion    board.PieceKind
	UnclickIndex lang.Optional[int]
	Klik         bool
	UnklikKlik   bool
	Qualifier    string // e.g. "castle-k-choice", or "" if none
}

// Decode parses the compact wire grammar of §6 into its literal parts.
func Decode(s string) (Parsed, error) {
	body := s
	qualifier := ""
	if i := strings.IndexByte(s, ':'); i >= 0 {
		body, qualifier = s[:i], s[i+1:]
	}
	if len(body) < 4 {
		return Parsed{}, fmt.Errorf("notation: token too short: %q: %w", s, ErrParse)
	}

	from, err := board.ParseSquareStr(body[0:2])
	if err != nil {
		return Parsed{}, fmt.Errorf("notation: invalid from square: %w: %w", err, ErrParse)
	}
	to, err := board.ParseSquareStr(body[2:4])
	if err != nil {
		return Parsed{}, fmt.Errorf("notation: invalid to square: %w: %w", err, ErrParse)
	}

	p := Parsed{From: from, To: to, Promotion: board.NoPieceKind, Qualifier: qualifier}
	rest := body[4:]

	if len(rest) > 0 {
		if kind, ok := board.ParsePieceKind(rune(rest[0])); ok && kind.IsPromotable() {
			p.Promotion = kind
			rest = rest[1:]
		}
	}

	switch {
	case rest == "k":
		p.Klik = true
	case rest == "u0":
		p.UnclickIndex = lang.Some(0)
	case rest == "u1":
		p.UnclickIndex = lang.Some(1)
	case rest == "U0":
		p.UnklikKlik = true
		p.UnclickIndex = lang.Some(0)
	case rest == "U1":
		p.UnklikKlik = true
		p.UnclickIndex = lang.Some(1)
	case rest != "":
		return Parsed{}, fmt.Errorf("notation: unrecognized suffix %q in %q: %w", rest, s, ErrParse)
	}
	return p, nil
}
