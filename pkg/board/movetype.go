package board

// MoveType is the closed tag set a Candidate or MoveRecord carries. Every
// combinatorial branch of Klikschaak's stacking rules produces exactly one
// of these; the executor's mechanical application switches on it (§4.4).
type MoveType uint8

const (
	Normal MoveType = iota
	Klik
	Unklik
	UnklikKlik

	EnPassant
	EnPassantUnklik
	EnPassantChoice

	CastleK
	CastleQ
	CastleKKlik
	CastleQKlik
	CastleKUnklikKlik
	CastleQUnklikKlik
	CastleKChoice
	CastleQChoice
	CastleKBoth
	CastleQBoth
)

func (t MoveType) String() string {
	switch t {
	case Normal:
		return "Normal"
	case Klik:
		return "Klik"
	case Unklik:
		return "Unklik"
	case UnklikKlik:
		return "UnklikKlik"
	case EnPassant:
		return "EnPassant"
	case EnPassantUnklik:
		return "EnPassantUnklik"
	case EnPassantChoice:
		return "EnPassantChoice"
	case CastleK:
		return "CastleK"
	case CastleQ:
		return "CastleQ"
	case CastleKKlik:
		return "CastleKKlik"
	case CastleQKlik:
		return "CastleQKlik"
	case CastleKUnklikKlik:
		return "CastleKUnklikKlik"
	case CastleQUnklikKlik:
		return "CastleQUnklikKlik"
	case CastleKChoice:
		return "CastleKChoice"
	case CastleQChoice:
		return "CastleQChoice"
	case CastleKBoth:
		return "CastleKBoth"
	case CastleQBoth:
		return "CastleQBoth"
	default:
		return "?"
	}
}

// IsChoice returns true iff the type is a branch that the move generator
// could not resolve on its own and must be surfaced to the caller.
func (t MoveType) IsChoice() bool {
	return t == EnPassantChoice || t == CastleKChoice || t == CastleQChoice
}

// Resolutions returns the concrete move types a choice type can resolve to.
// Returns nil for a type that is not a choice.
func (t MoveType) Resolutions() []MoveType {
	switch t {
	case EnPassantChoice:
		return []MoveType{Normal, EnPassant}
	case CastleKChoice:
		return []MoveType{CastleK, CastleKBoth}
	case CastleQChoice:
		return []MoveType{CastleQ, CastleQBoth}
	default:
		return nil
	}
}

// IsCastle returns true iff the type is one of the castling variants.
func (t MoveType) IsCastle() bool {
	switch t {
	case CastleK, CastleQ, CastleKKlik, CastleQKlik, CastleKUnklikKlik, CastleQUnklikKlik, CastleKChoice, CastleQChoice, CastleKBoth, CastleQBoth:
		return true
	default:
		return false
	}
}

// IsKingside returns true iff a castling type castles towards the king side.
// Meaningless for non-castling types.
func (t MoveType) IsKingside() bool {
	switch t {
	case CastleK, CastleKKlik, CastleKUnklikKlik, CastleKChoice, CastleKBoth:
		return true
	default:
		return false
	}
}

// IsEnPassant returns true iff the type captures en passant.
func (t MoveType) IsEnPassant() bool {
	return t == EnPassant || t == EnPassantUnklik
}

// UsesUnclickIndex returns true iff the type requires the caller to have
// named which stacked piece moves.
func (t MoveType) UsesUnclickIndex() bool {
	return t == Unklik || t == UnklikKlik || t == EnPassantUnklik
}
