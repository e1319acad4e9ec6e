package rules

import "errors"

// Sentinel errors implementing the closed taxonomy of §7. Execute and
// Session return these values as they are; callers switch on the sentinel
// (errors.Is), never on a formatted string.
var (
	ErrNotYourTurn     = errors.New("rules: not your turn")
	ErrNoPieceOnSource = errors.New("rules: no piece on source square")
	ErrNotYourPiece    = errors.New("rules: source holds the opponent's piece")
	ErrBadUnclickIndex = errors.New("rules: bad unclick index")
	ErrIllegalMove     = errors.New("rules: illegal move")
	ErrGameNotStarted  = errors.New("rules: game not started")
	ErrGameOver        = errors.New("rules: game is over")
)
