package services

import (
	"math/rand"
	"sync"
	"time"
)

// GridSize is the number of cells in the spot-the-difference board, one of
// which carries the odd symbol.
const GridSize = 16

// feedbackDuration is how long a right/wrong flash stays on screen before
// the board moves on.
const feedbackDuration = 600 * time.Millisecond

type symbolPair struct {
	Base string
	Odd  string
}

// Pools get harder with the level: plain digits first, then lookalike
// letters, then near-identical emoji.
var (
	digitPairs = []symbolPair{
		{"6", "9"}, {"2", "5"}, {"1", "7"}, {"3", "8"},
	}
	lookalikePairs = []symbolPair{
		{"O", "Q"}, {"C", "G"}, {"E", "F"}, {"M", "W"}, {"b", "d"},
	}
	emojiPairs = []symbolPair{
		{"😺", "😸"}, {"🐶", "🐕"}, {"🌑", "🌚"}, {"😀", "😃"}, {"🧡", "❤️"},
	}
)

type TapResult string

const (
	TapCorrect TapResult = "correct"
	TapWrong   TapResult = "wrong"
	TapIgnored TapResult = "ignored"
)

// MiniGame is the spot-the-difference board shown while a try-on generates.
// It is purely a distraction: closing it mid-round loses nothing.
type MiniGame struct {
	mu       sync.Mutex
	rng      *rand.Rand
	level    int
	score    int
	cells    []string
	oddIndex int
	locked   bool
	closed   bool
	timers   []*time.Timer
	onRound  func(level int)
}

// NewMiniGame seeds the board. A fixed seed gives a reproducible board,
// which the tests rely on; production passes time.Now().UnixNano().
func NewMiniGame(seed int64, onRound func(level int)) *MiniGame {
	g := &MiniGame{
		rng:     rand.New(rand.NewSource(seed)),
		level:   1,
		onRound: onRound,
	}
	g.dealLocked()
	return g
}

func (g *MiniGame) pairPool() []symbolPair {
	switch {
	case g.level <= 3:
		return digitPairs
	case g.level <= 6:
		return lookalikePairs
	default:
		return emojiPairs
	}
}

func (g *MiniGame) dealLocked() {
	pool := g.pairPool()
	pair := pool[g.rng.Intn(len(pool))]
	if g.rng.Intn(2) == 1 {
		pair = symbolPair{Base: pair.Odd, Odd: pair.Base}
	}
	g.cells = make([]string, GridSize)
	for i := range g.cells {
		g.cells[i] = pair.Base
	}
	g.oddIndex = g.rng.Intn(GridSize)
	g.cells[g.oddIndex] = pair.Odd
	g.locked = false
}

// Tap plays one cell. A correct tap scores, locks the board for the
// feedback flash, then deals the next, harder round.
func (g *MiniGame) Tap(index int) TapResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.locked || index < 0 || index >= GridSize {
		return TapIgnored
	}
	if index != g.oddIndex {
		return TapWrong
	}

	g.score++
	g.level++
	g.locked = true
	timer := time.AfterFunc(feedbackDuration, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.closed {
			return
		}
		g.dealLocked()
		if g.onRound != nil {
			g.onRound(g.level)
		}
	})
	g.timers = append(g.timers, timer)
	return TapCorrect
}

// Close stops the game and every pending feedback timer. Safe to call more
// than once; overlay dismissal and try-on completion both call it.
func (g *MiniGame) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	for _, timer := range g.timers {
		timer.Stop()
	}
	g.timers = nil
}

func (g *MiniGame) Level() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.level
}

func (g *MiniGame) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

// Cells returns a copy of the current board.
func (g *MiniGame) Cells() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.cells))
	copy(out, g.cells)
	return out
}

// OddIndex is exported for rendering the highlight after a correct tap.
func (g *MiniGame) OddIndex() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.oddIndex
}
