// Package instructions accumulates the results of instruction patterns:
// mul(a,b) products, switched on and off by do() and don't().
package instructions

import (
	"strconv"

	"github.com/spicery/streamscan/pkg/pattern"
	"github.com/spicery/streamscan/pkg/scanner"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

// MaxOperand is the largest operand a mul instruction may carry.
const MaxOperand = 999

// Stats counts what the program saw.
type Stats struct {
	Seen     int `json:"seen"`
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
	Invalid  int `json:"invalid"`
	Toggles  int `json:"toggles"`
}

// Result is the final state of a program.
type Result struct {
	Sum   int64 `json:"sum"`
	Stats Stats `json:"stats"`
}

// Program is the running state fed by completion events. It is not safe
// for concurrent use; give each scan its own Program.
type Program struct {
	conditional bool
	enabled     bool
	sum         int64
	stats       Stats
	logger      *zap.Logger
}

// New returns a program with multiplication enabled. When conditional is
// false, do and dont are ignored and every mul counts.
func New(conditional bool, logger *zap.Logger) *Program {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Program{
		conditional: conditional,
		enabled:     true,
		logger:      logger,
	}
}

// Bindings pairs each pattern with the handler for its name.
func (p *Program) Bindings(patterns []*scanner.Pattern) ([]scanner.Binding, error) {
	bindings := make([]scanner.Binding, 0, len(patterns))
	for _, pat := range patterns {
		var h scanner.Handler
		switch pat.Name() {
		case pattern.MulName:
			if pat.Groups() != 2 {
				return nil, xerrors.Errorf("pattern '%s' must have 2 capture groups, has %d", pat.Name(), pat.Groups())
			}
			h = p.mul
		case pattern.DoName:
			h = p.do
		case pattern.DontName:
			h = p.dont
		default:
			return nil, xerrors.Errorf("no instruction handles pattern '%s'", pat.Name())
		}
		bindings = append(bindings, scanner.Binding{Pattern: pat, Handler: h})
	}
	return bindings, nil
}

// Enabled reports whether mul instructions currently count.
func (p *Program) Enabled() bool { return p.enabled }

// Result returns the sum and counters so far.
func (p *Program) Result() Result {
	return Result{Sum: p.sum, Stats: p.stats}
}

func (p *Program) do(scanner.Event) {
	if !p.conditional {
		return
	}
	if !p.enabled {
		p.stats.Toggles++
	}
	p.enabled = true
}

func (p *Program) dont(scanner.Event) {
	if !p.conditional {
		return
	}
	if p.enabled {
		p.stats.Toggles++
	}
	p.enabled = false
}

func (p *Program) mul(ev scanner.Event) {
	p.stats.Seen++
	a, errA := operand(ev.Captures[0])
	b, errB := operand(ev.Captures[1])
	if errA != nil || errB != nil {
		p.stats.Invalid++
		p.logger.Warn("ignoring malformed mul",
			zap.Strings("captures", ev.Captures),
			zap.Int64("offset", ev.Offset))
		return
	}
	if !p.enabled {
		p.stats.Skipped++
		return
	}
	p.stats.Accepted++
	p.sum += a * b
}

func operand(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > MaxOperand {
		return 0, xerrors.Errorf("operand %d out of range [0, %d]", n, MaxOperand)
	}
	return n, nil
}
