package sat

import (
	"log"

	"github.com/rhartert/yagh"
)

// VarOrder maintains the order in which free variables are offered up as
// decisions, and doubles as the prober's "activity-order" visitation pass
// (spec §4.5.1 step 4: "the remaining candidates ordered by the solver's
// own decision heap").
type VarOrder struct {
	// Binary heap to access the next variable with the highest score. The heap
	// breaks ties using the index of its elements which will correspond to the
	// order in which variables are declared with AddVar.
	order *yagh.IntMap[float64]

	scores     []float64 // in [0, 1e100)
	scoreInc   float64   // in (0, 1e100)
	scoreDecay float64   // in (0, 1]

	phases      []LBool
	phaseSaving bool
}

// NewVarOrder returns a new initialized VarOrder.
func NewVarOrder(decay float64, phaseSaving bool) *VarOrder {
	return &VarOrder{
		order:       yagh.New[float64](0),
		scoreInc:    1,
		scoreDecay:  decay,
		phases:      make([]LBool, 0),
		phaseSaving: phaseSaving,
	}
}

// AddVar adds a new variable with the given initial score and phase.
func (vo *VarOrder) AddVar(initScore float64, initPhase bool) {
	varID := len(vo.phases)

	vo.scores = append(vo.scores, initScore)
	vo.phases = append(vo.phases, Lift(initPhase))

	vo.order.GrowBy(1)
	vo.order.Put(varID, -initScore)
}

// Reinsert adds variable v back to the set of candidates to be selected. This
// function must be called by the solver when v is being unassigned (e.g. when
// a backtrack occurs) where val is the value the variable was assigned to.
func (vo *VarOrder) Reinsert(v Var, val LBool) {
	if vo.phaseSaving {
		vo.phases[v] = val
	}
	act := vo.scores[v]
	vo.order.Put(int(v), -act)
}

// DecayScores slightly decreases the scores of the variables. This is used
// to give more importance to variables that have had their scores increased
// recently compared to variables that had their scores increased in the past.
func (vo *VarOrder) DecayScores() {
	vo.scoreInc /= vo.scoreDecay // decay activities by bumping increment
	if vo.scoreInc > 1e100 {
		vo.rescaleScoresAndIncrement()
	}
}

// BumpScore increases the score of the given variable. Note that this operation
// might trigger a rescaling of all variables scores if the score of v exceeds
// a given threshold. The rescaling is done in way that conserves the relative
// importance of each variable when compared to each other.
func (vo *VarOrder) BumpScore(v Var) {
	newScore := vo.scores[v] + vo.scoreInc
	vo.scores[v] = newScore
	if vo.order.Contains(int(v)) {
		vo.order.Put(int(v), -newScore)
	}
	if vo.scores[v] > 1e100 {
		vo.rescaleScoresAndIncrement()
	}
}

// NextDecision returns the next unassigned literal to be assigned to true.
func (vo *VarOrder) NextDecision(s *Solver) Literal {
	for {
		next, ok := vo.order.Pop()
		if !ok {
			log.Fatalln("empty heap")
		}
		v := Var(next.Elem)
		if s.VarValue(v) != Unknown {
			continue // already assigned
		}

		switch vo.phases[v] {
		case True:
			return PositiveLiteral(v)
		case False:
			return NegativeLiteral(v)
		default:
			return PositiveLiteral(v)
		}
	}
}

func (vo *VarOrder) rescaleScoresAndIncrement() {
	vo.scoreInc *= 1e-100 // important to keep proportions
	for v, s := range vo.scores {
		newScore := s * 1e-100
		vo.scores[v] = newScore
		if vo.order.Contains(v) {
			vo.order.Put(v, -newScore)
		}
	}
}

// ActivityOrder is a frozen, independent snapshot of the current decision
// order, highest score first. The prober takes one before its activity-order
// visitation pass so that probing one variable can never perturb the order
// in which the remaining candidates of the same pass are visited (spec
// §4.5.1: the three visitation orders are each fixed before probing begins).
type ActivityOrder struct {
	vars []Var
}

// Snapshot freezes the current scores into a descending-order variable list.
func (vo *VarOrder) Snapshot(isCandidate func(Var) bool) *ActivityOrder {
	vars := make([]Var, 0, len(vo.scores))
	for v := range vo.scores {
		if isCandidate == nil || isCandidate(Var(v)) {
			vars = append(vars, Var(v))
		}
	}
	sortVarsByScoreDesc(vars, vo.scores)
	return &ActivityOrder{vars: vars}
}

func sortVarsByScoreDesc(vars []Var, scores []float64) {
	// Insertion sort: the candidate lists probing touches are small compared
	// to the full variable count, and stability keeps ties in declaration
	// order the same way the heap's own tie-break does.
	for i := 1; i < len(vars); i++ {
		v := vars[i]
		j := i - 1
		for j >= 0 && scores[vars[j]] < scores[v] {
			vars[j+1] = vars[j]
			j--
		}
		vars[j+1] = v
	}
}

// Vars returns the frozen order.
func (ao *ActivityOrder) Vars() []Var { return ao.vars }
