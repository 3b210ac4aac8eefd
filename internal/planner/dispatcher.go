package planner

// Strategy is the pluggable packing algorithm interface: each mode the
// dispatcher supports implements Pack over an immutable snapshot and a
// config, returning a self-contained Result.
type Strategy interface {
	Name() string
	Pack(snap Snapshot, cfg Config) Result
}

type greedyStrategy struct{}

func (greedyStrategy) Name() string                        { return "greedy" }
func (greedyStrategy) Pack(snap Snapshot, cfg Config) Result { return GreedyPack(snap, cfg) }

type optimalStrategy struct{}

func (optimalStrategy) Name() string                        { return "optimal" }
func (optimalStrategy) Pack(snap Snapshot, cfg Config) Result { return OptimalPack(snap, cfg) }

// Registry maps a configured mode name to its Strategy, mirroring the
// detector-registry pattern used elsewhere in this codebase for pluggable
// named behaviors.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds a Registry pre-populated with the greedy and optimal
// strategies.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]Strategy)}
	r.Register(greedyStrategy{})
	r.Register(optimalStrategy{})
	return r
}

// Register adds or replaces a named strategy.
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Name()] = s
}

// Get looks up a strategy by name.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// Dispatch runs the configured mode against the snapshot. "hybrid" runs both
// the greedy and optimal strategies and keeps whichever produced the lower
// total cost, tagging the winning algorithm in the result so callers can see
// which one was picked.
func Dispatch(snap Snapshot, cfg Config, registry *Registry) (Result, error) {
	switch cfg.Mode {
	case "greedy", "optimal":
		s, ok := registry.Get(cfg.Mode)
		if !ok {
			return Result{}, ConfigError("mode", "unknown planning mode")
		}
		return s.Pack(snap, cfg), nil
	case "hybrid":
		return dispatchHybrid(snap, cfg, registry)
	default:
		return Result{}, ConfigError("mode", "must be one of greedy, optimal, hybrid")
	}
}

func dispatchHybrid(snap Snapshot, cfg Config, registry *Registry) (Result, error) {
	greedy, ok := registry.Get("greedy")
	if !ok {
		return Result{}, ConfigError("mode", "greedy strategy unavailable for hybrid comparison")
	}
	optimal, ok := registry.Get("optimal")
	if !ok {
		return Result{}, ConfigError("mode", "optimal strategy unavailable for hybrid comparison")
	}

	greedyResult := greedy.Pack(snap, cfg)
	optimalResult := optimal.Pack(snap, cfg)

	if optimalResult.TotalCost.LessThan(greedyResult.TotalCost) {
		optimalResult.Algorithm = "hybrid (" + optimalResult.Algorithm + ")"
		return optimalResult, nil
	}
	greedyResult.Algorithm = "hybrid (" + greedyResult.Algorithm + ")"
	return greedyResult, nil
}
