package diff

import "fmt"

// Options are the matcher thresholds. They are always passed explicitly.
type Options struct {
	// MinHeight — минимальная высота поддеревьев для top-down фазы.
	MinHeight int
	// SimThreshold is the minimal dice score for bottom-up container pairs.
	SimThreshold float64
	// ChildThreshold is the minimal similarity for pairing children during recovery.
	ChildThreshold float64
	// MaxRecoverySize skips recovery below pairs where both subtrees are larger.
	MaxRecoverySize int
}

func DefaultOptions() Options {
	return Options{
		MinHeight:       2,
		SimThreshold:    0.5,
		ChildThreshold:  0.5,
		MaxRecoverySize: 1000,
	}
}

// Validate checks ranges: MinHeight ≥ 1, thresholds in (0,1], MaxRecoverySize ≥ 0.
func (o Options) Validate() error {
	switch {
	case o.MinHeight < 1:
		return fmt.Errorf("diff: min height %d must be at least 1", o.MinHeight)
	case o.SimThreshold <= 0 || o.SimThreshold > 1:
		return fmt.Errorf("diff: sim threshold %v is outside (0,1]", o.SimThreshold)
	case o.ChildThreshold <= 0 || o.ChildThreshold > 1:
		return fmt.Errorf("diff: child threshold %v is outside (0,1]", o.ChildThreshold)
	case o.MaxRecoverySize < 0:
		return fmt.Errorf("diff: max recovery size %d is negative", o.MaxRecoverySize)
	}
	return nil
}
