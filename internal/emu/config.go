package emu

// Config tunes the machine glue, not the core.
type Config struct {
	// StepCycles is the cycle budget reported per step when no Stepper is
	// installed. Four cycles approximates the shortest instruction.
	StepCycles int
}
