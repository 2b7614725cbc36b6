package cpu

import (
	"fmt"

	"dmgcore/internal/debug"
)

// CPULoggerAdapter adapts debug.Logger to cpu.InstructionLogger, recording
// one entry per fetched instruction when CPU tracing is enabled. Trimmed to
// a single enable/disable toggle rather than a graduated trace-level ladder,
// since tracing here is simply on or off: the CLI's -n flag turns it off
// (see cmd/dmg).
type CPULoggerAdapter struct {
	logger  *debug.Logger
	enabled bool
}

// NewCPULoggerAdapter wires a debug.Logger into the CPU's trace hook.
func NewCPULoggerAdapter(logger *debug.Logger) *CPULoggerAdapter {
	return &CPULoggerAdapter{logger: logger, enabled: true}
}

func (a *CPULoggerAdapter) SetEnabled(enabled bool) { a.enabled = enabled }

// LogInstruction implements cpu.InstructionLogger.
func (a *CPULoggerAdapter) LogInstruction(pc uint16, opcode uint8, mnemonic string, r Registers, clocks uint32) {
	if !a.enabled || a.logger == nil {
		return
	}
	message := fmt.Sprintf("%04X: %02X %-10s AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X (%d clocks)",
		pc, opcode, mnemonic, r.AF(), r.BC(), r.DE(), r.HL(), r.SP, clocks)
	a.logger.LogCPU(debug.LogLevelTrace, message, nil)
}
