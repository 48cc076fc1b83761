package entity

// PipelineState 单次交互的状态
//
//	Idle → Validating → (Rejected | ComposingPrompt) → Invoking → (Rendered | Failed)
//
// 终态之后回到 Idle，交互之间不保留任何状态。
type PipelineState string

const (
	StateIdle            PipelineState = "idle"
	StateValidating      PipelineState = "validating"
	StateRejected        PipelineState = "rejected"
	StateComposingPrompt PipelineState = "composing_prompt"
	StateInvoking        PipelineState = "invoking"
	StateRendered        PipelineState = "rendered"
	StateFailed          PipelineState = "failed"
)

var pipelineTransitions = map[PipelineState][]PipelineState{
	StateIdle:            {StateValidating},
	StateValidating:      {StateRejected, StateComposingPrompt},
	StateComposingPrompt: {StateInvoking, StateFailed},
	StateInvoking:        {StateRendered, StateFailed},
	StateRejected:        {StateIdle},
	StateRendered:        {StateIdle},
	StateFailed:          {StateIdle},
}

// CanTransitionTo 检查状态迁移是否合法
func (s PipelineState) CanTransitionTo(next PipelineState) bool {
	for _, allowed := range pipelineTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal 是否为单次交互的终态
func (s PipelineState) IsTerminal() bool {
	return s == StateRejected || s == StateRendered || s == StateFailed
}
