package pipeline

import (
	"fmt"
	"io"
)

// Stage names the pipeline stage a trace event belongs to.
type Stage string

const (
	StageSeed   Stage = "seed"
	StageExtend Stage = "extend"
	StageMerge  Stage = "merge"
	StageDAG    Stage = "dag"
)

// TraceEvent is one recorded step of a run.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Stage  Stage  `json:"stage"`
	Detail string `json:"detail"`
}

// tracer collects trace events and optionally mirrors them to a debug
// sink. A nil writer disables printing; collection is always on (it is
// cheap and the store wants it).
type tracer struct {
	clock  *Clock
	sink   io.Writer
	events []TraceEvent
}

func newTracer(sink io.Writer) *tracer {
	return &tracer{clock: NewClock(), sink: sink}
}

func (tr *tracer) emit(stage Stage, format string, args ...any) {
	ev := TraceEvent{
		Seq:    tr.clock.Next(),
		Stage:  stage,
		Detail: fmt.Sprintf(format, args...),
	}
	tr.events = append(tr.events, ev)
	if tr.sink != nil {
		fmt.Fprintf(tr.sink, "[%s] %s\n", ev.Stage, ev.Detail)
	}
}
