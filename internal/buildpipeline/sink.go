package buildpipeline

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// FuncSink adapts a plain function to ProgressSink.
type FuncSink func(Event)

func (s FuncSink) OnEvent(evt Event) {
	if s != nil {
		s(evt)
	}
}

// Emit sends one event through sink if it is non-nil.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// EmitFiles sends the same stage/status for a batch of files.
func EmitFiles(sink ProgressSink, files []string, stage Stage, status Status, err error) {
	if sink == nil {
		return
	}
	for _, f := range files {
		sink.OnEvent(Event{File: f, Stage: stage, Status: status, Err: err})
	}
}
