package analysis

// Channel identifies one side of a stereo signal.
type Channel int

const (
	Left Channel = iota
	Right
)

// Channels lists both stereo channels in render order.
var Channels = [2]Channel{Left, Right}

func (c Channel) String() string {
	if c == Right {
		return "right"
	}
	return "left"
}

// Label returns the single-letter meter label for the channel.
func (c Channel) Label() string {
	if c == Right {
		return "R"
	}
	return "L"
}

// Buffers holds one channel's byte buffers for a single frame.
type Buffers struct {
	TimeDomain []byte
	Frequency  []byte
}

// Frame is the per-tick sample snapshot of both channels.
type Frame [2]Buffers

// NewFrame allocates a frame whose buffers all hold size bytes. Time-domain
// buffers start at the silence midpoint.
func NewFrame(size int) Frame {
	var f Frame
	for i := range f {
		f[i] = Buffers{
			TimeDomain: make([]byte, size),
			Frequency:  make([]byte, size),
		}
		for j := range f[i].TimeDomain {
			f[i].TimeDomain[j] = byteMidpoint
		}
	}
	return f
}
