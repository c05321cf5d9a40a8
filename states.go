package textframe

// State is a state of the decoder. The decoder cycles AwaitingHeader -> AwaitingContent ->
// MessageReady -> AwaitingHeader for every message, until it's Closed.
type State uint8

const (
	AwaitingHeader State = iota + 1
	AwaitingContent
	MessageReady
	Closed
)

func (s State) String() string {
	switch s {
	case AwaitingHeader:
		return "AwaitingHeader"
	case AwaitingContent:
		return "AwaitingContent"
	case MessageReady:
		return "MessageReady"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}
