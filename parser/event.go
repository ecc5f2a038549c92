package parser

import "fmt"

type EventKind uint8

const (
	EventStart EventKind = iota
	EventFinish
	EventToken
	EventError
)

// Event is one instruction of the event log. A Start whose Syntax is
// Tombstone is an abandoned node and produces nothing.
//
// ForwardParent is the distance to a later Start event that becomes the
// parent of this node; zero means none. It is how CompletedMarker.Precede
// wraps a node that was already emitted.
type Event struct {
	Kind          EventKind
	Syntax        SyntaxKind
	ForwardParent int
	NRawTokens    int
	Msg           string
	Bug           bool
}

func (e Event) String() string {
	switch e.Kind {
	case EventStart:
		if e.ForwardParent != 0 {
			return fmt.Sprintf("Start(%s, +%d)", e.Syntax, e.ForwardParent)
		}
		return fmt.Sprintf("Start(%s)", e.Syntax)
	case EventFinish:
		return "Finish"
	case EventToken:
		return fmt.Sprintf("Token(%s, %d)", e.Syntax, e.NRawTokens)
	case EventError:
		return fmt.Sprintf("Error(%q)", e.Msg)
	}
	return "Unknown"
}

func tombstone() Event {
	return Event{Kind: EventStart, Syntax: Tombstone}
}

// ParseError is a diagnostic produced while parsing. Bug marks a broken
// parser invariant rather than a syntax error in the input.
type ParseError struct {
	Message string
	Bug     bool
}

func (e ParseError) Error() string {
	if e.Bug {
		return "parser bug: " + e.Message
	}
	return e.Message
}

// TreeSink receives the tree shape produced by Process. Calls arrive in
// nested order: every StartNode is matched by exactly one FinishNode.
type TreeSink interface {
	// Token consumes nTokens raw tokens as one token of the given kind;
	// nTokens is greater than one for composite punctuation such as `::`.
	Token(kind SyntaxKind, nTokens int)
	StartNode(kind SyntaxKind)
	FinishNode()
	Error(err ParseError)
}

// Process replays events into sink. It resolves forward parents with an
// explicit stack so long precede chains do not recurse. The slice is
// consumed: visited forward parents are overwritten with tombstones.
func Process(sink TreeSink, events []Event) {
	var parents []SyntaxKind
	for i := range events {
		ev := events[i]
		switch ev.Kind {
		case EventStart:
			parents = append(parents, ev.Syntax)
			idx, fp := i, ev.ForwardParent
			for fp != 0 {
				idx += fp
				next := events[idx]
				events[idx] = tombstone()
				parents = append(parents, next.Syntax)
				fp = next.ForwardParent
			}
			for j := len(parents) - 1; j >= 0; j-- {
				if parents[j] != Tombstone {
					sink.StartNode(parents[j])
				}
			}
			parents = parents[:0]
		case EventFinish:
			sink.FinishNode()
		case EventToken:
			sink.Token(ev.Syntax, ev.NRawTokens)
		case EventError:
			sink.Error(ParseError{Message: ev.Msg, Bug: ev.Bug})
		}
	}
}
