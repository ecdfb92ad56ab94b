package leafclient

// Notifier receives user-visible failure notifications. Every application or
// transport error produces exactly one Error call before the originating
// request rejects, so UI layers can render notifications without inspecting
// returned errors.
type Notifier interface {
	Error(message string)
}

// Navigator forces the UI to the login route. It is invoked only on
// authentication expiry (application or HTTP code 401), after the session has
// been cleared.
type Navigator interface {
	NavigateToLogin()
}

// NoOpNotifier discards notifications.
type NoOpNotifier struct{}

func (NoOpNotifier) Error(string) {}

// NoOpNavigator ignores navigation requests.
type NoOpNavigator struct{}

func (NoOpNavigator) NavigateToLogin() {}

// ChannelNotifier forwards notification messages to a channel, dropping them
// when the channel is full. Useful for UI event loops that poll.
type ChannelNotifier struct {
	messages chan string
}

func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelNotifier{messages: make(chan string, buffer)}
}

func (n *ChannelNotifier) Error(message string) {
	select {
	case n.messages <- message:
	default:
	}
}

func (n *ChannelNotifier) Messages() <-chan string {
	return n.messages
}

// FuncNotifier adapts a plain function to the Notifier interface.
type FuncNotifier func(message string)

func (f FuncNotifier) Error(message string) { f(message) }

// FuncNavigator adapts a plain function to the Navigator interface.
type FuncNavigator func()

func (f FuncNavigator) NavigateToLogin() { f() }
