package evstream

import "sync"

// Subscription is the handle returned from [Stream.Subscribe].
//
// Only handles returned from Subscribe are attached to anything.
// Unsubscribe on a zero Subscription is a no-op,
// and its Done channel is nil.
type Subscription struct {
	once   sync.Once
	detach func()
	done   chan struct{}
}

// Unsubscribe detaches the subscription.
// Once Unsubscribe returns, no new deliveries begin for this subscription;
// a callback already running on another goroutine is not interrupted.
//
// Unsubscribe is safe to call multiple times and from multiple goroutines.
// Only the first call has any effect.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.detach != nil {
			s.detach()
		}
		if s.done != nil {
			close(s.done)
		}
	})
}

// Done returns a channel that is closed once the subscription is released.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
