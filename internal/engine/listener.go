package engine

// Listener receives the editor notifications a host UI subscribes to.
type Listener interface {
	AfterRender(objectCount int)
	SelectionCreated()
	SelectionCleared()
	SelectionUpdated()
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) AfterRender(int)   {}
func (NopListener) SelectionCreated() {}
func (NopListener) SelectionCleared() {}
func (NopListener) SelectionUpdated() {}

// ListenerFuncs adapts optional callbacks to a Listener. Nil fields are
// no-ops.
type ListenerFuncs struct {
	OnAfterRender      func(objectCount int)
	OnSelectionCreated func()
	OnSelectionCleared func()
	OnSelectionUpdated func()
}

func (l ListenerFuncs) AfterRender(n int) {
	if l.OnAfterRender != nil {
		l.OnAfterRender(n)
	}
}

func (l ListenerFuncs) SelectionCreated() {
	if l.OnSelectionCreated != nil {
		l.OnSelectionCreated()
	}
}

func (l ListenerFuncs) SelectionCleared() {
	if l.OnSelectionCleared != nil {
		l.OnSelectionCleared()
	}
}

func (l ListenerFuncs) SelectionUpdated() {
	if l.OnSelectionUpdated != nil {
		l.OnSelectionUpdated()
	}
}
