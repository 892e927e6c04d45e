package simulation

// Observer receives each tick snapshot, in order, and the final summary.
// Returning an error aborts the run.
type Observer interface {
	OnTick(TickSnapshot) error
	OnComplete(Summary) error
}

// ObserverFuncs adapts optional callbacks into an Observer.
type ObserverFuncs struct {
	Tick     func(TickSnapshot) error
	Complete func(Summary) error
}

func (o ObserverFuncs) OnTick(s TickSnapshot) error {
	if o.Tick == nil {
		return nil
	}
	return o.Tick(s)
}

func (o ObserverFuncs) OnComplete(s Summary) error {
	if o.Complete == nil {
		return nil
	}
	return o.Complete(s)
}

// MultiObserver forwards to each observer in order and stops at the first
// error.
type MultiObserver []Observer

func (m MultiObserver) OnTick(s TickSnapshot) error {
	for _, o := range m {
		if err := o.OnTick(s); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiObserver) OnComplete(s Summary) error {
	for _, o := range m {
		if err := o.OnComplete(s); err != nil {
			return err
		}
	}
	return nil
}
