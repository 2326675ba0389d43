package vaulthook

import (
	"sync"
)

type listenerSet struct {
	mu           sync.Mutex
	nextID       uint64
	states       map[uint64]func(State)
	diagnostics  map[uint64]func(Diagnostic)
	transactions map[uint64]func(PendingTransaction)
}

func newListenerSet() *listenerSet {
	return &listenerSet{
		states:       make(map[uint64]func(State)),
		diagnostics:  make(map[uint64]func(Diagnostic)),
		transactions: make(map[uint64]func(PendingTransaction)),
	}
}

func (l *listenerSet) add(register func(id uint64), remove func(id uint64)) func() {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	register(id)
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			remove(id)
			l.mu.Unlock()
		})
	}
}

func (l *listenerSet) addState(fn func(State)) func() {
	return l.add(func(id uint64) { l.states[id] = fn }, func(id uint64) { delete(l.states, id) })
}

func (l *listenerSet) addDiagnostic(fn func(Diagnostic)) func() {
	return l.add(func(id uint64) { l.diagnostics[id] = fn }, func(id uint64) { delete(l.diagnostics, id) })
}

func (l *listenerSet) addTransaction(fn func(PendingTransaction)) func() {
	return l.add(func(id uint64) { l.transactions[id] = fn }, func(id uint64) { delete(l.transactions, id) })
}

func (l *listenerSet) clear() {
	l.mu.Lock()
	l.states = make(map[uint64]func(State))
	l.diagnostics = make(map[uint64]func(Diagnostic))
	l.transactions = make(map[uint64]func(PendingTransaction))
	l.mu.Unlock()
}

// Listeners are copied so they run without the lock and can unsubscribe themselves
func (l *listenerSet) notifyState(s State) {
	l.mu.Lock()
	fns := make([]func(State), 0, len(l.states))
	for _, fn := range l.states {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

func (l *listenerSet) notifyDiagnostic(d Diagnostic) {
	l.mu.Lock()
	fns := make([]func(Diagnostic), 0, len(l.diagnostics))
	for _, fn := range l.diagnostics {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(d)
	}
}

func (l *listenerSet) notifyTransaction(tx PendingTransaction) {
	l.mu.Lock()
	fns := make([]func(PendingTransaction), 0, len(l.transactions))
	for _, fn := range l.transactions {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(tx)
	}
}
