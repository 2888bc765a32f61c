package project

import (
	"strings"
	"sync"
)

// projectLocks serializa los ciclos leer-modificar-escribir por id de proyecto.
type projectLocks struct {
	mu    sync.Mutex
	locks map[string]*projectLock
}

type projectLock struct {
	sync.Mutex
	refs int
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[string]*projectLock)}
}

// lock bloquea hasta que projectID quede libre y devuelve su func de desbloqueo.
func (p *projectLocks) lock(projectID string) func() {
	projectID = strings.Clone(projectID)
	p.mu.Lock()
	l, ok := p.locks[projectID]
	if !ok {
		l = &projectLock{}
		p.locks[projectID] = l
	}
	l.refs++
	p.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, projectID)
		}
		p.mu.Unlock()
	}
}
