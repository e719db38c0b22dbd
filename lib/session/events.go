package session

type EventListener func(s *Session, data interface{})

const (
	EventQuit            = "quit"
	EventProgramReloaded = "program-reloaded"
)

type EventDataQuit struct {
	Event  string
	Reason string
}

type EventDataProgramReloaded struct {
	Event   string
	Success bool
	Error   string `json:",omitempty"`
}

func (s *Session) AddEventListener(event string, callback EventListener) {
	s.listenerMutex.Lock()
	defer s.listenerMutex.Unlock()
	s.listener[event] = append(s.listener[event], callback)
}

// ProgramReloaded notifies listeners about the outcome of a reload.
func (s *Session) ProgramReloaded(err error) {
	data := EventDataProgramReloaded{Event: EventProgramReloaded, Success: err == nil}
	if err != nil {
		data.Error = err.Error()
	}
	s.invoke(EventProgramReloaded, data)
}

func (s *Session) invoke(event string, data interface{}) {
	s.listenerMutex.Lock()
	listeners := append([]EventListener(nil), s.listener[event]...)
	s.listenerMutex.Unlock()

	for _, listener := range listeners {
		go listener(s, data)
	}
}
