package form

import (
	"campussafety/internal/model"
	"strings"
	"sync"
)

// Answers is a read-only view of an Answer State
type Answers interface {
	// Get returns the value stored under a state key
	Get(key string) (Value, bool)
	// File returns the uploaded file attached to a photoUpload question
	File(questionID string) (model.UploadedFile, bool)
}

// OptionKey is the state key of one toggle of a checkbox or multiButtonSelect
func OptionKey(questionID, optionValue string) string {
	return questionID + "." + optionValue
}

// SubKey is the state key of one part of a compound answer
func SubKey(questionID, field string) string {
	return questionID + "." + field
}

// CommentKey is the state key of a question's free text comment
func CommentKey(questionID string) string {
	return questionID + "_comment"
}

// State is a plain Answer State
type State struct {
	Values map[string]Value
	Files  map[string]model.UploadedFile
}

// NewState creates an empty state
func NewState() *State {
	return &State{
		Values: make(map[string]Value),
		Files:  make(map[string]model.UploadedFile),
	}
}

func (s *State) Get(key string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	v, ok := s.Values[key]
	return v, ok
}

func (s *State) File(questionID string) (model.UploadedFile, bool) {
	if s == nil {
		return model.UploadedFile{}, false
	}
	f, ok := s.Files[questionID]
	return f, ok
}

// Change describes one write to a Store
type Change struct {
	Key      string
	Previous Value
	Existed  bool
	Value    Value
	File     *model.UploadedFile // set for file attachments, Key is the question ID
}

// Store owns a session's Answer State. Subscribers run synchronously after
// every write, outside the lock.
type Store struct {
	mu        sync.RWMutex
	state     *State
	listeners map[int]func(Change)
	nextID    int
}

// NewStore creates a store seeded with initial, which it takes ownership of
func NewStore(initial *State) *Store {
	if initial == nil {
		initial = NewState()
	}
	if initial.Values == nil {
		initial.Values = make(map[string]Value)
	}
	if initial.Files == nil {
		initial.Files = make(map[string]model.UploadedFile)
	}
	return &Store{
		state:     initial,
		listeners: make(map[int]func(Change)),
	}
}

func (s *Store) Get(key string) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Get(key)
}

func (s *Store) File(questionID string) (model.UploadedFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.File(questionID)
}

// Set writes a value and notifies subscribers
func (s *Store) Set(key string, v Value) {
	s.mu.Lock()
	prev, existed := s.state.Values[key]
	s.state.Values[key] = v
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	change := Change{Key: key, Previous: prev, Existed: existed, Value: v}
	for _, fn := range listeners {
		fn(change)
	}
}

// SetAnswer writes a coerced value for one of q's keys. A time answer is
// kept whole at the question id with its parts mirrored into the hour,
// minute and period keys, so a write to either form updates both.
func (s *Store) SetAnswer(q *model.QuestionDefinition, key string, v Value) {
	if familyOf(q.Component) != familyTime || key == CommentKey(q.ID) {
		s.Set(key, v)
		return
	}

	t := timeOf(q.ID, s)
	if key == q.ID {
		t = v.Time
	} else {
		switch strings.TrimPrefix(key, q.ID+".") {
		case "hour":
			t.Hour = v.String()
		case "minute":
			t.Minute = v.String()
		case "period":
			t.Period = v.String()
		default:
			return
		}
	}

	s.Set(q.ID, Time(t.Hour, t.Minute, t.Period))
	s.Set(SubKey(q.ID, "hour"), Scalar(t.Hour))
	s.Set(SubKey(q.ID, "minute"), Scalar(t.Minute))
	s.Set(SubKey(q.ID, "period"), Scalar(t.Period))
}

// SetFile attaches an uploaded file to a question, replacing any earlier one
func (s *Store) SetFile(questionID string, f model.UploadedFile) {
	s.mu.Lock()
	s.state.Files[questionID] = f
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	change := Change{Key: questionID, File: &f}
	for _, fn := range listeners {
		fn(change)
	}
}

// Subscribe registers fn for every subsequent write. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := &State{
		Values: make(map[string]Value, len(s.state.Values)),
		Files:  make(map[string]model.UploadedFile, len(s.state.Files)),
	}
	for k, v := range s.state.Values {
		out.Values[k] = v
	}
	for k, f := range s.state.Files {
		out.Files[k] = f
	}
	return out
}

func (s *Store) snapshotListeners() []func(Change) {
	out := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}
