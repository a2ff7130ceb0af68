package service

import (
	"campussafety/internal/form"
	"campussafety/internal/model"
	"context"
	"errors"
	"fmt"
	"sync"
)

type fakeAssignments struct {
	mu    sync.Mutex
	items map[string]*model.Assignment
	next  int
}

func newFakeAssignments(items ...*model.Assignment) *fakeAssignments {
	f := &fakeAssignments{items: map[string]*model.Assignment{}}
	for _, a := range items {
		f.items[a.ID] = a
	}
	return f
}

func (f *fakeAssignments) Create(_ context.Context, a *model.Assignment) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	a.ID = fmt.Sprintf("a%d", f.next)
	f.items[a.ID] = a
	return a.ID, nil
}

func (f *fakeAssignments) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id], nil
}

func (f *fakeAssignments) GetByAccount(_ context.Context, account string, page, perPage int) ([]*model.Assignment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*model.Assignment
	for _, a := range f.items {
		if a.Account == account {
			all = append(all, a)
		}
	}
	total := int64(len(all))
	start := (page - 1) * perPage
	if start >= len(all) {
		return []*model.Assignment{}, total, nil
	}
	end := min(start+perPage, len(all))
	return all[start:end], total, nil
}

func (f *fakeAssignments) Update(_ context.Context, a *model.Assignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[a.ID] = a
	return nil
}

func (f *fakeAssignments) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

type fakeDrafts struct {
	mu     sync.Mutex
	drafts map[string]*model.Draft
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{drafts: map[string]*model.Draft{}}
}

func (f *fakeDrafts) Save(_ context.Context, d *model.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts[d.AssignmentID+"/"+d.Account] = d
	return nil
}

func (f *fakeDrafts) Get(_ context.Context, assignmentID, account string) (*model.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drafts[assignmentID+"/"+account], nil
}

func (f *fakeDrafts) Delete(_ context.Context, assignmentID, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.drafts, assignmentID+"/"+account)
	return nil
}

type fakeLocations struct {
	locations map[string][]model.Location
	calls     int
}

func (f *fakeLocations) GetByAccount(_ context.Context, accountID string) ([]model.Location, error) {
	f.calls++
	return f.locations[accountID], nil
}

func (f *fakeLocations) Upsert(_ context.Context, l *model.Location) error {
	f.locations[l.AccountID] = append(f.locations[l.AccountID], *l)
	return nil
}

type fakeLocationCache struct {
	mu      sync.Mutex
	entries map[string][]model.Location
}

func newFakeLocationCache() *fakeLocationCache {
	return &fakeLocationCache{entries: map[string][]model.Location{}}
}

func (f *fakeLocationCache) Get(_ context.Context, accountID string) ([]model.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[accountID], nil
}

func (f *fakeLocationCache) Set(_ context.Context, accountID string, locations []model.Location) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if locations == nil {
		locations = []model.Location{}
	}
	f.entries[accountID] = locations
	return nil
}

func (f *fakeLocationCache) Invalidate(_ context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, accountID)
	return nil
}

type fakeSession struct {
	state   *form.State
	errors  map[string]string
	uploads map[string]string
}

// fakeSessions mirrors the Redis session cache semantics in memory
type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*fakeSession

	// completeFailures makes that many CompleteUpload calls fail first
	completeFailures int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[string]*fakeSession{}}
}

func (f *fakeSessions) get(assignmentID, account string) *fakeSession {
	return f.sessions[assignmentID+"/"+account]
}

func (f *fakeSessions) ensure(assignmentID, account string) *fakeSession {
	s := f.get(assignmentID, account)
	if s == nil {
		s = &fakeSession{state: form.NewState(), errors: map[string]string{}, uploads: map[string]string{}}
		f.sessions[assignmentID+"/"+account] = s
	}
	return s
}

func (f *fakeSessions) Load(_ context.Context, assignmentID, account string) (*form.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.get(assignmentID, account)
	if s == nil {
		return nil, nil
	}
	return copyState(s.state), nil
}

func (f *fakeSessions) Init(_ context.Context, assignmentID, account string, st *form.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[assignmentID+"/"+account] = &fakeSession{
		state:   copyState(st),
		errors:  map[string]string{},
		uploads: map[string]string{},
	}
	return nil
}

func (f *fakeSessions) SetValues(_ context.Context, assignmentID, account string, values map[string]form.Value) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.ensure(assignmentID, account)
	for k, v := range values {
		s.state.Values[k] = v
	}
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, assignmentID, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, assignmentID+"/"+account)
	return nil
}

func (f *fakeSessions) StartUpload(_ context.Context, assignmentID, account, questionID, uploadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.ensure(assignmentID, account)
	s.uploads[questionID] = uploadID
	delete(s.errors, questionID)
	return nil
}

func (f *fakeSessions) CompleteUpload(_ context.Context, assignmentID, account, questionID, uploadID string, file model.UploadedFile) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeFailures > 0 {
		f.completeFailures--
		return false, errors.New("redis unavailable")
	}
	s := f.ensure(assignmentID, account)
	if s.uploads[questionID] != uploadID {
		return false, nil
	}
	s.state.Files[questionID] = file
	delete(s.errors, questionID)
	delete(s.uploads, questionID)
	return true, nil
}

func (f *fakeSessions) FailUpload(_ context.Context, assignmentID, account, questionID, uploadID, message string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.ensure(assignmentID, account)
	if s.uploads[questionID] != uploadID {
		return false, nil
	}
	s.errors[questionID] = message
	delete(s.uploads, questionID)
	return true, nil
}

func (f *fakeSessions) UploadErrors(_ context.Context, assignmentID, account string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]string{}
	if s := f.get(assignmentID, account); s != nil {
		for k, v := range s.errors {
			out[k] = v
		}
	}
	return out, nil
}

func copyState(st *form.State) *form.State {
	out := form.NewState()
	for k, v := range st.Values {
		out.Values[k] = v
	}
	for k, v := range st.Files {
		out.Files[k] = v
	}
	return out
}

type fakeGate struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeGate() *fakeGate {
	return &fakeGate{held: map[string]bool{}}
}

func (g *fakeGate) Acquire(_ context.Context, assignmentID, account string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := assignmentID + "/" + account
	if g.held[key] {
		return false, nil
	}
	g.held[key] = true
	return true, nil
}

func (g *fakeGate) Release(_ context.Context, assignmentID, account string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, assignmentID+"/"+account)
	return nil
}

type fakeCompletions struct {
	mu    sync.Mutex
	items []*model.Completion
}

func (f *fakeCompletions) Create(_ context.Context, c *model.Completion) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == "" {
		c.ID = fmt.Sprintf("c%d", len(f.items)+1)
	}
	f.items = append(f.items, c)
	return c.ID, nil
}

func (f *fakeCompletions) GetByID(_ context.Context, id string) (*model.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCompletions) GetByAssignment(_ context.Context, assignmentID, account string) ([]*model.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Completion
	for _, c := range f.items {
		if c.AssignmentID == assignmentID && c.Account == account {
			out = append(out, c)
		}
	}
	return out, nil
}

// event is one recorded broadcast
type event struct {
	msgType string
	payload interface{}
}

// recordingBroadcaster collects broadcasts and signals each one on events
type recordingBroadcaster struct {
	events       chan event
	disconnected chan string
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{
		events:       make(chan event, 64),
		disconnected: make(chan string, 4),
	}
}

func (b *recordingBroadcaster) BroadcastToSession(_, _ string, msgType string, payload interface{}) {
	b.events <- event{msgType: msgType, payload: payload}
}

func (b *recordingBroadcaster) DisconnectSession(assignmentID, _ string) {
	b.disconnected <- assignmentID
}
