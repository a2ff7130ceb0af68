package service

import (
	"campussafety/internal/cache"
	"campussafety/internal/fault"
	"campussafety/internal/form"
	"campussafety/internal/log"
	"campussafety/internal/model"
	"campussafety/internal/repository"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// FormView is everything a client needs to render an open session
type FormView struct {
	Assignment   *model.Assignment             `json:"assignment"`
	Options      map[string][]model.Option     `json:"options"`
	Answers      map[string]form.Value         `json:"answers"`
	Files        map[string]model.UploadedFile `json:"files"`
	UploadErrors map[string]string             `json:"uploadErrors"`
	Visible      []string                      `json:"visible"`
	Progress     form.Progress                 `json:"progress"`
	Page         form.Selection                `json:"page"`
	Restored     bool                          `json:"restored"` // answers came from a saved draft
}

// AnswerInput is one client write. Value is plain JSON; it is typed against
// the question that owns Key.
type AnswerInput struct {
	Key   string `json:"key" validate:"required"`
	Value any    `json:"value"`
}

// AnswerResult reports the session after a batch of writes
type AnswerResult struct {
	Progress form.Progress     `json:"progress"`
	Visible  []string          `json:"visible"`
	Rejected map[string]string `json:"rejected,omitempty"`
}

// VisibilityChange lists question ids that appeared or disappeared
type VisibilityChange struct {
	Shown  []string `json:"shown"`
	Hidden []string `json:"hidden"`
}

// session is a loaded form session
type session struct {
	assignment *model.Assignment
	def        *form.Definition
	state      *form.State
	restored   bool
}

// FormService drives open form sessions
type FormService struct {
	assignments repository.AssignmentRepo
	drafts      repository.DraftRepo
	locations   *LocationService
	sessions    cache.SessionCache
	gate        cache.SubmitGate
	submitter   Submitter
	broadcaster Broadcaster
	loc         *time.Location
	now         func() time.Time
}

func NewFormService(
	assignments repository.AssignmentRepo,
	drafts repository.DraftRepo,
	locations *LocationService,
	sessions cache.SessionCache,
	gate cache.SubmitGate,
	submitter Submitter,
	loc *time.Location,
) *FormService {
	if loc == nil {
		loc = time.UTC
	}
	return &FormService{
		assignments: assignments,
		drafts:      drafts,
		locations:   locations,
		sessions:    sessions,
		gate:        gate,
		submitter:   submitter,
		broadcaster: noopBroadcaster{},
		loc:         loc,
		now:         time.Now,
	}
}

func (s *FormService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// load fetches the assignment, the account's locations and the live session
// concurrently. Without a live session the saved draft is restored, or
// defaults are applied, and a new session is started.
func (s *FormService) load(ctx context.Context, assignmentID string, claims *model.AccountClaims) (*session, error) {
	var (
		assignment *model.Assignment
		locations  []model.Location
		live       *form.State
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.assignments.GetByID(gctx, assignmentID)
		assignment = a
		return err
	})
	g.Go(func() error {
		l, err := s.locations.List(gctx, claims.AccountID)
		locations = l
		return err
	})
	g.Go(func() error {
		st, err := s.sessions.Load(gctx, assignmentID, claims.AccountID)
		live = st
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fault.NewUnavailable("failed to load session", err)
	}
	if assignment == nil || assignment.Account != claims.AccountID {
		return nil, fault.NewNotFound("assignment not found")
	}

	sess := &session{
		assignment: assignment,
		def:        form.NewDefinition(assignment.Questions, locations),
		state:      live,
	}
	if sess.state != nil {
		return sess, nil
	}

	draft, err := s.drafts.Get(ctx, assignmentID, claims.AccountID)
	if err != nil {
		return nil, fault.NewUnavailable("failed to load draft", err)
	}
	if draft != nil {
		sess.state = stateFromDraft(draft)
		sess.restored = true
	} else {
		sess.state = sess.def.Defaults(s.now(), s.loc)
	}

	if err := s.sessions.Init(ctx, assignmentID, claims.AccountID, sess.state); err != nil {
		return nil, fault.NewUnavailable("failed to start session", err)
	}
	log.WithFields(log.Fields{
		"assignment": assignmentID,
		"account":    claims.AccountID,
		"restored":   sess.restored,
	}).Info("form session started")
	return sess, nil
}

// Open returns the first page of the session
func (s *FormService) Open(ctx context.Context, assignmentID string, claims *model.AccountClaims) (*FormView, error) {
	return s.View(ctx, assignmentID, claims, form.Filter{Page: 1})
}

// View returns the session with the page selected by f
func (s *FormService) View(ctx context.Context, assignmentID string, claims *model.AccountClaims, f form.Filter) (*FormView, error) {
	sess, err := s.load(ctx, assignmentID, claims)
	if err != nil {
		return nil, err
	}
	uploadErrors, err := s.sessions.UploadErrors(ctx, assignmentID, claims.AccountID)
	if err != nil {
		return nil, fault.NewUnavailable("failed to load upload errors", err)
	}

	options := make(map[string][]model.Option)
	for _, q := range sess.def.Questions() {
		q := q
		if opts := sess.def.Options(&q); len(opts) > 0 {
			options[q.ID] = opts
		}
	}

	return &FormView{
		Assignment:   sess.assignment,
		Options:      options,
		Answers:      sess.state.Values,
		Files:        sess.state.Files,
		UploadErrors: uploadErrors,
		Visible:      ids(sess.def.Visible(sess.state)),
		Progress:     sess.def.Progress(sess.state),
		Page:         sess.def.Select(sess.state, f),
		Restored:     sess.restored,
	}, nil
}

// Answer applies a batch of writes. Keys that belong to no question, static
// questions, photo questions or values without a usable shape are rejected
// and reported; the rest are applied.
func (s *FormService) Answer(ctx context.Context, assignmentID string, claims *model.AccountClaims, inputs []AnswerInput) (*AnswerResult, error) {
	sess, err := s.load(ctx, assignmentID, claims)
	if err != nil {
		return nil, err
	}
	before := ids(sess.def.Visible(sess.state))

	store := form.NewStore(sess.state)
	changed := make(map[string]form.Value)
	unsubscribe := store.Subscribe(func(c form.Change) {
		if c.File == nil {
			changed[c.Key] = c.Value
		}
	})
	defer unsubscribe()

	rejected := make(map[string]string)
	for _, in := range inputs {
		q, ok := sess.def.QuestionForKey(in.Key)
		switch {
		case !ok:
			rejected[in.Key] = "unknown question"
			continue
		case form.IsStatic(q.Component):
			rejected[in.Key] = "question takes no answer"
			continue
		case q.Component == model.ComponentPhotoUpload && in.Key == q.ID:
			rejected[in.Key] = "photos are sent to the upload endpoint"
			continue
		}
		v, ok := form.Coerce(q, in.Key, in.Value)
		if !ok {
			rejected[in.Key] = fmt.Sprintf("unsupported value for %s", q.Component)
			continue
		}
		store.SetAnswer(q, in.Key, v)
	}

	if err := s.sessions.SetValues(ctx, assignmentID, claims.AccountID, changed); err != nil {
		return nil, fault.NewUnavailable("failed to save answers", err)
	}

	current := store.Snapshot()
	progress := sess.def.Progress(current)
	after := ids(sess.def.Visible(current))

	s.broadcaster.BroadcastToSession(assignmentID, claims.AccountID, EventProgressUpdate, progress)
	if change := diffVisible(before, after); len(change.Shown) > 0 || len(change.Hidden) > 0 {
		s.broadcaster.BroadcastToSession(assignmentID, claims.AccountID, EventVisibilityChanged, change)
	}

	result := &AnswerResult{Progress: progress, Visible: after}
	if len(rejected) > 0 {
		result.Rejected = rejected
	}
	return result, nil
}

// SaveDraft persists the live session so it survives session expiry
func (s *FormService) SaveDraft(ctx context.Context, assignmentID string, claims *model.AccountClaims) (*model.Draft, error) {
	sess, err := s.load(ctx, assignmentID, claims)
	if err != nil {
		return nil, err
	}

	draft, err := draftFromState(assignmentID, claims.AccountID, sess.state)
	if err != nil {
		return nil, fault.NewInternalError("failed to encode draft", err)
	}
	draft.SavedAt = s.now().UTC()
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, fault.NewUnavailable("failed to save draft", err)
	}

	s.broadcaster.BroadcastToSession(assignmentID, claims.AccountID, EventDraftSaved, map[string]any{
		"savedAt": draft.SavedAt,
	})
	return draft, nil
}

// Submit validates required answers, normalizes the visible questions and
// hands the payload to the submitter. The session is kept when delivery
// fails so the user can retry.
func (s *FormService) Submit(ctx context.Context, assignmentID string, claims *model.AccountClaims) (*model.SubmitResult, error) {
	acquired, err := s.gate.Acquire(ctx, assignmentID, claims.AccountID)
	if err != nil {
		return nil, fault.NewUnavailable("failed to lock session", err)
	}
	if !acquired {
		return nil, fault.NewConflict("a submission is already in progress")
	}
	defer func() {
		if err := s.gate.Release(context.WithoutCancel(ctx), assignmentID, claims.AccountID); err != nil {
			log.WithFields(log.Fields{"assignment": assignmentID}).WithError(err).Warn("failed to release submit gate")
		}
	}()

	sess, err := s.load(ctx, assignmentID, claims)
	if err != nil {
		return nil, err
	}

	if missing := sess.def.MissingRequired(sess.state); len(missing) > 0 {
		fields := make(map[string]string, len(missing))
		for _, q := range missing {
			fields[q.ID] = "this question is required"
		}
		return nil, fault.NewValidationError("required questions are unanswered", fields)
	}

	payload, warnings := BuildPayload(sess.def, sess.state, claims, s.now(), s.loc)
	for _, w := range warnings {
		log.WithFields(log.Fields{"assignment": assignmentID, "question": w.QuestionID}).WithError(w.Err).Warn("deficiency rule failed")
	}

	result, err := s.submitter.Submit(ctx, assignmentID, payload)
	if err != nil {
		log.WithFields(log.Fields{"assignment": assignmentID, "account": claims.AccountID}).WithError(err).Error("submission failed")
		return nil, fault.NewUnavailable("failed to submit completion", err)
	}
	if !result.Success {
		log.WithFields(log.Fields{"assignment": assignmentID, "account": claims.AccountID}).Warnf("submission refused: %s", result.Error)
		msg := result.Error
		if msg == "" {
			msg = "completion was refused"
		}
		return nil, fault.NewUnavailable(msg, nil)
	}

	if err := s.drafts.Delete(ctx, assignmentID, claims.AccountID); err != nil {
		log.WithFields(log.Fields{"assignment": assignmentID}).WithError(err).Warn("failed to delete draft")
	}
	if err := s.sessions.Delete(ctx, assignmentID, claims.AccountID); err != nil {
		log.WithFields(log.Fields{"assignment": assignmentID}).WithError(err).Warn("failed to delete session")
	}

	s.broadcaster.BroadcastToSession(assignmentID, claims.AccountID, EventSubmitted, result)
	s.broadcaster.DisconnectSession(assignmentID, claims.AccountID)

	log.WithFields(log.Fields{
		"assignment":   assignmentID,
		"account":      claims.AccountID,
		"deficiencies": len(payload.Deficiencies),
	}).Info("assignment submitted")
	return result, nil
}

func ids(questions []model.QuestionDefinition) []string {
	out := make([]string, len(questions))
	for i := range questions {
		out[i] = questions[i].ID
	}
	return out
}

func diffVisible(before, after []string) VisibilityChange {
	was := make(map[string]bool, len(before))
	for _, id := range before {
		was[id] = true
	}
	is := make(map[string]bool, len(after))
	for _, id := range after {
		is[id] = true
	}

	change := VisibilityChange{Shown: []string{}, Hidden: []string{}}
	for _, id := range after {
		if !was[id] {
			change.Shown = append(change.Shown, id)
		}
	}
	for _, id := range before {
		if !is[id] {
			change.Hidden = append(change.Hidden, id)
		}
	}
	return change
}

// stateFromDraft skips answers that no longer decode
func stateFromDraft(d *model.Draft) *form.State {
	st := form.NewState()
	for k, raw := range d.Answers {
		var v form.Value
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			continue
		}
		st.Values[k] = v
	}
	for k, f := range d.UploadedFiles {
		st.Files[k] = f
	}
	return st
}

func draftFromState(assignmentID, account string, st *form.State) (*model.Draft, error) {
	d := &model.Draft{
		AssignmentID:  assignmentID,
		Account:       account,
		Answers:       make(map[string]string, len(st.Values)),
		UploadedFiles: make(map[string]model.UploadedFile, len(st.Files)),
	}
	for k, v := range st.Values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		d.Answers[k] = string(data)
	}
	for k, f := range st.Files {
		d.UploadedFiles[k] = f
	}
	return d, nil
}
