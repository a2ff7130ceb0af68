package service

import (
	"bytes"
	"campussafety/internal/cache"
	"campussafety/internal/fault"
	"campussafety/internal/log"
	"campussafety/internal/model"
	"campussafety/internal/pkg/workerpool"
	"campussafety/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UploadTicket identifies an accepted upload. Its outcome arrives over the
// session's WebSocket.
type UploadTicket struct {
	UploadID   string `json:"uploadId"`
	QuestionID string `json:"questionId"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
}

// UploadEvent is the payload of upload_progress, upload_complete and
// upload_failed
type UploadEvent struct {
	UploadID   string              `json:"uploadId"`
	QuestionID string              `json:"questionId"`
	Percent    int                 `json:"percent,omitempty"`
	File       *model.UploadedFile `json:"file,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// UploadService runs photo transfers on the worker pool
type UploadService struct {
	forms       *FormService
	sessions    cache.SessionCache
	transport   repository.UploadTransport
	pool        *workerpool.WorkerPool
	broadcaster Broadcaster
	maxBytes    int64
	retries     int
	retryDelay  time.Duration
}

func NewUploadService(
	forms *FormService,
	sessions cache.SessionCache,
	transport repository.UploadTransport,
	pool *workerpool.WorkerPool,
	maxBytes int64,
	retries int,
) *UploadService {
	if retries < 1 {
		retries = 1
	}
	return &UploadService{
		forms:       forms,
		sessions:    sessions,
		transport:   transport,
		pool:        pool,
		broadcaster: noopBroadcaster{},
		maxBytes:    maxBytes,
		retries:     retries,
		retryDelay:  time.Second,
	}
}

func (s *UploadService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Upload accepts a photo for questionID and queues its transfer. A later
// upload for the same question supersedes this one.
func (s *UploadService) Upload(ctx context.Context, assignmentID, questionID string, claims *model.AccountClaims, name string, data []byte) (*UploadTicket, error) {
	if len(data) == 0 {
		return nil, fault.NewValidationError("empty file", map[string]string{"file": "file is required"})
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fault.NewValidationError("file too large", map[string]string{
			"file": fmt.Sprintf("file exceeds %d bytes", s.maxBytes),
		})
	}

	sess, err := s.forms.load(ctx, assignmentID, claims)
	if err != nil {
		return nil, err
	}
	q, ok := sess.def.Question(questionID)
	if !ok {
		return nil, fault.NewNotFound("question not found")
	}
	if q.Component != model.ComponentPhotoUpload && !q.PhotoUpload {
		return nil, fault.NewClientError(fmt.Sprintf("question %s does not take photos", questionID), nil)
	}

	ticket := &UploadTicket{
		UploadID:   uuid.New().String(),
		QuestionID: questionID,
		Name:       name,
		Size:       int64(len(data)),
	}
	account := claims.AccountID
	if err := s.sessions.StartUpload(ctx, assignmentID, account, questionID, ticket.UploadID); err != nil {
		return nil, fault.NewUnavailable("failed to record upload", err)
	}

	logger := log.WithFields(log.Fields{
		"assignment": assignmentID,
		"account":    account,
		"question":   questionID,
		"upload":     ticket.UploadID,
	})

	// attempts run in order on one worker; a stored file is not sent again
	var stored *model.UploadedFile
	job := workerpool.WithRetry(s.retries, s.retryDelay,
		func(ctx context.Context) error {
			if stored == nil {
				file, err := s.transfer(ctx, assignmentID, account, ticket, data)
				if err != nil {
					return err
				}
				stored = file
			}
			return s.resolve(ctx, assignmentID, account, ticket, stored)
		},
		func(err error) {
			s.fail(assignmentID, account, ticket, err)
		},
	)
	if !s.pool.Submit(job) {
		s.fail(assignmentID, account, ticket, errors.New("upload queue is full"))
		return nil, fault.NewUnavailable("upload queue is full, try again", nil)
	}

	logger.Debug("upload queued")
	return ticket, nil
}

// transfer streams the photo to the transport
func (s *UploadService) transfer(ctx context.Context, assignmentID, account string, ticket *UploadTicket, data []byte) (*model.UploadedFile, error) {
	last := -1
	progress := func(percent int) {
		if percent == last {
			return
		}
		last = percent
		s.broadcaster.BroadcastToSession(assignmentID, account, EventUploadProgress, UploadEvent{
			UploadID:   ticket.UploadID,
			QuestionID: ticket.QuestionID,
			Percent:    percent,
		})
	}

	file, err := s.transport.Upload(ctx, ticket.Name, bytes.NewReader(data), ticket.Size, progress)
	if err != nil {
		return nil, err
	}
	file.QuestionID = ticket.QuestionID
	if file.UploadDate == nil {
		now := time.Now().UTC()
		file.UploadDate = &now
	}
	return file, nil
}

// resolve attaches a stored file unless a newer upload took over
func (s *UploadService) resolve(ctx context.Context, assignmentID, account string, ticket *UploadTicket, file *model.UploadedFile) error {
	latest, err := s.sessions.CompleteUpload(ctx, assignmentID, account, ticket.QuestionID, ticket.UploadID, *file)
	if err != nil {
		return err
	}
	logger := log.WithFields(log.Fields{"assignment": assignmentID, "question": ticket.QuestionID, "upload": ticket.UploadID})
	if !latest {
		logger.Info("upload superseded by a newer one")
		return nil
	}

	s.broadcaster.BroadcastToSession(assignmentID, account, EventUploadComplete, UploadEvent{
		UploadID:   ticket.UploadID,
		QuestionID: ticket.QuestionID,
		Percent:    100,
		File:       file,
	})
	logger.Info("upload complete")
	return nil
}

// fail records the error against the question unless a newer upload took
// over. It runs after the job context may have ended.
func (s *UploadService) fail(assignmentID, account string, ticket *UploadTicket, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := "upload failed"
	if cause != nil {
		msg = fmt.Sprintf("upload failed: %v", cause)
	}
	logger := log.WithFields(log.Fields{"assignment": assignmentID, "question": ticket.QuestionID, "upload": ticket.UploadID})

	latest, err := s.sessions.FailUpload(ctx, assignmentID, account, ticket.QuestionID, ticket.UploadID, msg)
	if err != nil {
		logger.WithError(err).Error("failed to record upload error")
		return
	}
	if !latest {
		return
	}
	logger.WithError(cause).Warn("upload failed")
	s.broadcaster.BroadcastToSession(assignmentID, account, EventUploadFailed, UploadEvent{
		UploadID:   ticket.UploadID,
		QuestionID: ticket.QuestionID,
		Error:      msg,
	})
}
