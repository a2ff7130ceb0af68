package service

import (
	"bytes"
	"campussafety/internal/config"
	"campussafety/internal/log"
	"campussafety/internal/model"
	"campussafety/internal/repository"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Submitter delivers a completion. A returned error means the call did not
// go through; a result without Success means the service refused it.
type Submitter interface {
	Submit(ctx context.Context, assignmentID string, payload *CompletionPayload) (*model.SubmitResult, error)
}

// NewSubmitter posts to the completion endpoint when one is configured and
// otherwise stores completions directly
func NewSubmitter(cfg *config.CompletionConfig, completions repository.CompletionRepo) Submitter {
	archive := NewStoreSubmitter(completions)
	if !cfg.IsEnabled() {
		log.Info("COMPLETION_ENDPOINT not set, storing completions locally")
		return archive
	}
	return NewHTTPSubmitter(cfg, archive)
}

// StoreSubmitter writes completions to the completions collection
type StoreSubmitter struct {
	completions repository.CompletionRepo
}

func NewStoreSubmitter(completions repository.CompletionRepo) *StoreSubmitter {
	return &StoreSubmitter{completions: completions}
}

func (s *StoreSubmitter) Submit(ctx context.Context, assignmentID string, payload *CompletionPayload) (*model.SubmitResult, error) {
	return s.store(ctx, assignmentID, payload, "")
}

func (s *StoreSubmitter) store(ctx context.Context, assignmentID string, payload *CompletionPayload, id string) (*model.SubmitResult, error) {
	completion := payload.Completion(assignmentID)
	completion.ID = id
	cid, err := s.completions.Create(ctx, completion)
	if err != nil {
		return nil, err
	}
	return &model.SubmitResult{Success: true, CompletionID: cid}, nil
}

// HTTPSubmitter posts completions as multipart forms to
// {endpoint}/{assignmentId} and keeps a local copy for reports
type HTTPSubmitter struct {
	config  *config.CompletionConfig
	client  *http.Client
	archive *StoreSubmitter
}

func NewHTTPSubmitter(cfg *config.CompletionConfig, archive *StoreSubmitter) *HTTPSubmitter {
	return &HTTPSubmitter{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		archive: archive,
	}
}

func (s *HTTPSubmitter) Submit(ctx context.Context, assignmentID string, payload *CompletionPayload) (*model.SubmitResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := payload.WriteMultipart(mw); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.AssignmentEndpoint(assignmentID), &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	result := parseSubmitResponse(resp.StatusCode, data)
	if !result.Success {
		return result, nil
	}

	if s.archive != nil {
		if _, err := s.archive.store(ctx, assignmentID, payload, result.CompletionID); err != nil {
			log.WithFields(log.Fields{"assignment": assignmentID}).WithError(err).Error("failed to archive completion")
		}
	}
	return result, nil
}

// parseSubmitResponse accepts a JSON SubmitResult body or, on 2xx, any body
func parseSubmitResponse(status int, body []byte) *model.SubmitResult {
	var result model.SubmitResult
	decoded := json.Unmarshal(body, &result) == nil

	if status < 200 || status > 299 {
		msg := result.Error
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &model.SubmitResult{Success: false, Error: fmt.Sprintf("completion endpoint returned %d: %s", status, msg)}
	}
	if !decoded {
		return &model.SubmitResult{Success: true}
	}
	if !result.Success && result.Error == "" {
		// 2xx without an explicit verdict
		result.Success = true
	}
	return &result
}
