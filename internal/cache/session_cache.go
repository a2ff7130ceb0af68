package cache

import (
	"campussafety/internal/form"
	"campussafety/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache holds the live Answer State of open form sessions. Each
// session is a few hashes so concurrent writers touch independent fields.
type SessionCache interface {
	// Load returns nil, nil when no session is open
	Load(ctx context.Context, assignmentID, account string) (*form.State, error)
	Init(ctx context.Context, assignmentID, account string, st *form.State) error
	SetValues(ctx context.Context, assignmentID, account string, values map[string]form.Value) error
	Delete(ctx context.Context, assignmentID, account string) error

	// Uploads
	StartUpload(ctx context.Context, assignmentID, account, questionID, uploadID string) error
	CompleteUpload(ctx context.Context, assignmentID, account, questionID, uploadID string, file model.UploadedFile) (bool, error)
	FailUpload(ctx context.Context, assignmentID, account, questionID, uploadID, message string) (bool, error)
	UploadErrors(ctx context.Context, assignmentID, account string) (map[string]string, error)
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

// Key helpers
func sessionKey(assignmentID, account string) string {
	return fmt.Sprintf("session:%s:%s", assignmentID, account)
}

func (c *sessionCache) metaKey(assignmentID, account string) string {
	return sessionKey(assignmentID, account) + ":meta"
}

func (c *sessionCache) answersKey(assignmentID, account string) string {
	return sessionKey(assignmentID, account) + ":answers"
}

func (c *sessionCache) filesKey(assignmentID, account string) string {
	return sessionKey(assignmentID, account) + ":files"
}

func (c *sessionCache) errorsKey(assignmentID, account string) string {
	return sessionKey(assignmentID, account) + ":uploadErrors"
}

func (c *sessionCache) uploadsKey(assignmentID, account string) string {
	return sessionKey(assignmentID, account) + ":uploads"
}

func (c *sessionCache) allKeys(assignmentID, account string) []string {
	return []string{
		c.metaKey(assignmentID, account),
		c.answersKey(assignmentID, account),
		c.filesKey(assignmentID, account),
		c.errorsKey(assignmentID, account),
		c.uploadsKey(assignmentID, account),
	}
}

func (c *sessionCache) Load(ctx context.Context, assignmentID, account string) (*form.State, error) {
	n, err := c.client.Exists(ctx, c.metaKey(assignmentID, account)).Result()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	answers, err := c.client.HGetAll(ctx, c.answersKey(assignmentID, account)).Result()
	if err != nil {
		return nil, err
	}
	files, err := c.client.HGetAll(ctx, c.filesKey(assignmentID, account)).Result()
	if err != nil {
		return nil, err
	}
	return decodeState(answers, files), nil
}

func (c *sessionCache) Init(ctx context.Context, assignmentID, account string, st *form.State) error {
	answers, files, err := encodeState(st)
	if err != nil {
		return err
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, c.allKeys(assignmentID, account)...)
	pipe.Set(ctx, c.metaKey(assignmentID, account), time.Now().UTC().Format(time.RFC3339), c.ttl)
	if len(answers) > 0 {
		pipe.HSet(ctx, c.answersKey(assignmentID, account), answers)
	}
	if len(files) > 0 {
		pipe.HSet(ctx, c.filesKey(assignmentID, account), files)
	}
	c.touch(ctx, pipe, assignmentID, account)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *sessionCache) SetValues(ctx context.Context, assignmentID, account string, values map[string]form.Value) error {
	if len(values) == 0 {
		return nil
	}
	fields := make(map[string]any, len(values))
	for k, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fields[k] = data
	}

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, c.answersKey(assignmentID, account), fields)
	c.touch(ctx, pipe, assignmentID, account)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *sessionCache) Delete(ctx context.Context, assignmentID, account string) error {
	return c.client.Del(ctx, c.allKeys(assignmentID, account)...).Err()
}

// StartUpload records uploadID as the latest upload for the question and
// clears its previous error
func (c *sessionCache) StartUpload(ctx context.Context, assignmentID, account, questionID, uploadID string) error {
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, c.uploadsKey(assignmentID, account), questionID, uploadID)
	pipe.HDel(ctx, c.errorsKey(assignmentID, account), questionID)
	c.touch(ctx, pipe, assignmentID, account)
	_, err := pipe.Exec(ctx)
	return err
}

// resolveUpload writes ARGV[3] into KEYS[2] only while ARGV[2] is still the
// latest upload of question ARGV[1]. KEYS[3], when given, is cleared for the
// question.
var resolveUpload = redis.NewScript(`
if redis.call("HGET", KEYS[1], ARGV[1]) ~= ARGV[2] then
	return 0
end
redis.call("HSET", KEYS[2], ARGV[1], ARGV[3])
if #KEYS > 2 then
	redis.call("HDEL", KEYS[3], ARGV[1])
end
redis.call("HDEL", KEYS[1], ARGV[1])
return 1
`)

// completeKeys attach the file and clear the question's error
func (c *sessionCache) completeKeys(assignmentID, account string) []string {
	return []string{
		c.uploadsKey(assignmentID, account),
		c.filesKey(assignmentID, account),
		c.errorsKey(assignmentID, account),
	}
}

// failKeys record the error and leave an earlier file attached
func (c *sessionCache) failKeys(assignmentID, account string) []string {
	return []string{
		c.uploadsKey(assignmentID, account),
		c.errorsKey(assignmentID, account),
	}
}

// CompleteUpload attaches the file unless a newer upload superseded this one
func (c *sessionCache) CompleteUpload(ctx context.Context, assignmentID, account, questionID, uploadID string, file model.UploadedFile) (bool, error) {
	data, err := json.Marshal(file)
	if err != nil {
		return false, err
	}
	n, err := resolveUpload.Run(ctx, c.client, c.completeKeys(assignmentID, account), questionID, uploadID, string(data)).Int()
	return n == 1, err
}

// FailUpload records the error unless a newer upload superseded this one.
// A file attached by an earlier upload stays in place.
func (c *sessionCache) FailUpload(ctx context.Context, assignmentID, account, questionID, uploadID, message string) (bool, error) {
	n, err := resolveUpload.Run(ctx, c.client, c.failKeys(assignmentID, account), questionID, uploadID, message).Int()
	return n == 1, err
}

func (c *sessionCache) UploadErrors(ctx context.Context, assignmentID, account string) (map[string]string, error) {
	return c.client.HGetAll(ctx, c.errorsKey(assignmentID, account)).Result()
}

func (c *sessionCache) touch(ctx context.Context, pipe redis.Pipeliner, assignmentID, account string) {
	for _, key := range c.allKeys(assignmentID, account) {
		pipe.Expire(ctx, key, c.ttl)
	}
}

func encodeState(st *form.State) (map[string]any, map[string]any, error) {
	answers := make(map[string]any, len(st.Values))
	for k, v := range st.Values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s: %w", k, err)
		}
		answers[k] = data
	}
	files := make(map[string]any, len(st.Files))
	for k, f := range st.Files {
		data, err := json.Marshal(f)
		if err != nil {
			return nil, nil, fmt.Errorf("encode file %s: %w", k, err)
		}
		files[k] = data
	}
	return answers, files, nil
}

// decodeState skips entries that no longer decode
func decodeState(answers, files map[string]string) *form.State {
	st := form.NewState()
	for k, raw := range answers {
		var v form.Value
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			continue
		}
		st.Values[k] = v
	}
	for k, raw := range files {
		var f model.UploadedFile
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			continue
		}
		st.Files[k] = f
	}
	return st
}
