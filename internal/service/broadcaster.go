package service

// Session event types pushed over the WebSocket
const (
	EventProgressUpdate    = "progress_update"
	EventVisibilityChanged = "visibility_changed"
	EventDraftSaved        = "draft_saved"
	EventUploadProgress    = "upload_progress"
	EventUploadComplete    = "upload_complete"
	EventUploadFailed      = "upload_failed"
	EventSubmitted         = "submitted"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(assignmentID, account string, msgType string, payload interface{})
	DisconnectSession(assignmentID, account string)
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToSession(string, string, string, interface{}) {}
func (noopBroadcaster) DisconnectSession(string, string)                      {}
