package server

import (
	"context"
	"encoding/json"
	"log"
)

// Event type constants prevent typos in event names.
const (
	EventVoteUpdate     = "vote-update"
	EventNewComment     = "new-comment"
	EventCommentLike    = "comment-like"
	EventCommentDeleted = "comment-deleted"
	EventUserTyping     = "user-typing"
)

// publishBroadcastEvent fans an event out to every connected client. With
// Redis present the event goes through the pub/sub bridge and comes back to
// every instance's hub (this one included); without Redis it goes straight
// to the local hub.
func (s *Server) publishBroadcastEvent(eventType string, payload interface{}) {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	eventJSON, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	message := string(eventJSON)

	if s.notifier != nil {
		if err := s.notifier.PublishBroadcast(context.Background(), message); err != nil {
			log.Printf("failed to publish %s event: %v", eventType, err)
			// Redis rejected the publish; deliver locally so this
			// instance's clients still see the event.
			s.hub.BroadcastAll(message)
		}
		return
	}

	s.hub.BroadcastAll(message)
}
