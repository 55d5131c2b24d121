package notification

import (
	"context"
	"log"
	"time"

	authrepo "lifedash-backend/internal/auth/repository"
	syncdomain "lifedash-backend/internal/sync/domain"
	"lifedash-backend/pkg/fcm"
	"lifedash-backend/pkg/sse"
)

// Service fans record-change events out to SSE streams and, for changes the
// user should act on, to their registered devices via FCM. It implements the
// sync layer's ChangeNotifier.
type Service struct {
	sseManager *sse.Manager
	deviceRepo authrepo.DeviceTokenRepository
	fcmClient  *fcm.Client
}

func NewService(sseManager *sse.Manager, deviceRepo authrepo.DeviceTokenRepository, fcmClient *fcm.Client) *Service {
	return &Service{
		sseManager: sseManager,
		deviceRepo: deviceRepo,
		fcmClient:  fcmClient,
	}
}

// NotifyRecordChange pushes one change to the user's open dashboards and
// devices. Never blocks the sync path; FCM delivery runs in the background.
func (s *Service) NotifyRecordChange(userID string, domainType syncdomain.DomainType, action, recordName string) {
	s.sseManager.SendToUser(userID, "record_update", map[string]interface{}{
		"domain":    string(domainType),
		"action":    action,
		"name":      recordName,
		"timestamp": time.Now(),
	})

	if s.fcmClient == nil || s.deviceRepo == nil {
		return
	}

	// Push notifications only for task changes; the rest would be noise
	if domainType != syncdomain.DomainTasks {
		return
	}

	go s.pushToDevices(userID, domainType, action, recordName)
}

func (s *Service) pushToDevices(userID string, domainType syncdomain.DomainType, action, recordName string) {
	tokens, err := s.deviceRepo.GetTokensByUserID(userID)
	if err != nil {
		log.Printf("[Notification] Error getting device tokens for user %s: %v", userID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	title := "Task " + action
	body := recordName
	if body == "" {
		body = "A task in your workspace changed"
	}

	var tokenStrings []string
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	failedTokens, err := s.fcmClient.SendToDevices(context.Background(), tokenStrings, fcm.NotificationData{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":         "record_update",
			"domain":       string(domainType),
			"action":       action,
			"click_action": "/tasks",
		},
	})
	if err != nil {
		log.Printf("[Notification] Error sending push for user %s: %v", userID, err)
		return
	}

	// Prune tokens FCM rejected
	for _, token := range failedTokens {
		s.deviceRepo.DeleteToken(token)
	}
}
