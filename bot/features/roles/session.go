package roles

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"wanksy/models"
	"wanksy/service"
)

// reconcileSession holds a dry-run awaiting confirmation. The live run replays
// the exact same input, which is what makes the dry-run counts trustworthy.
type reconcileSession struct {
	InvokerID string
	Team      models.Team
	Input     service.ReconcileInput
	Timestamp time.Time
}

var (
	reconcileSessions   = make(map[string]*reconcileSession)
	reconcileSessionsMu sync.RWMutex
)

// sessionLifetime is how long an unconfirmed dry-run stays claimable
const sessionLifetime = 10 * time.Minute

func createReconcileSession(invokerID string, team models.Team, input service.ReconcileInput) string {
	cleanupReconcileSessions()

	id := uuid.NewString()
	reconcileSessionsMu.Lock()
	defer reconcileSessionsMu.Unlock()
	reconcileSessions[id] = &reconcileSession{
		InvokerID: invokerID,
		Team:      team,
		Input:     input,
		Timestamp: time.Now(),
	}
	return id
}

func getReconcileSession(id string) *reconcileSession {
	reconcileSessionsMu.RLock()
	defer reconcileSessionsMu.RUnlock()
	return reconcileSessions[id]
}

func deleteReconcileSession(id string) {
	reconcileSessionsMu.Lock()
	defer reconcileSessionsMu.Unlock()
	delete(reconcileSessions, id)
}

// cleanupReconcileSessions removes sessions past their lifetime
func cleanupReconcileSessions() {
	reconcileSessionsMu.Lock()
	defer reconcileSessionsMu.Unlock()

	now := time.Now()
	for id, session := range reconcileSessions {
		if now.Sub(session.Timestamp) > sessionLifetime {
			delete(reconcileSessions, id)
		}
	}
}
