package session

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"clinic-connect/configuration"
	"clinic-connect/models"
)

const authKey = "session:auth"

// Auth state survives restarts for roughly a refresh-token lifetime.
const authTTL = 30 * 24 * time.Hour

// Persistence is the key/value backing for the auth slice. Redis in
// production, a map in tests.
type Persistence interface {
	Save(key string, data []byte, ttl time.Duration) error
	Load(key string) ([]byte, error)
	Delete(key string) error
}

type redisPersistence struct{}

func (redisPersistence) Save(key string, data []byte, ttl time.Duration) error {
	return configuration.SetRedis(key, data, ttl)
}

func (redisPersistence) Load(key string) ([]byte, error) {
	val, err := configuration.GetRedis(key)
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

func (redisPersistence) Delete(key string) error {
	return configuration.DelRedis(key)
}

// Store holds the two session slices. The auth slice (token, refresh token,
// user) is written through to persistence; the meeting slice is memory only
// and always starts closed. All writes go through the named mutation methods,
// reads return snapshots.
type Store struct {
	mu      sync.RWMutex
	auth    models.AuthState
	meeting models.MeetingState
	persist Persistence
}

func NewStore(p Persistence) *Store {
	return &Store{persist: p}
}

// NewRedisStore returns a store backed by the shared redis client.
func NewRedisStore() *Store {
	return NewStore(redisPersistence{})
}

// Rehydrate restores the auth slice from persistence. A missing or unreadable
// record just means a fresh session. The meeting slice is deliberately not
// restored.
func (s *Store) Rehydrate() {
	data, err := s.persist.Load(authKey)
	if err != nil {
		return
	}

	var auth models.AuthState
	if err := json.Unmarshal(data, &auth); err != nil {
		log.Println("Discarding unreadable session state:", err)
		return
	}

	s.mu.Lock()
	s.auth = auth
	s.mu.Unlock()
}

// SetCredentials replaces the auth slice after a successful login.
func (s *Store) SetCredentials(auth models.AuthState) {
	s.mu.Lock()
	s.auth = auth
	s.mu.Unlock()

	data, err := json.Marshal(auth)
	if err != nil {
		log.Println("Failed to marshal session state:", err)
		return
	}
	if err := s.persist.Save(authKey, data, authTTL); err != nil {
		log.Println("Failed to persist session state:", err)
	}
}

// ClearCredentials wipes the auth slice on logout.
func (s *Store) ClearCredentials() {
	s.mu.Lock()
	s.auth = models.AuthState{}
	s.mu.Unlock()

	if err := s.persist.Delete(authKey); err != nil {
		log.Println("Failed to clear persisted session:", err)
	}
}

// Auth returns a snapshot of the auth slice.
func (s *Store) Auth() models.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}

// OpenMeeting marks a consultation as in progress.
func (s *Store) OpenMeeting(appointmentID int, link string) {
	s.mu.Lock()
	s.meeting = models.MeetingState{Open: true, AppointmentID: appointmentID, MeetingLink: link}
	s.mu.Unlock()
}

// CloseMeeting resets the meeting slice.
func (s *Store) CloseMeeting() {
	s.mu.Lock()
	s.meeting = models.MeetingState{}
	s.mu.Unlock()
}

// Meeting returns a snapshot of the meeting slice.
func (s *Store) Meeting() models.MeetingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meeting
}
