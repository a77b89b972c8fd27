package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"recshare/internal/models"
)

// shareKey identifies one (recording, viewer) sharing entry.
type shareKey struct {
	url   string
	email string
}

// Memory is an in-memory Store used by the memory backend mode and the
// test suites. A single mutex serializes every operation, which also
// serializes concurrent shares against the same recording.
type Memory struct {
	mu sync.Mutex

	viewers    map[string]models.Viewer    // keyed by email
	meetings   map[uuid.UUID]models.Meeting
	recordings map[string]models.Recording // keyed by url
	shares     map[shareKey]time.Time

	// insertion order for stable listings
	viewerOrder    []string
	meetingOrder   []uuid.UUID
	recordingOrder []string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		viewers:    make(map[string]models.Viewer),
		meetings:   make(map[uuid.UUID]models.Meeting),
		recordings: make(map[string]models.Recording),
		shares:     make(map[shareKey]time.Time),
	}
}

func (m *Memory) FindViewerByEmail(_ context.Context, email string) (*models.Viewer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.viewers[email]
	if !ok {
		return nil, ErrViewerNotFound
	}
	return &v, nil
}

func (m *Memory) InsertViewer(_ context.Context, viewer *models.Viewer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.viewers[viewer.Email]; ok {
		return ErrDuplicateEmail
	}

	viewer.ID = uuid.New()
	viewer.CreatedAt = time.Now().UTC()
	m.viewers[viewer.Email] = *viewer
	m.viewerOrder = append(m.viewerOrder, viewer.Email)
	return nil
}

func (m *Memory) ListViewers(_ context.Context) ([]models.Viewer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	viewers := make([]models.Viewer, 0, len(m.viewerOrder))
	for _, email := range m.viewerOrder {
		viewers = append(viewers, m.viewers[email])
	}
	return viewers, nil
}

func (m *Memory) FindMeetingByID(_ context.Context, id uuid.UUID) (*models.Meeting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt, ok := m.meetings[id]
	if !ok {
		return nil, ErrMeetingNotFound
	}
	return &mt, nil
}

func (m *Memory) InsertMeeting(_ context.Context, meeting *models.Meeting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	meeting.ID = uuid.New()
	meeting.CreatedAt = time.Now().UTC()
	m.meetings[meeting.ID] = *meeting
	m.meetingOrder = append(m.meetingOrder, meeting.ID)
	return nil
}

func (m *Memory) ListMeetings(_ context.Context) ([]models.Meeting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	meetings := make([]models.Meeting, 0, len(m.meetingOrder))
	for _, id := range m.meetingOrder {
		meetings = append(meetings, m.meetings[id])
	}
	return meetings, nil
}

func (m *Memory) FindRecordingByURL(_ context.Context, url string) (*models.Recording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.recordings[url]
	if !ok {
		return nil, ErrRecordingNotFound
	}
	return &r, nil
}

func (m *Memory) InsertRecording(_ context.Context, recording *models.Recording) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recordings[recording.URL]; ok {
		return ErrDuplicateURL
	}
	if _, ok := m.meetings[recording.MeetingID]; !ok {
		return ErrMeetingNotFound
	}

	recording.CreatedAt = time.Now().UTC()
	m.recordings[recording.URL] = *recording
	m.recordingOrder = append(m.recordingOrder, recording.URL)
	return nil
}

func (m *Memory) ListRecordings(_ context.Context) ([]models.Recording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recordings := make([]models.Recording, 0, len(m.recordingOrder))
	for _, url := range m.recordingOrder {
		recordings = append(recordings, m.recordings[url])
	}
	return recordings, nil
}

// DeleteRecording removes the recording and every sharing entry pointing at
// it in one step, returning the deleted snapshot.
func (m *Memory) DeleteRecording(_ context.Context, url string) (*models.Recording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.recordings[url]
	if !ok {
		return nil, ErrRecordingNotFound
	}

	delete(m.recordings, url)
	for i, u := range m.recordingOrder {
		if u == url {
			m.recordingOrder = append(m.recordingOrder[:i], m.recordingOrder[i+1:]...)
			break
		}
	}
	for key := range m.shares {
		if key.url == url {
			delete(m.shares, key)
		}
	}

	return &r, nil
}

func (m *Memory) RecordingsNeedingProbe(_ context.Context, maxAge time.Duration, limit int) ([]models.Recording, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().UTC().Add(-maxAge)

	var due []models.Recording
	for _, url := range m.recordingOrder {
		if len(due) >= limit {
			break
		}
		r := m.recordings[url]
		if r.HealthCheckedAt == nil || r.HealthCheckedAt.Before(cutoff) {
			due = append(due, r)
		}
	}
	return due, nil
}

func (m *Memory) UpdateRecordingHealth(_ context.Context, url, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.recordings[url]
	if !ok {
		return ErrRecordingNotFound
	}

	now := time.Now().UTC()
	r.HealthStatus = &status
	r.HealthCheckedAt = &now
	m.recordings[url] = r
	return nil
}

func (m *Memory) AddSharingEntry(_ context.Context, url, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := shareKey{url: url, email: email}
	if _, ok := m.shares[key]; ok {
		return ErrAlreadyShared
	}
	if _, ok := m.recordings[url]; !ok {
		return ErrRecordingNotFound
	}
	if _, ok := m.viewers[email]; !ok {
		return ErrViewerNotFound
	}

	m.shares[key] = time.Now().UTC()
	return nil
}

func (m *Memory) IsShared(_ context.Context, url, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.shares[shareKey{url: url, email: email}]
	return ok, nil
}

func (m *Memory) ListSharedViewers(_ context.Context, url string) ([]models.Viewer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recordings[url]; !ok {
		return nil, ErrRecordingNotFound
	}

	var viewers []models.Viewer
	for _, email := range m.viewerOrder {
		if _, ok := m.shares[shareKey{url: url, email: email}]; ok {
			viewers = append(viewers, m.viewers[email])
		}
	}
	return viewers, nil
}

func (m *Memory) Counts(_ context.Context) (Counts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Counts{
		Viewers:    len(m.viewers),
		Meetings:   len(m.meetings),
		Recordings: len(m.recordings),
		Shares:     len(m.shares),
	}, nil
}

func (m *Memory) Ping(_ context.Context) error { return nil }

func (m *Memory) Close() {}

var _ Store = (*Memory)(nil)
