// Package memory keeps repositories in process memory. It backs DB_DRIVER=memory and the
// service scenario tests. Execute runs fn on the shared state under one lock and journals
// every write, replaying the journal backwards when fn fails. A transaction costs what it
// writes, not the size of the store.
package memory

import (
	"context"
	"fileshare/internal/core/domain"
	"fileshare/internal/core/port"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type state struct {
	files    map[uuid.UUID]domain.FileRecord
	sessions map[uuid.UUID]domain.UploadSession
	chunks   map[uuid.UUID]map[int]int64
	events   map[uuid.UUID]domain.FileEvent

	// journal holds undo steps while a transaction runs
	journal   []func()
	recording bool
}

func newState() *state {
	return &state{
		files:    make(map[uuid.UUID]domain.FileRecord),
		sessions: make(map[uuid.UUID]domain.UploadSession),
		chunks:   make(map[uuid.UUID]map[int]int64),
		events:   make(map[uuid.UUID]domain.FileEvent),
	}
}

// remember journals how to restore m[k] before it is written or deleted
func remember[K comparable, V any](st *state, m map[K]V, k K) {
	if !st.recording {
		return
	}
	prev, ok := m[k]
	st.journal = append(st.journal, func() {
		if ok {
			m[k] = prev
		} else {
			delete(m, k)
		}
	})
}

func (s *state) rollback() {
	for i := len(s.journal) - 1; i >= 0; i-- {
		s.journal[i]()
	}
}

type store struct {
	mu sync.Mutex
	st *state
}

// access runs fn on the transaction state when there is one, on the shared state otherwise
type access struct {
	store *store
	tx    *state
}

func (a access) with(fn func(st *state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return fn(a.store.st)
}

type unitOfWork struct {
	access
}

// NewUnitOfWork creates an empty in-memory unit of work
func NewUnitOfWork() port.UnitOfWork {
	return &unitOfWork{access{store: &store{st: newState()}}}
}

func (u *unitOfWork) FileRepo() port.FileRepository {
	return &fileRepository{u.access}
}

func (u *unitOfWork) UploadSessionRepo() port.UploadSessionRepository {
	return &uploadSessionRepository{u.access}
}

func (u *unitOfWork) FileEventRepo() port.FileEventRepository {
	return &fileEventRepository{u.access}
}

// Execute must only touch repositories of the uow handed to fn
func (u *unitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	st := u.store.st
	st.recording = true
	committed := false
	defer func() {
		if !committed {
			st.rollback()
		}
		st.recording = false
		st.journal = nil
	}()

	if err := fn(&unitOfWork{access{store: u.store, tx: st}}); err != nil {
		return err
	}
	committed = true
	return nil
}

type fileRepository struct {
	access
}

func (r *fileRepository) Create(_ context.Context, record domain.FileRecord) error {
	return r.with(func(st *state) error {
		if _, ok := st.files[record.ID]; ok {
			return domain.ErrAlreadyExists
		}
		remember(st, st.files, record.ID)
		st.files[record.ID] = record
		return nil
	})
}

func (r *fileRepository) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.with(func(st *state) error {
		_, exists = st.files[id]
		return nil
	})
	return exists, err
}

func (r *fileRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.FileRecord, error) {
	var record domain.FileRecord
	err := r.with(func(st *state) error {
		var ok bool
		if record, ok = st.files[id]; !ok {
			return domain.ErrFileNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *fileRepository) FindByOwner(_ context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.FileRecord, error) {
	var records []domain.FileRecord
	now := time.Now()
	err := r.with(func(st *state) error {
		for _, f := range st.files {
			if f.OwnerID == ownerID && !f.IsExpired(now) {
				records = append(records, f)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID.String() < records[j].ID.String()
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return page(records, limit, offset), nil
}

func (r *fileRepository) SumSizeByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	var total int64
	now := time.Now()
	err := r.with(func(st *state) error {
		for _, f := range st.files {
			if f.OwnerID == ownerID && !f.IsExpired(now) {
				total += f.SizeBytes
			}
		}
		return nil
	})
	return total, err
}

func (r *fileRepository) IncrementDownloadCount(_ context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.with(func(st *state) error {
		f, ok := st.files[id]
		if !ok {
			return domain.ErrFileNotFound
		}
		f.DownloadCount++
		remember(st, st.files, id)
		st.files[id] = f
		count = f.DownloadCount
		return nil
	})
	return count, err
}

func (r *fileRepository) ToggleVisibility(_ context.Context, id uuid.UUID) (bool, error) {
	var isPublic bool
	err := r.with(func(st *state) error {
		f, ok := st.files[id]
		if !ok {
			return domain.ErrFileNotFound
		}
		f.IsPublic = !f.IsPublic
		remember(st, st.files, id)
		st.files[id] = f
		isPublic = f.IsPublic
		return nil
	})
	return isPublic, err
}

func (r *fileRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.with(func(st *state) error {
		if _, ok := st.files[id]; !ok {
			return domain.ErrFileNotFound
		}
		remember(st, st.files, id)
		delete(st.files, id)
		return nil
	})
}

func (r *fileRepository) FindExpired(_ context.Context, now time.Time, limit int) ([]domain.FileRecord, error) {
	var records []domain.FileRecord
	err := r.with(func(st *state) error {
		for _, f := range st.files {
			if f.IsExpired(now) {
				records = append(records, f)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ExpiresAt.Before(*records[j].ExpiresAt)
	})
	return page(records, limit, 0), nil
}

type uploadSessionRepository struct {
	access
}

func (r *uploadSessionRepository) Create(_ context.Context, session domain.UploadSession) error {
	return r.with(func(st *state) error {
		if _, ok := st.sessions[session.ID]; ok {
			return domain.ErrAlreadyExists
		}
		remember(st, st.sessions, session.ID)
		st.sessions[session.ID] = session
		return nil
	})
}

func (r *uploadSessionRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	var session domain.UploadSession
	err := r.with(func(st *state) error {
		var ok bool
		if session, ok = st.sessions[id]; !ok {
			return domain.ErrSessionNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *uploadSessionRepository) OpenUsageByOwner(_ context.Context, ownerID uuid.UUID) (int, int64, error) {
	var count int
	var pending int64
	err := r.with(func(st *state) error {
		for _, s := range st.sessions {
			if s.OwnerID == ownerID && s.IsOpen() {
				count++
				pending += s.DeclaredSize
			}
		}
		return nil
	})
	return count, pending, err
}

func (r *uploadSessionRepository) Touch(_ context.Context, id uuid.UUID, at time.Time) error {
	return r.with(func(st *state) error {
		s, ok := st.sessions[id]
		if !ok || !s.IsOpen() {
			return domain.ErrSessionNotFound
		}
		s.UpdatedAt = at
		remember(st, st.sessions, id)
		st.sessions[id] = s
		return nil
	})
}

func (r *uploadSessionRepository) MarkCompleted(_ context.Context, id uuid.UUID, fileID uuid.UUID, at time.Time) error {
	return r.with(func(st *state) error {
		s, ok := st.sessions[id]
		if !ok || !s.IsOpen() {
			return domain.ErrAlreadyCompleted
		}
		s.Status = domain.UploadSessionStatusCompleted
		s.FileID = &fileID
		s.UpdatedAt = at
		remember(st, st.sessions, id)
		st.sessions[id] = s
		return nil
	})
}

func (r *uploadSessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.with(func(st *state) error {
		if _, ok := st.sessions[id]; !ok {
			return domain.ErrSessionNotFound
		}
		remember(st, st.sessions, id)
		remember(st, st.chunks, id)
		delete(st.sessions, id)
		delete(st.chunks, id)
		return nil
	})
}

func (r *uploadSessionRepository) FindIdle(_ context.Context, before time.Time) ([]domain.UploadSession, error) {
	var sessions []domain.UploadSession
	err := r.with(func(st *state) error {
		for _, s := range st.sessions {
			if s.IsOpen() && s.UpdatedAt.Before(before) {
				sessions = append(sessions, s)
			}
		}
		return nil
	})
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.Before(sessions[j].UpdatedAt)
	})
	return sessions, err
}

func (r *uploadSessionRepository) DeleteCompletedBefore(_ context.Context, before time.Time) (int64, error) {
	var deleted int64
	err := r.with(func(st *state) error {
		for id, s := range st.sessions {
			if s.Status == domain.UploadSessionStatusCompleted && s.UpdatedAt.Before(before) {
				remember(st, st.sessions, id)
				remember(st, st.chunks, id)
				delete(st.sessions, id)
				delete(st.chunks, id)
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}

func (r *uploadSessionRepository) UpsertChunk(_ context.Context, sessionID uuid.UUID, receipt domain.ChunkReceipt) error {
	return r.with(func(st *state) error {
		if _, ok := st.sessions[sessionID]; !ok {
			return domain.ErrSessionNotFound
		}
		received, ok := st.chunks[sessionID]
		if !ok {
			received = make(map[int]int64)
			remember(st, st.chunks, sessionID)
			st.chunks[sessionID] = received
		}
		remember(st, received, receipt.Index)
		received[receipt.Index] = receipt.SizeBytes
		return nil
	})
}

func (r *uploadSessionRepository) ListChunks(_ context.Context, sessionID uuid.UUID) ([]domain.ChunkReceipt, error) {
	receipts := make([]domain.ChunkReceipt, 0)
	err := r.with(func(st *state) error {
		for index, size := range st.chunks[sessionID] {
			receipts = append(receipts, domain.ChunkReceipt{Index: index, SizeBytes: size})
		}
		return nil
	})
	sort.Slice(receipts, func(i, j int) bool {
		return receipts[i].Index < receipts[j].Index
	})
	return receipts, err
}

func (r *uploadSessionRepository) DeleteChunks(_ context.Context, sessionID uuid.UUID) error {
	return r.with(func(st *state) error {
		remember(st, st.chunks, sessionID)
		delete(st.chunks, sessionID)
		return nil
	})
}

type fileEventRepository struct {
	access
}

func (r *fileEventRepository) Create(_ context.Context, event domain.FileEvent) error {
	return r.with(func(st *state) error {
		if _, ok := st.events[event.ID]; ok {
			return domain.ErrAlreadyExists
		}
		remember(st, st.events, event.ID)
		st.events[event.ID] = event
		return nil
	})
}

func (r *fileEventRepository) FindByFileID(_ context.Context, fileID uuid.UUID) ([]domain.FileEvent, error) {
	var events []domain.FileEvent
	err := r.with(func(st *state) error {
		for _, e := range st.events {
			if e.FileID != nil && *e.FileID == fileID {
				events = append(events, e)
			}
		}
		return nil
	})
	sort.Slice(events, func(i, j int) bool {
		return events[i].OccurredAt.Before(events[j].OccurredAt)
	})
	return events, err
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
