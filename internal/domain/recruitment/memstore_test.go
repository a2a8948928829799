package recruitment

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

// memStore is an in-memory store backing every persistence port.
// Transactions serialize but do not roll back, like a store without
// cross-collection transactions.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	postings map[uuid.UUID]*model.RecruitmentPosting
	apps     map[uuid.UUID]*model.RecruitmentApplication
	pods     map[uuid.UUID]*model.Pod
	messages map[uuid.UUID]int64

	failLink error
}

func newMemStore() *memStore {
	return &memStore{
		postings: make(map[uuid.UUID]*model.RecruitmentPosting),
		apps:     make(map[uuid.UUID]*model.RecruitmentApplication),
		pods:     make(map[uuid.UUID]*model.Pod),
		messages: make(map[uuid.UUID]int64),
	}
}

func clonePosting(p *model.RecruitmentPosting) *model.RecruitmentPosting {
	c := *p
	c.RequiredSkills = append(pq.StringArray{}, p.RequiredSkills...)
	c.ConfirmedMemberIDs = append(pq.StringArray{}, p.ConfirmedMemberIDs...)
	if p.LinkedPodID != nil {
		id := *p.LinkedPodID
		c.LinkedPodID = &id
	}
	return &c
}

func cloneApp(a *model.RecruitmentApplication) *model.RecruitmentApplication {
	c := *a
	return &c
}

func clonePod(p *model.Pod) *model.Pod {
	c := *p
	c.MemberIDs = append(pq.StringArray{}, p.MemberIDs...)
	c.Topics = append(pq.StringArray{}, p.Topics...)
	return &c
}

func sameEvent(a *uuid.UUID, b uuid.UUID) bool {
	return a != nil && *a == b
}

// ---- transactions ----

type memTx struct{ s *memStore }

type txKey struct{}

func (t memTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

func (t memTx) LockKey(context.Context, string) error { return nil }

// ---- postings ----

type memPostings struct{ s *memStore }

func (r memPostings) Create(_ context.Context, p *model.RecruitmentPosting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.postings[p.ID] = clonePosting(p)
	return nil
}

func (r memPostings) FindByID(_ context.Context, id uuid.UUID) (*model.RecruitmentPosting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.postings[id]
	if !ok {
		return nil, outbound.ErrNotFound
	}
	return clonePosting(p), nil
}

func (r memPostings) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.RecruitmentPosting, error) {
	return r.FindByID(ctx, id)
}

func (r memPostings) FindByEvent(_ context.Context, eventID uuid.UUID, createdAfter time.Time) ([]*model.RecruitmentPosting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.RecruitmentPosting
	for _, p := range r.s.postings {
		if sameEvent(p.EventID, eventID) && p.CreatedAt.After(createdAfter) {
			out = append(out, clonePosting(p))
		}
	}
	return out, nil
}

func (r memPostings) FindCreatedBefore(_ context.Context, threshold time.Time, limit int) ([]*model.RecruitmentPosting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.RecruitmentPosting
	for _, p := range r.s.postings {
		if p.CreatedAt.Before(threshold) {
			out = append(out, clonePosting(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memPostings) FindByLinkedPod(_ context.Context, podID uuid.UUID) ([]*model.RecruitmentPosting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.RecruitmentPosting
	for _, p := range r.s.postings {
		if p.LinkedPodID != nil && *p.LinkedPodID == podID {
			out = append(out, clonePosting(p))
		}
	}
	return out, nil
}

func (r memPostings) ExistsConfirmedMember(_ context.Context, eventID, userID uuid.UUID, exclude *uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.postings {
		if !sameEvent(p.EventID, eventID) || (exclude != nil && p.ID == *exclude) {
			continue
		}
		if p.HasConfirmedMember(userID) {
			return true, nil
		}
	}
	return false, nil
}

func (r memPostings) AddConfirmedMember(_ context.Context, postingID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.postings[postingID]
	if !ok {
		return outbound.ErrNotFound
	}
	id := userID.String()
	for _, m := range p.ConfirmedMemberIDs {
		if m == id {
			return nil
		}
	}
	p.ConfirmedMemberIDs = append(p.ConfirmedMemberIDs, id)
	return nil
}

func (r memPostings) SetLinkedPod(_ context.Context, postingID, podID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failLink != nil {
		return r.s.failLink
	}
	p, ok := r.s.postings[postingID]
	if !ok {
		return outbound.ErrNotFound
	}
	if p.LinkedPodID != nil {
		if *p.LinkedPodID == podID {
			return nil
		}
		return outbound.ErrConflict
	}
	p.LinkedPodID = &podID
	return nil
}

func (r memPostings) CloseStale(_ context.Context, threshold time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.postings {
		if p.Status == model.PostingStatusOpen && p.CreatedAt.Before(threshold) {
			p.Status = model.PostingStatusClosed
			n++
		}
	}
	return n, nil
}

func (r memPostings) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.postings, id)
	return nil
}

// ---- applications ----

type memApplications struct{ s *memStore }

func (r memApplications) Create(_ context.Context, a *model.RecruitmentApplication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.apps {
		if existing.PostingID == a.PostingID && existing.ApplicantID == a.ApplicantID &&
			existing.Status != model.ApplicationStatusRejected {
			return outbound.ErrDuplicate
		}
	}
	r.s.apps[a.ID] = cloneApp(a)
	return nil
}

func (r memApplications) FindByID(_ context.Context, id uuid.UUID) (*model.RecruitmentApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.apps[id]
	if !ok {
		return nil, outbound.ErrNotFound
	}
	return cloneApp(a), nil
}

func (r memApplications) FindOpenByApplicant(_ context.Context, postingID, applicantID uuid.UUID) (*model.RecruitmentApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.apps {
		if a.PostingID == postingID && a.ApplicantID == applicantID && a.Status != model.ApplicationStatusRejected {
			return cloneApp(a), nil
		}
	}
	return nil, outbound.ErrNotFound
}

func (r memApplications) FindByPosting(_ context.Context, postingID uuid.UUID) ([]*model.RecruitmentApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.RecruitmentApplication
	for _, a := range r.s.apps {
		if a.PostingID == postingID {
			out = append(out, cloneApp(a))
		}
	}
	return out, nil
}

func (r memApplications) FindByApplicant(_ context.Context, applicantID uuid.UUID, limit, offset int) ([]*model.RecruitmentApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.RecruitmentApplication
	for _, a := range r.s.apps {
		if a.ApplicantID == applicantID {
			out = append(out, cloneApp(a))
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memApplications) FindAcceptedApplicants(_ context.Context, postingID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []uuid.UUID
	for _, a := range r.s.apps {
		if a.PostingID == postingID && a.Status == model.ApplicationStatusAccepted {
			out = append(out, a.ApplicantID)
		}
	}
	return out, nil
}

func (r memApplications) CountByPosting(_ context.Context, postingID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, a := range r.s.apps {
		if a.PostingID == postingID {
			n++
		}
	}
	return n, nil
}

func (r memApplications) Decide(_ context.Context, id uuid.UUID, d outbound.ApplicationDecision) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.apps[id]
	if !ok {
		return outbound.ErrNotFound
	}
	if a.Status != model.ApplicationStatusPending {
		return outbound.ErrConflict
	}
	a.Status = d.Status
	a.RejectionReason = d.Reason
	a.RejectionNote = d.Note
	decided := d.DecidedAt
	a.DecidedAt = &decided
	return nil
}

func (r memApplications) DeleteByPosting(_ context.Context, postingID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, a := range r.s.apps {
		if a.PostingID == postingID {
			delete(r.s.apps, id)
		}
	}
	return nil
}

// ---- pods ----

type memPods struct{ s *memStore }

func (r memPods) Create(_ context.Context, p *model.Pod) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.pods[p.ID] = clonePod(p)
	return nil
}

func (r memPods) FindByID(_ context.Context, id uuid.UUID) (*model.Pod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pods[id]
	if !ok {
		return nil, outbound.ErrNotFound
	}
	return clonePod(p), nil
}

func (r memPods) FindByLinkedPosting(_ context.Context, postingID uuid.UUID) (*model.Pod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.pods {
		if p.LinkedPostingID != nil && *p.LinkedPostingID == postingID {
			return clonePod(p), nil
		}
	}
	return nil, outbound.ErrNotFound
}

func (r memPods) ExistsMember(_ context.Context, eventID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.pods {
		if sameEvent(p.EventID, eventID) && p.Status == model.PodStatusActive && p.HasMember(userID) {
			return true, nil
		}
	}
	return false, nil
}

func (r memPods) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.pods, id)
	return nil
}

// ---- messages ----

type memMessages struct{ s *memStore }

func (r memMessages) DeleteByPod(_ context.Context, podID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := r.s.messages[podID]
	delete(r.s.messages, podID)
	return n, nil
}

// ---- collaborators ----

type recordingPublisher struct {
	mu        sync.Mutex
	events    []interface{}
	onPublish func(event interface{})
}

func (p *recordingPublisher) Publish(_ context.Context, event interface{}) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	hook := p.onPublish
	p.mu.Unlock()
	if hook != nil {
		hook(event)
	}
	return nil
}

func (p *recordingPublisher) all() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interface{}{}, p.events...)
}

type recordingStats struct {
	mu     sync.Mutex
	events []uuid.UUID
	err    error
}

func (s *recordingStats) RefreshEventStats(_ context.Context, eventID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, eventID)
	return s.err
}

type countingRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (r *countingRecorder) RecordRecruitmentOperation(string, string) {}

func (r *countingRecorder) RecordReconcileOutcome(job, outcome string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = make(map[string]int)
	}
	r.outcomes[job+"/"+outcome] += n
}

func (r *countingRecorder) count(job, outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcomes[job+"/"+outcome]
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errLinkWrite = errors.New("link write failed")

type harness struct {
	domain    *Domain
	store     *memStore
	clock     *fakeClock
	publisher *recordingPublisher
	stats     *recordingStats
}

func newHarness(opts ...Option) *harness {
	store := newMemStore()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	publisher := &recordingPublisher{}
	stats := &recordingStats{}

	cfg := DefaultConfig()
	cfg.CascadeRetryDelay = 0

	domain := NewDomain(
		memPostings{store},
		memApplications{store},
		memPods{store},
		memMessages{store},
		memTx{store},
		publisher,
		stats,
		cfg,
		nil,
		append([]Option{WithClock(clock.Now)}, opts...)...,
	)
	return &harness{domain: domain, store: store, clock: clock, publisher: publisher, stats: stats}
}

func (h *harness) setFailLink(err error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.failLink = err
}

func (h *harness) addMessages(podID uuid.UUID, n int64) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.messages[podID] += n
}

func (h *harness) podCount() int {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return len(h.store.pods)
}

func (h *harness) onlyPod() *model.Pod {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	for _, p := range h.store.pods {
		return clonePod(p)
	}
	return nil
}

func (h *harness) postingExists(id uuid.UUID) bool {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	_, ok := h.store.postings[id]
	return ok
}
